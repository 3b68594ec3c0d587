package rollback

import (
	"os"

	"github.com/gdpp-dev/gdpp/internal/atomicfile"
)

// FileSystem is the set of filesystem calls a Tx performs. Tests swap it to
// inject failures at a chosen call.
type FileSystem interface {
	Rename(from, to string) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
}

// OSFileSystem is the real filesystem. Writes go through atomicfile.
type OSFileSystem struct{}

func (OSFileSystem) Rename(from, to string) error { return os.Rename(from, to) }

func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return atomicfile.WriteFile(path, data, perm)
}

func (OSFileSystem) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

func (OSFileSystem) Lstat(path string) (os.FileInfo, error) { return os.Lstat(path) }

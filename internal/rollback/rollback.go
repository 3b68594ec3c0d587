// Package rollback records filesystem mutations so they can be undone.
//
// A Tx owns two logs for the lifetime of one operation:
//   - Backups: the original content of every file before its first write.
//   - Journal: every successful rename, in order.
//
// Undo restores file content first and then reverses renames newest-first, so
// a file that was edited after its directory was renamed is restored at its
// new location and then carried back with the directory.
//
// Compensation is best-effort: one failed restore or reverse rename is reported
// as a Warning and the remaining compensations still run.
package rollback

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
)

// Op names the kind of compensation that produced a Warning.
type Op string

const (
	OpRestore Op = "restore"
	OpRename  Op = "rename"
	OpWalk    Op = "walk"
)

// Warning is a compensation (or bulk-rename) step that could not be completed.
type Warning struct {
	Op     Op
	Path   string
	Target string
	Err    error
}

func (w Warning) String() string {
	if w.Target != "" {
		return fmt.Sprintf("could not %s %s -> %s: %v", w.Op, w.Path, w.Target, w.Err)
	}
	return fmt.Sprintf("could not %s %s: %v", w.Op, w.Path, w.Err)
}

// Tx bundles a Journal and Backups with the filesystem they act on.
type Tx struct {
	Journal *Journal
	Backups *Backups

	fs  FileSystem
	log *log.Logger
}

// Option configures a Tx.
type Option func(*Tx)

// WithFileSystem replaces the filesystem used by the Tx.
func WithFileSystem(fs FileSystem) Option {
	return func(tx *Tx) { tx.fs = fs }
}

// WithLogger sets the logger that receives compensation warnings.
func WithLogger(l *log.Logger) Option {
	return func(tx *Tx) {
		if l != nil {
			tx.log = l
		}
	}
}

// New returns an empty Tx on the real filesystem with a discarding logger.
func New(opts ...Option) *Tx {
	tx := &Tx{
		fs:  OSFileSystem{},
		log: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(tx)
	}
	tx.Journal = &Journal{fs: tx.fs, log: tx.log}
	tx.Backups = &Backups{fs: tx.fs, log: tx.log, snaps: make(map[string]snapshot)}
	return tx
}

// FS returns the filesystem the Tx writes through.
func (tx *Tx) FS() FileSystem { return tx.fs }

// Logger returns the Tx logger.
func (tx *Tx) Logger() *log.Logger { return tx.log }

// Rename renames from to to and journals it on success. An existing target
// fails with fs.ErrExist unless it is from itself, as for a case-only rename
// on a case-insensitive filesystem.
func (tx *Tx) Rename(from, to string) error {
	if err := tx.checkTarget(from, to); err != nil {
		return err
	}
	if err := tx.fs.Rename(from, to); err != nil {
		return err
	}
	tx.Journal.Record(from, to)
	return nil
}

func (tx *Tx) checkTarget(from, to string) error {
	dst, err := tx.fs.Lstat(to)
	if err != nil {
		return nil
	}
	if src, err := tx.fs.Lstat(from); err == nil && os.SameFile(src, dst) {
		return nil
	}
	return &fs.PathError{Op: "rename", Path: to, Err: fs.ErrExist}
}

// ReadFile reads path through the Tx filesystem.
func (tx *Tx) ReadFile(path string) ([]byte, error) {
	return tx.fs.ReadFile(path)
}

// WriteFile snapshots path (first write only) and then replaces its content,
// keeping the file mode.
func (tx *Tx) WriteFile(path string, data []byte) error {
	if err := tx.Backups.Capture(path); err != nil {
		return err
	}
	return tx.fs.WriteFile(path, data, tx.Backups.perm(path))
}

// Rollback restores all captured files, then reverses all journaled renames.
// It returns every compensation that failed.
func (tx *Tx) Rollback() []Warning {
	warnings := tx.Backups.RestoreAll()
	warnings = append(warnings, tx.Journal.Rollback()...)
	return warnings
}

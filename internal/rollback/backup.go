package rollback

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/gdpp-dev/gdpp/internal/atomicfile"
)

type snapshot struct {
	content []byte
	perm    os.FileMode
}

// Backups holds the original content of files about to be rewritten.
//
// Each path is captured once. Later captures are ignored: a second snapshot
// would hold already-mutated content and restoring it would not undo anything.
type Backups struct {
	order []string
	snaps map[string]snapshot

	fs  FileSystem
	log *log.Logger
}

// Capture reads and stores the full content of path unless it is already held.
func (b *Backups) Capture(path string) error {
	if _, ok := b.snaps[path]; ok {
		return nil
	}

	content, err := b.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("back up %s: %w", path, err)
	}
	perm := atomicfile.DefaultPerm
	if st, err := b.fs.Stat(path); err == nil {
		perm = st.Mode().Perm()
	}

	b.snaps[path] = snapshot{content: content, perm: perm}
	b.order = append(b.order, path)
	return nil
}

// Original returns the captured content of path.
func (b *Backups) Original(path string) ([]byte, bool) {
	s, ok := b.snaps[path]
	return s.content, ok
}

// Paths returns captured paths in capture order.
func (b *Backups) Paths() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// RestoreAll writes every snapshot back to its path. A failure is logged,
// reported and skipped.
func (b *Backups) RestoreAll() []Warning {
	var warnings []Warning
	for _, path := range b.order {
		s := b.snaps[path]
		if err := b.fs.WriteFile(path, s.content, s.perm); err != nil {
			b.log.Warn("could not restore file", "path", path, "err", err)
			warnings = append(warnings, Warning{Op: OpRestore, Path: path, Err: err})
		}
	}
	return warnings
}

func (b *Backups) perm(path string) os.FileMode {
	if s, ok := b.snaps[path]; ok {
		return s.perm
	}
	return 0
}

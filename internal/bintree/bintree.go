// Package bintree renames build outputs whose file names embed the plugin
// name.
package bintree

import (
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/gdpp-dev/gdpp/internal/identifier"
	"github.com/gdpp-dev/gdpp/internal/rollback"
)

// Matcher maps file names carrying the old plugin name to the new one.
type Matcher struct {
	lib   *regexp.Regexp
	plain *regexp.Regexp
	name  identifier.Identifier
}

// NewMatcher builds a matcher for oldName. Both prefixes ignore case.
func NewMatcher(oldName string, name identifier.Identifier) *Matcher {
	quoted := regexp.QuoteMeta(oldName)
	return &Matcher{
		lib:   regexp.MustCompile(`(?i)^lib` + quoted + `\.`),
		plain: regexp.MustCompile(`(?i)^` + quoted + `\.`),
		name:  name,
	}
}

// Replace returns the new file name for base, or ok=false when base does not
// start with lib<old>. or <old>.
func (m *Matcher) Replace(base string) (string, bool) {
	var out string
	switch {
	case m.lib.MatchString(base):
		out = m.lib.ReplaceAllLiteralString(base, "lib"+m.name.Lower()+".")
	case m.plain.MatchString(base):
		out = m.plain.ReplaceAllLiteralString(base, m.name.String()+".")
	default:
		return base, false
	}
	return out, out != base
}

// Rename walks dir and renames every matching file through tx. A missing dir
// is a no-op. A file that cannot be renamed is reported as a warning and the
// walk continues.
func Rename(tx *rollback.Tx, dir, oldName string, name identifier.Identifier) (renamed []rollback.Record, warnings []rollback.Warning) {
	info, err := tx.FS().Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	m := NewMatcher(oldName, name)
	logger := tx.Logger()

	// Collect first so renames never race the directory listing.
	var planned []rollback.Record
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("could not walk", "path", path, "err", err)
			warnings = append(warnings, rollback.Warning{Op: rollback.OpWalk, Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if next, ok := m.Replace(d.Name()); ok {
			planned = append(planned, rollback.Record{From: path, To: filepath.Join(filepath.Dir(path), next)})
		}
		return nil
	})
	if walkErr != nil {
		warnings = append(warnings, rollback.Warning{Op: rollback.OpWalk, Path: dir, Err: walkErr})
	}

	for _, rec := range planned {
		if err := tx.Rename(rec.From, rec.To); err != nil {
			logger.Warn("could not rename file", "from", rec.From, "to", rec.To, "err", err)
			warnings = append(warnings, rollback.Warning{Op: rollback.OpRename, Path: rec.From, Target: rec.To, Err: err})
			continue
		}
		renamed = append(renamed, rec)
	}
	return renamed, warnings
}

// Preview lists the renames Rename would perform without touching dir.
func Preview(dir, oldName string, name identifier.Identifier) ([]rollback.Record, error) {
	m := NewMatcher(oldName, name)
	var out []rollback.Record
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fs.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if next, ok := m.Replace(d.Name()); ok {
			out = append(out, rollback.Record{From: path, To: filepath.Join(filepath.Dir(path), next)})
		}
		return nil
	})
	return out, err
}

package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Snapshot maps every path under a root to its content. Directories map to
// the empty string and carry a trailing slash.
type Snapshot map[string]string

// TakeSnapshot records the full tree under root.
func TakeSnapshot(t *testing.T, root string) Snapshot {
	t.Helper()
	snap := Snapshot{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			snap[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot %s: %v", root, err)
	}
	return snap
}

// Snapshot records the project tree.
func (p *TestProject) Snapshot() Snapshot {
	p.t.Helper()
	return TakeSnapshot(p.t, p.Path)
}

// Diff lists the paths that differ between s and other.
func (s Snapshot) Diff(other Snapshot) []string {
	var diff []string
	for path, content := range s {
		got, ok := other[path]
		switch {
		case !ok:
			diff = append(diff, "- "+path)
		case got != content:
			diff = append(diff, "~ "+path)
		}
	}
	for path := range other {
		if _, ok := s[path]; !ok {
			diff = append(diff, "+ "+path)
		}
	}
	sort.Strings(diff)
	return diff
}

// AssertSnapshotEqual fails the test when the project tree no longer matches want.
func (p *TestProject) AssertSnapshotEqual(want Snapshot) {
	p.t.Helper()
	if diff := want.Diff(p.Snapshot()); len(diff) > 0 {
		p.t.Errorf("project tree changed:\n%s", strings.Join(diff, "\n"))
	}
}

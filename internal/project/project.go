// Package project locates a template project on disk and maps its layout to
// absolute paths.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdpp-dev/gdpp/internal/identity"
)

// ErrNotFound is returned when no project root can be located.
var ErrNotFound = errors.New("no gdpp project found")

// Project is a loaded project root and its layout.
type Project struct {
	Root   string
	Config *Config
}

// Open loads the project rooted at root.
func Open(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, abs)
	}

	cfg, err := LoadConfig(abs)
	if err != nil {
		return nil, err
	}
	return &Project{Root: abs, Config: cfg}, nil
}

// Discover walks upward from start until it finds a directory holding a
// gdpp.yaml or the default identity file.
func Discover(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range []string{ConfigFile, identity.DefaultFile} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, start)
		}
		dir = parent
	}
}

// Resolve picks the project root: explicit flag value first, then the
// configured default, then discovery from cwd.
func Resolve(explicit, configured, cwd string) (*Project, error) {
	if root := strings.TrimSpace(explicit); root != "" {
		return Open(root)
	}
	if root := strings.TrimSpace(configured); root != "" {
		return Open(root)
	}
	root, err := Discover(cwd)
	if err != nil {
		return nil, err
	}
	return Open(root)
}

// Path joins rel onto the project root.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

func (p *Project) IdentityPath() string        { return p.Path(p.Config.IdentityFile) }
func (p *Project) RegisterSourcePath() string  { return p.Path(p.Config.RegisterSource) }
func (p *Project) BuildDescriptorPath() string { return p.Path(p.Config.BuildDescriptor) }
func (p *Project) GitmodulesPath() string      { return p.Path(p.Config.Gitmodules) }
func (p *Project) SubmodulePath() string       { return p.Path(p.Config.Submodule) }
func (p *Project) APIJSONPath() string         { return p.Path(p.Config.APIJSON) }

// PluginDir returns <plugin_parent>/<name>.
func (p *Project) PluginDir(name string) string {
	return filepath.Join(p.Path(p.Config.PluginParent), name)
}

// ManifestPath returns <plugin_parent>/<name>/<name>.gdextension.
func (p *Project) ManifestPath(name string) string {
	return filepath.Join(p.PluginDir(name), name+".gdextension")
}

// BinDirs returns the binary-output trees for the plugin named name.
func (p *Project) BinDirs(name string) []string {
	return []string{
		p.Path(p.Config.BinDir),
		filepath.Join(p.PluginDir(name), p.Config.PluginBinDir),
	}
}

// Identity loads the identity record.
func (p *Project) Identity() (identity.Record, error) {
	return identity.Load(p.IdentityPath())
}

// Rel returns path relative to the root for display, or path unchanged when
// it lies elsewhere.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

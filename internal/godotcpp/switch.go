// Package godotcpp switches the godot-cpp submodule between upstream
// branches and keeps the files that record the targeted Godot version in step.
package godotcpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/gdpp-dev/gdpp/internal/identity"
	"github.com/gdpp-dev/gdpp/internal/mutator"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/rollback"
)

var (
	ErrNoBranches    = errors.New("no supported godot-cpp branches found")
	ErrUnknownBranch = errors.New("unknown godot-cpp branch")
)

// Switcher drives the godot-cpp submodule of one project.
type Switcher struct {
	Project    *project.Project
	Git        Git
	Logger     *log.Logger
	FileSystem rollback.FileSystem
}

// NewSwitcher returns a Switcher using the git binary.
func NewSwitcher(p *project.Project, logger *log.Logger) *Switcher {
	return &Switcher{Project: p, Git: ExecGit{}, Logger: logger}
}

func (s *Switcher) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// Initialized reports whether the submodule checkout has a .git entry.
func (s *Switcher) Initialized() bool {
	_, err := os.Stat(filepath.Join(s.Project.SubmodulePath(), ".git"))
	return err == nil
}

// EnsureSubmodule initializes the submodule when needed. It reports whether
// an init ran.
func (s *Switcher) EnsureSubmodule(ctx context.Context) (bool, error) {
	if s.Initialized() {
		return false, nil
	}
	s.logger().Info("initializing godot-cpp submodule")
	if _, err := s.Git.Run(ctx, s.Project.Root, "submodule", "update", "--init", "--recursive"); err != nil {
		return false, fmt.Errorf("initialize godot-cpp submodule: %w", err)
	}
	return true, nil
}

// FetchBranches fetches the remote and returns the supported branches.
func (s *Switcher) FetchBranches(ctx context.Context) ([]string, error) {
	dir := s.Project.SubmodulePath()
	if _, err := s.Git.Run(ctx, dir, "fetch", "--all"); err != nil {
		return nil, fmt.Errorf("fetch remote branches: %w", err)
	}
	out, err := s.Git.Run(ctx, dir, "branch", "-r")
	if err != nil {
		return nil, fmt.Errorf("list remote branches: %w", err)
	}
	branches := ParseBranches(out)
	if len(branches) == 0 {
		return nil, ErrNoBranches
	}
	return branches, nil
}

// SwitchResult describes a completed switch.
type SwitchResult struct {
	Branch   string
	Version  string
	Warnings []string
}

// Switch checks out branch in the submodule and records the matching version
// in .gitmodules, the identity file and the plugin manifest. The three file
// edits share one rollback.Tx: if any fails, the others are restored.
func (s *Switcher) Switch(ctx context.Context, branch string, branches []string) (*SwitchResult, error) {
	if !contains(branches, branch) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBranch, branch)
	}
	rec, err := s.Project.Identity()
	if err != nil {
		return nil, err
	}

	res := &SwitchResult{Branch: branch, Version: ResolveVersion(branch, branches)}
	dir := s.Project.SubmodulePath()
	logger := s.logger()

	if _, err := s.Git.Run(ctx, dir, "checkout", "-B", branch, "origin/"+branch); err != nil {
		return nil, fmt.Errorf("checkout branch %s: %w", branch, err)
	}
	if out, err := s.Git.Run(ctx, dir, "pull"); err != nil {
		logger.Warn("pull may have failed or was unnecessary", "output", out)
		res.Warnings = append(res.Warnings, "pull may have failed or was unnecessary: "+out)
	}

	opts := []rollback.Option{rollback.WithLogger(logger)}
	if s.FileSystem != nil {
		opts = append(opts, rollback.WithFileSystem(s.FileSystem))
	}
	tx := rollback.New(opts...)

	if err := s.record(ctx, tx, rec.Name, branch, res.Version); err != nil {
		if warnings := tx.Rollback(); len(warnings) > 0 {
			for _, w := range warnings {
				res.Warnings = append(res.Warnings, w.String())
			}
		}
		return res, err
	}
	return res, nil
}

func (s *Switcher) record(ctx context.Context, tx *rollback.Tx, plugin, branch, version string) error {
	p := s.Project
	if _, err := mutator.Apply(tx, p.GitmodulesPath(), mutator.SubmoduleBranch(branch)); err != nil {
		return fmt.Errorf("update .gitmodules: %w", err)
	}
	if _, err := s.Git.Run(ctx, p.Root, "submodule", "sync"); err != nil {
		return fmt.Errorf("sync submodule configuration: %w", err)
	}
	if _, err := mutator.Apply(tx, p.IdentityPath(), identity.SetVersion(version)); err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if _, err := mutator.Apply(tx, p.ManifestPath(plugin), mutator.CompatibilityMinimum(version)); err != nil {
		return fmt.Errorf("update manifest: %w", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Package rename renames the template plugin across the project tree.
//
// A rename is a sequence of directory/file renames followed by in-place text
// edits. Every step goes through one rollback.Tx; if any step fails, all
// captured files are restored and all renames reversed before the error is
// returned, so the tree is left either fully renamed or as it was.
package rename

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/gdpp-dev/gdpp/internal/bintree"
	"github.com/gdpp-dev/gdpp/internal/identifier"
	"github.com/gdpp-dev/gdpp/internal/identity"
	"github.com/gdpp-dev/gdpp/internal/mutator"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/rollback"
)

// State is a position in the rename lifecycle.
type State int

const (
	StateValidating State = iota
	StatePathsVerified
	StateRenaming
	StateRewriting
	StateCommitted
	StateRollingBack
	StateFailed
)

var stateNames = [...]string{
	StateValidating:    "validating",
	StatePathsVerified: "paths-verified",
	StateRenaming:      "renaming",
	StateRewriting:     "rewriting",
	StateCommitted:     "committed",
	StateRollingBack:   "rolling-back",
	StateFailed:        "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Step names one mutation step.
type Step string

const (
	StepRenamePluginDir        Step = "rename-plugin-dir"
	StepRenameManifest         Step = "rename-manifest"
	StepRenameBinaries         Step = "rename-binaries"
	StepRewriteManifest        Step = "rewrite-manifest"
	StepRewriteRegisterSource  Step = "rewrite-register-source"
	StepRewriteBuildDescriptor Step = "rewrite-build-descriptor"
	StepRewriteIdentity        Step = "rewrite-identity"
)

// Steps lists every mutation step in execution order.
var Steps = []Step{
	StepRenamePluginDir,
	StepRenameManifest,
	StepRenameBinaries,
	StepRewriteManifest,
	StepRewriteRegisterSource,
	StepRewriteBuildDescriptor,
	StepRewriteIdentity,
}

// Options configures a Renamer.
type Options struct {
	Identifier identifier.Options

	// FileSystem defaults to the real filesystem.
	FileSystem rollback.FileSystem

	Logger *log.Logger

	// BeforeStep runs before each mutation step. A non-nil error fails that
	// step and triggers rollback.
	BeforeStep func(Step) error

	// OnState observes every state transition.
	OnState func(State)
}

// Renamer renames the plugin of one project.
type Renamer struct {
	project *project.Project
	opts    Options
	log     *log.Logger
	fs      rollback.FileSystem
	state   State
	failure *MutationError
}

// New returns a Renamer for p.
func New(p *project.Project, opts Options) *Renamer {
	r := &Renamer{project: p, opts: opts, log: opts.Logger, fs: opts.FileSystem}
	if r.log == nil {
		r.log = log.New(io.Discard)
	}
	if r.fs == nil {
		r.fs = rollback.OSFileSystem{}
	}
	return r
}

// State returns the state reached by the last Plan or Run.
func (r *Renamer) State() State { return r.state }

// Failure returns the error that triggered rollback in the last Run, or nil.
// Its Warnings are filled in once the state reaches StateFailed.
func (r *Renamer) Failure() *MutationError { return r.failure }

func (r *Renamer) setState(s State) {
	r.state = s
	r.log.Debug("rename state", "state", s)
	if r.opts.OnState != nil {
		r.opts.OnState(s)
	}
}

// Result describes a committed rename.
type Result struct {
	OldName   string
	NewName   identifier.Identifier
	PluginDir string
	Manifest  string
	Renamed   []rollback.Record
	Rewritten []string

	// Warnings holds build outputs that could not be renamed. They do not
	// fail the rename.
	Warnings []rollback.Warning
}

// PlannedStep is one step a rename would perform.
type PlannedStep struct {
	Step Step
	Path string
	To   string
}

// Plan is the dry-run output of a rename.
type Plan struct {
	OldName  string
	NewName  identifier.Identifier
	Steps    []PlannedStep
	Binaries []rollback.Record
}

// target holds the resolved paths of one rename.
type target struct {
	old     string
	name    identifier.Identifier
	oldDir  string
	newDir  string
	sources []string
}

func (t *target) oldManifestInNewDir() string {
	return filepath.Join(t.newDir, t.old+".gdextension")
}

func (t *target) newManifest() string {
	return filepath.Join(t.newDir, t.name.String()+".gdextension")
}

// prepare runs validation and path checks. Nothing is written.
func (r *Renamer) prepare(raw string) (*target, error) {
	r.failure = nil
	r.setState(StateValidating)
	name, err := identifier.ParseWithOptions(raw, r.opts.Identifier)
	if err != nil {
		return nil, err
	}

	rec, err := r.project.Identity()
	if err != nil {
		return nil, err
	}

	p := r.project
	t := &target{
		old:    rec.Name,
		name:   name,
		oldDir: p.PluginDir(rec.Name),
		newDir: p.PluginDir(name.String()),
	}
	required := []string{
		t.oldDir,
		p.ManifestPath(rec.Name),
		p.RegisterSourcePath(),
		p.BuildDescriptorPath(),
	}
	var missing []string
	for _, path := range required {
		if _, err := r.fs.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return nil, &PreconditionError{Missing: missing}
	}

	if name.String() == rec.Name {
		return nil, &PreconditionError{Reason: fmt.Sprintf("plugin is already named %s", rec.Name)}
	}
	if err := r.checkDestination(t); err != nil {
		return nil, err
	}

	r.setState(StatePathsVerified)
	return t, nil
}

// checkDestination rejects an existing destination plugin directory or
// manifest unless it is the source itself, as on case-insensitive
// filesystems.
func (r *Renamer) checkDestination(t *target) error {
	checks := []struct{ from, to string }{
		{t.oldDir, t.newDir},
		{filepath.Join(t.oldDir, t.old+".gdextension"), filepath.Join(t.oldDir, t.name.String()+".gdextension")},
	}
	for _, c := range checks {
		dst, err := r.fs.Lstat(c.to)
		if err != nil {
			continue
		}
		if src, err := r.fs.Lstat(c.from); err == nil && os.SameFile(src, dst) {
			continue
		}
		return &PreconditionError{Reason: fmt.Sprintf("destination already exists: %s", r.project.Rel(c.to))}
	}
	return nil
}

// Plan validates raw and lists the steps Run would take without touching the
// tree.
func (r *Renamer) Plan(raw string) (*Plan, error) {
	t, err := r.prepare(raw)
	if err != nil {
		return nil, err
	}
	p := r.project

	plan := &Plan{
		OldName: t.old,
		NewName: t.name,
		Steps: []PlannedStep{
			{Step: StepRenamePluginDir, Path: t.oldDir, To: t.newDir},
			{Step: StepRenameManifest, Path: t.oldManifestInNewDir(), To: t.newManifest()},
		},
	}
	for _, dir := range p.BinDirs(t.name.String()) {
		plan.Steps = append(plan.Steps, PlannedStep{Step: StepRenameBinaries, Path: dir})
	}
	plan.Steps = append(plan.Steps,
		PlannedStep{Step: StepRewriteManifest, Path: t.newManifest()},
		PlannedStep{Step: StepRewriteRegisterSource, Path: p.RegisterSourcePath()},
		PlannedStep{Step: StepRewriteBuildDescriptor, Path: p.BuildDescriptorPath()},
		PlannedStep{Step: StepRewriteIdentity, Path: p.IdentityPath()},
	)
	for _, dir := range p.BinDirs(t.old) {
		recs, err := bintree.Preview(dir, t.old, t.name)
		if err != nil {
			return nil, fmt.Errorf("preview %s: %w", dir, err)
		}
		plan.Binaries = append(plan.Binaries, recs...)
	}
	return plan, nil
}

// Run renames the plugin to raw. Validation and precondition failures return
// before anything is touched. A failure after mutation began is returned as
// a *MutationError once the tree has been rolled back.
func (r *Renamer) Run(raw string) (*Result, error) {
	t, err := r.prepare(raw)
	if err != nil {
		return nil, err
	}

	tx := rollback.New(rollback.WithFileSystem(r.fs), rollback.WithLogger(r.log))
	res := &Result{
		OldName:   t.old,
		NewName:   t.name,
		PluginDir: t.newDir,
		Manifest:  t.newManifest(),
	}

	if err := r.mutate(tx, t, res); err != nil {
		var me *MutationError
		if !errors.As(err, &me) {
			me = &MutationError{Err: err}
		}
		r.failure = me
		r.setState(StateRollingBack)
		r.log.Warn("rename failed, rolling back", "err", err)

		me.Warnings = tx.Rollback()

		r.setState(StateFailed)
		return nil, me
	}

	res.Renamed = tx.Journal.Records()
	r.setState(StateCommitted)
	return res, nil
}

func (r *Renamer) mutate(tx *rollback.Tx, t *target, res *Result) error {
	p := r.project

	r.setState(StateRenaming)
	if err := r.step(StepRenamePluginDir, func() error {
		return tx.Rename(t.oldDir, t.newDir)
	}); err != nil {
		return err
	}
	if err := r.step(StepRenameManifest, func() error {
		return tx.Rename(t.oldManifestInNewDir(), t.newManifest())
	}); err != nil {
		return err
	}
	if err := r.step(StepRenameBinaries, func() error {
		for _, dir := range p.BinDirs(t.name.String()) {
			_, warnings := bintree.Rename(tx, dir, t.old, t.name)
			res.Warnings = append(res.Warnings, warnings...)
		}
		return nil
	}); err != nil {
		return err
	}

	r.setState(StateRewriting)
	rewrites := []struct {
		step Step
		path string
		fn   mutator.Transform
	}{
		{StepRewriteManifest, t.newManifest(), mutator.Manifest(t.old, t.name)},
		{StepRewriteRegisterSource, p.RegisterSourcePath(), mutator.RegisterSymbol(t.name)},
		{StepRewriteBuildDescriptor, p.BuildDescriptorPath(), mutator.LibName(t.name)},
		{StepRewriteIdentity, p.IdentityPath(), identity.SetName(t.name.String())},
	}
	for _, rw := range rewrites {
		if err := r.step(rw.step, func() error {
			changed, err := mutator.Apply(tx, rw.path, rw.fn)
			if changed {
				res.Rewritten = append(res.Rewritten, p.Rel(rw.path))
			}
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renamer) step(s Step, fn func() error) error {
	if r.opts.BeforeStep != nil {
		if err := r.opts.BeforeStep(s); err != nil {
			return &MutationError{Step: s, Err: err}
		}
	}
	if err := fn(); err != nil {
		return &MutationError{Step: s, Err: err}
	}
	r.log.Debug("rename step done", "step", s)
	return nil
}

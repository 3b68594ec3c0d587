// Package profile manages godot-cpp build profiles: which engine classes are
// compiled into the extension, as selected by SConstruct flags and profile
// JSON files at the project root.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/gdpp-dev/gdpp/internal/atomicfile"
	"github.com/gdpp-dev/gdpp/internal/mutator"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/rollback"
)

// Kind is the active build profile.
type Kind string

const (
	KindNone   Kind = "none"
	Kind2D     Kind = "2d"
	Kind3D     Kind = "3d"
	KindCustom Kind = "custom"
)

// Kinds lists every profile kind.
var Kinds = []Kind{KindNone, Kind2D, Kind3D, KindCustom}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown build profile %q (want none, 2d, 3d or custom)", s)
}

// Label is the human-readable profile name.
func (k Kind) Label() string {
	switch k {
	case Kind2D:
		return "2D Profile"
	case Kind3D:
		return "3D Profile"
	case KindCustom:
		return "Custom User Profile"
	default:
		return "None (all classes included)"
	}
}

// SConstruct flag names.
const (
	Var2D     = "is_2d_profile_used"
	Var3D     = "is_3d_profile_used"
	VarCustom = "is_custom_profile_used"
)

// Profile file names at the project root.
const (
	File2D     = "2d_build_profile.json"
	File3D     = "3d_build_profile.json"
	FileCustom = "build_profile.json"
)

var ErrCustomProfileMissing = errors.New("custom build profile not found")

// KindFromVars picks the active kind from SConstruct flags. 2D wins over 3D,
// which wins over custom.
func KindFromVars(vars map[string]string) Kind {
	switch {
	case vars[Var2D] == "true":
		return Kind2D
	case vars[Var3D] == "true":
		return Kind3D
	case vars[VarCustom] == "true":
		return KindCustom
	default:
		return KindNone
	}
}

// Vars returns the SConstruct flags for kind.
func Vars(kind Kind) map[string]string {
	vars := map[string]string{Var2D: "false", Var3D: "false", VarCustom: "false"}
	switch kind {
	case Kind2D:
		vars[Var2D] = "true"
	case Kind3D:
		vars[Var3D] = "true"
	case KindCustom:
		vars[VarCustom] = "true"
	}
	return vars
}

// Disabled returns the sorted classes a 2D or 3D profile disables: the
// opposite dimension plus every extra bucket.
func Disabled(kind Kind, buckets Buckets, extras []Bucket) []string {
	var base Bucket
	switch kind {
	case Kind2D:
		base = Bucket3D
	case Kind3D:
		base = Bucket2D
	default:
		return nil
	}
	set := map[string]bool{}
	for _, b := range append([]Bucket{base}, extras...) {
		for _, name := range buckets[b] {
			set[name] = true
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Document is the JSON written to a generated profile file.
type Document struct {
	Comment         string   `json:"_"`
	Type            string   `json:"type"`
	DisabledClasses []string `json:"disabled_classes"`
}

const documentComment = "Auto-generated build profile. For Custom Profile, edit build_profile.json to add 'enabled_classes' or 'disabled_classes'."

// Encode renders a profile document with 4-space indentation.
func Encode(disabled []string) ([]byte, error) {
	if disabled == nil {
		disabled = []string{}
	}
	return json.MarshalIndent(Document{
		Comment:         documentComment,
		Type:            "feature_profile",
		DisabledClasses: disabled,
	}, "", "    ")
}

// Cleaner removes stale build outputs after a profile change.
type Cleaner interface {
	Clean(ctx context.Context, dir string) error
}

// Manager reads and switches the build profile of one project.
type Manager struct {
	Project    *project.Project
	Cleaner    Cleaner
	Logger     *log.Logger
	FileSystem rollback.FileSystem
}

// NewManager returns a Manager that cleans with scons.
func NewManager(p *project.Project, logger *log.Logger) *Manager {
	return &Manager{Project: p, Cleaner: SconsCleaner{}, Logger: logger}
}

func (m *Manager) logger() *log.Logger {
	if m.Logger == nil {
		return log.New(io.Discard)
	}
	return m.Logger
}

// Current reads the active kind from SConstruct.
func (m *Manager) Current() (Kind, error) {
	path := m.Project.BuildDescriptorPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	vars, err := mutator.ReadBoolVars(string(data), Var2D, Var3D, VarCustom)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return KindFromVars(vars), nil
}

// SetOptions configures Set.
type SetOptions struct {
	Extras []Bucket
	// Clean runs the Cleaner after the switch.
	Clean bool
}

// SetResult describes a profile switch.
type SetResult struct {
	Kind     Kind
	File     string
	Disabled int
	Cleaned  bool
}

// Set switches to kind. 2D and 3D regenerate their profile file from the
// API dump; custom requires build_profile.json to exist. The SConstruct edit
// is undone if writing the profile file fails.
func (m *Manager) Set(ctx context.Context, kind Kind, opts SetOptions) (*SetResult, error) {
	p := m.Project
	res := &SetResult{Kind: kind}

	var disabled []string
	switch kind {
	case Kind2D, Kind3D:
		api, err := LoadAPI(p.APIJSONPath())
		if err != nil {
			return nil, err
		}
		disabled = Disabled(kind, Classify(api), opts.Extras)
		res.Disabled = len(disabled)
		res.File = File2D
		if kind == Kind3D {
			res.File = File3D
		}
	case KindCustom:
		if _, err := os.Stat(p.Path(FileCustom)); err != nil {
			return nil, fmt.Errorf("%w: create %s with 'enabled_classes' or 'disabled_classes'", ErrCustomProfileMissing, p.Path(FileCustom))
		}
		res.File = FileCustom
	}

	txOpts := []rollback.Option{rollback.WithLogger(m.logger())}
	if m.FileSystem != nil {
		txOpts = append(txOpts, rollback.WithFileSystem(m.FileSystem))
	}
	tx := rollback.New(txOpts...)

	if _, err := mutator.Apply(tx, p.BuildDescriptorPath(), mutator.SetBoolVars(Vars(kind))); err != nil {
		return nil, err
	}
	if kind == Kind2D || kind == Kind3D {
		data, err := Encode(disabled)
		if err == nil {
			err = atomicfile.WriteFile(p.Path(res.File), data, atomicfile.DefaultPerm)
		}
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("write %s: %w", res.File, err)
		}
	}
	m.logger().Info("build profile switched", "kind", kind, "disabled", res.Disabled)

	if opts.Clean && m.Cleaner != nil {
		if err := m.Cleaner.Clean(ctx, p.Root); err != nil {
			return res, fmt.Errorf("clean old build files: %w", err)
		}
		res.Cleaned = true
	}
	return res, nil
}

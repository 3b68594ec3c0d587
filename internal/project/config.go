package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gdpp-dev/gdpp/internal/atomicfile"
	"github.com/gdpp-dev/gdpp/internal/identity"
)

// ConfigFile is the optional per-project config at the project root.
const ConfigFile = "gdpp.yaml"

// Config holds the project layout. Every path is relative to the project
// root except PluginBinDir, which is relative to the plugin directory.
type Config struct {
	// IdentityFile is the two-line name/version record (default: dont_touch.txt).
	IdentityFile string `yaml:"identity_file,omitempty"`

	// PluginParent holds the <name>/ plugin directory (default: test_project).
	PluginParent string `yaml:"plugin_parent,omitempty"`

	// RegisterSource exports the <name>_init entry point.
	RegisterSource string `yaml:"register_source,omitempty"`

	// BuildDescriptor is the SConstruct file.
	BuildDescriptor string `yaml:"build_descriptor,omitempty"`

	BinDir       string `yaml:"bin_dir,omitempty"`
	PluginBinDir string `yaml:"plugin_bin_dir,omitempty"`

	Gitmodules string `yaml:"gitmodules,omitempty"`
	Submodule  string `yaml:"submodule,omitempty"`

	// APIJSON is the extension_api.json dump used to classify classes for
	// build profiles.
	APIJSON string `yaml:"api_json,omitempty"`
}

// DefaultConfig returns the layout of the stock template repository.
func DefaultConfig() *Config {
	return &Config{
		IdentityFile:    identity.DefaultFile,
		PluginParent:    "test_project",
		RegisterSource:  filepath.Join("src", "register_types.cpp"),
		BuildDescriptor: "SConstruct",
		BinDir:          "bin",
		PluginBinDir:    "bin",
		Gitmodules:      ".gitmodules",
		Submodule:       "godot-cpp",
		APIJSON:         filepath.Join("godot-cpp", "gdextension", "extension_api.json"),
	}
}

// applyDefaults fills every empty field from DefaultConfig.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&c.IdentityFile, d.IdentityFile)
	fill(&c.PluginParent, d.PluginParent)
	fill(&c.RegisterSource, d.RegisterSource)
	fill(&c.BuildDescriptor, d.BuildDescriptor)
	fill(&c.BinDir, d.BinDir)
	fill(&c.PluginBinDir, d.PluginBinDir)
	fill(&c.Gitmodules, d.Gitmodules)
	fill(&c.Submodule, d.Submodule)
	fill(&c.APIJSON, d.APIJSON)
}

// LoadConfig loads gdpp.yaml from root.
// Returns the default config if the file doesn't exist.
func LoadConfig(root string) (*Config, error) {
	configPath := filepath.Join(root, ConfigFile)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project config %s: %w", configPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse project config %s: %w", configPath, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// SaveConfig writes cfg to gdpp.yaml under root.
func SaveConfig(root string, cfg *Config) error {
	configPath := filepath.Join(root, ConfigFile)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal project config: %w", err)
	}
	if err := atomicfile.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigFile, err)
	}
	return nil
}

// CreateDefaultConfig writes gdpp.yaml with the stock layout under root.
// It returns false without writing when the file already exists.
func CreateDefaultConfig(root string) (bool, error) {
	if _, err := os.Stat(filepath.Join(root, ConfigFile)); err == nil {
		return false, nil
	}
	if err := SaveConfig(root, DefaultConfig()); err != nil {
		return false, err
	}
	return true, nil
}

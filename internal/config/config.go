// Package config handles global gdpp configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvPath overrides the config file location.
const EnvPath = "GDPP_CONFIG"

// Config represents the global gdpp configuration.
type Config struct {
	// DefaultProject is a name from Projects or a project path.
	DefaultProject string `toml:"default_project"`

	// Projects maps project names to root paths.
	Projects map[string]string `toml:"projects"`

	// LogLevel is one of debug, info, warn, error (default: warn).
	LogLevel string `toml:"log_level"`

	// Transliterate maps non-ASCII letters to ASCII when sanitizing plugin
	// names ("Café" becomes "Cafe") instead of dropping them.
	Transliterate bool `toml:"transliterate"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// ProjectPath resolves a project reference: a name from Projects, or else a
// path. An empty ref uses DefaultProject; an empty result means no project
// is configured.
func (c *Config) ProjectPath(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = strings.TrimSpace(c.DefaultProject)
	}
	if ref == "" {
		return ""
	}
	if path, ok := c.Projects[ref]; ok {
		return path
	}
	return ref
}

// Level returns the configured log level or "warn".
func (c *Config) Level() string {
	if level := strings.TrimSpace(c.LogLevel); level != "" {
		return level
	}
	return "warn"
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the config file path: $GDPP_CONFIG when set, then
// ~/.config/gdpp/config.toml, then the OS-specific config dir.
func DefaultPath() string {
	if env := strings.TrimSpace(os.Getenv(EnvPath)); env != "" {
		return env
	}

	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "gdpp", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "gdpp", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

const defaultConfig = `# gdpp configuration

# Project used when --project is not given and the working directory is not
# inside a project. Either a name from [projects] or a path.
# default_project = "game"

# [projects]
# game = "/path/to/my-gdextension"

# Log level: debug, info, warn, error
# log_level = "warn"

# Transliterate accented letters in plugin names instead of dropping them.
# transliterate = false

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault creates a default config file at path if it doesn't exist.
// It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdpp-dev/gdpp/internal/config"
)

func useConfigPath(t *testing.T, path string) {
	t.Helper()
	prevConfig := configPath
	prevResolved := resolvedConfigPath
	prevCfg := cfg
	prevJSON := jsonOutput
	t.Cleanup(func() {
		configPath = prevConfig
		resolvedConfigPath = prevResolved
		cfg = prevCfg
		jsonOutput = prevJSON
	})

	configPath = path
	jsonOutput = true
	loaded, resolved, err := loadGlobalConfigWithPath()
	if err != nil {
		t.Fatalf("loadGlobalConfigWithPath: %v", err)
	}
	cfg, resolvedConfigPath = loaded, resolved
}

func TestConfigInitCreatesConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	useConfigPath(t, cfgPath)

	resp, err := runJSON(t, func() error { return configInitCmd.RunE(configInitCmd, nil) })
	if err != nil || !resp.OK || resp.Data["created"] != true {
		t.Fatalf("config init = %v %+v", err, resp)
	}

	content, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to read created config: %v", err)
	}
	if !strings.Contains(string(content), "# gdpp configuration") {
		t.Fatalf("expected default config header in file, got:\n%s", string(content))
	}

	resp, _ = runJSON(t, func() error { return configInitCmd.RunE(configInitCmd, nil) })
	if resp.Data["created"] != false {
		t.Fatalf("second init should not recreate the file: %v", resp.Data)
	}
}

func TestConfigSetUpdatesFields(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	useConfigPath(t, cfgPath)

	cmd := newConfigSetCmd()
	if err := cmd.ParseFlags([]string{"--add-project", "game=/tmp/game", "--default-project", "game", "--log-level", "debug", "--ui-accent", "39"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	resp, err := runJSON(t, func() error { return cmd.RunE(cmd, nil) })
	if err != nil || !resp.OK {
		t.Fatalf("config set = %v %+v", err, resp.Error)
	}

	loaded, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.DefaultProject != "game" || loaded.Projects["game"] != "/tmp/game" {
		t.Fatalf("unexpected projects: %+v", loaded)
	}
	if loaded.LogLevel != "debug" || loaded.UI.Accent != "39" {
		t.Fatalf("unexpected settings: %+v", loaded)
	}
	if got := loaded.ProjectPath(""); got != "/tmp/game" {
		t.Fatalf("ProjectPath = %q", got)
	}
}

func TestConfigSetRequiresAFlag(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "config.toml"))

	cmd := newConfigSetCmd()
	resp, _ := runJSON(t, func() error { return cmd.RunE(cmd, nil) })
	if resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("expected %s, got %+v", ErrInvalidInput, resp.Error)
	}
}

func TestConfigShowMissingFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	useConfigPath(t, cfgPath)

	resp, err := runJSON(t, func() error { return configShowCmd.RunE(configShowCmd, nil) })
	if err != nil || !resp.OK {
		t.Fatalf("config show = %v %+v", err, resp.Error)
	}
	if resp.Data["exists"] != false || resp.Data["config_path"] != cfgPath || resp.Data["log_level"] != "warn" {
		t.Fatalf("unexpected data %v", resp.Data)
	}
}

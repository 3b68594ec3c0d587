package cli

import (
	"path/filepath"
	"testing"

	"github.com/gdpp-dev/gdpp/internal/config"
	"github.com/gdpp-dev/gdpp/internal/testutil"
)

func TestInitWritesLayoutAndRegisters(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	useConfigPath(t, cfgPath)

	cmd := newInitCmd()
	if err := cmd.Flags().Set("name", "game"); err != nil {
		t.Fatal(err)
	}
	resp, err := runJSON(t, func() error { return cmd.RunE(cmd, []string{tp.Path}) })
	if err != nil || !resp.OK || resp.Data["created"] != true {
		t.Fatalf("init = %v %+v", err, resp)
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("unexpected warnings %+v", resp.Warnings)
	}
	tp.AssertFileContains("gdpp.yaml", "identity_file: dont_touch.txt")

	saved, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if saved.Projects["game"] != tp.Path {
		t.Fatalf("project not registered: %+v", saved.Projects)
	}

	resp, _ = runJSON(t, func() error { return newInitCmd().RunE(newInitCmd(), []string{tp.Path}) })
	if resp.Data["created"] != false {
		t.Fatalf("second init should keep gdpp.yaml: %v", resp.Data)
	}
}

func TestInitWarnsWithoutIdentity(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "config.toml"))
	dir := t.TempDir()

	cmd := newInitCmd()
	resp, err := runJSON(t, func() error { return cmd.RunE(cmd, []string{dir}) })
	if err != nil || !resp.OK {
		t.Fatalf("init = %v %+v", err, resp)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnIdentityMissing {
		t.Fatalf("expected %s warning, got %+v", WarnIdentityMissing, resp.Warnings)
	}

	resp, _ = runJSON(t, func() error { return cmd.RunE(cmd, []string{filepath.Join(dir, "missing")}) })
	if resp.Error == nil || resp.Error.Code != ErrProjectNotFound {
		t.Fatalf("expected %s, got %+v", ErrProjectNotFound, resp.Error)
	}
}

//go:build integration

package cli_test

import (
	"testing"

	"github.com/gdpp-dev/gdpp/internal/testutil"
)

// TestIntegration_RenameRoundTrip renames the plugin and back, ending with
// the original tree.
func TestIntegration_RenameRoundTrip(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithTemplate("myplugin", "4.3").
		WithBinaries("myplugin").
		Build()
	before := p.Snapshot()

	result := p.RunCLI("rename", "New", "Plugin")
	result.MustSucceed(t)
	result.AssertNoWarnings(t)
	if got := result.DataString("new_name"); got != "New_Plugin" {
		t.Fatalf("new_name = %q", got)
	}
	p.AssertIdentity("New_Plugin", "4.3")
	p.AssertFileExists("test_project/New_Plugin/New_Plugin.gdextension")
	p.AssertFileExists("bin/libnew_plugin.windows.template_debug.x86_64.dll")
	p.AssertFileContains("SConstruct", `libname = "new_plugin"`)

	p.RunCLI("rename", "myplugin").MustSucceed(t)
	p.AssertSnapshotEqual(before)
}

// TestIntegration_RenameFailures checks exit status and error codes.
func TestIntegration_RenameFailures(t *testing.T) {
	p := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	before := p.Snapshot()

	result := p.RunCLI("rename", "con")
	result.MustFail(t, "INVALID_NAME")
	if result.ExitCode == 0 {
		t.Fatal("expected non-zero exit status")
	}

	p.RunCLI("rename", "myplugin").MustFail(t, "PRECONDITION_FAILED")
	p.AssertSnapshotEqual(before)
}

// TestIntegration_StatusAndProfile covers the read-only commands and a
// profile switch that skips cleaning.
func TestIntegration_StatusAndProfile(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithTemplate("myplugin", "4.3").
		WithFile("build_profile.json", `{"type": "feature_profile"}`).
		Build()

	result := p.RunCLI("status")
	result.MustSucceed(t)
	if result.DataString("plugin") != "myplugin" || result.DataString("profile") != "none" {
		t.Fatalf("unexpected status %v", result.Data)
	}

	p.RunCLI("profile", "set", "custom", "--no-clean").MustSucceed(t)
	p.AssertFileContains("SConstruct", `is_custom_profile_used = "true"`)

	if got := p.RunCLI("profile", "show").MustSucceed(t).DataString("kind"); got != "custom" {
		t.Fatalf("profile show = %q", got)
	}
}

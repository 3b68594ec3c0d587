package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdpp-dev/gdpp/internal/godotcpp"
	"github.com/gdpp-dev/gdpp/internal/profile"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/testutil"
)

type stubGit struct {
	calls []string
	fail  map[string]bool
}

func (g *stubGit) Run(_ context.Context, _ string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	g.calls = append(g.calls, key)
	if g.fail[key] {
		return "", errors.New("exit status 1")
	}
	if key == "branch -r" {
		return "  origin/HEAD -> origin/master\n  origin/4.2\n  origin/4.3\n  origin/master\n", nil
	}
	return "", nil
}

type stubCleaner struct{ err error }

func (c stubCleaner) Clean(context.Context, string) error { return c.err }

func stubCollaborators(t *testing.T, git *stubGit, cleaner profile.Cleaner) {
	t.Helper()
	prevSwitcher := newSwitcher
	prevManager := newProfileManager
	t.Cleanup(func() {
		newSwitcher = prevSwitcher
		newProfileManager = prevManager
	})
	newSwitcher = func(p *project.Project) *godotcpp.Switcher {
		return &godotcpp.Switcher{Project: p, Git: git, Logger: logger}
	}
	newProfileManager = func(p *project.Project) *profile.Manager {
		return &profile.Manager{Project: p, Cleaner: cleaner, Logger: logger}
	}
}

func runJSON(t *testing.T, fn func() error) (jsonResponse, error) {
	t.Helper()
	var runErr error
	out := captureStdout(t, func() { runErr = fn() })
	return decodeResponse(t, out), runErr
}

func TestStatusCommand(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)
	stubCollaborators(t, &stubGit{}, stubCleaner{})

	resp, err := runJSON(t, func() error { return statusCmd.RunE(statusCmd, nil) })
	if err != nil || !resp.OK {
		t.Fatalf("status failed: %v %+v", err, resp.Error)
	}
	if resp.Data["plugin"] != "myplugin" || resp.Data["godot_version"] != "4.3" {
		t.Fatalf("unexpected status %v", resp.Data)
	}
	if resp.Data["profile"] != "none" || resp.Data["plugin_dir_exists"] != true {
		t.Fatalf("unexpected status %v", resp.Data)
	}
	if resp.Data["submodule_initialized"] != false {
		t.Fatalf("submodule should not be initialized: %v", resp.Data)
	}
}

func TestStatusMarkdown(t *testing.T) {
	md := statusMarkdown(&statusJSON{Plugin: "myplugin", GodotVersion: "4.3", Profile: "2d", Project: "/p"})
	for _, want := range []string{"# myplugin", "4.3", "2d", "plugin directory is missing", "godot-cpp is not initialized"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestGodotVersionUseCommand(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)
	git := &stubGit{fail: map[string]bool{}}
	stubCollaborators(t, git, stubCleaner{})

	resp, err := runJSON(t, func() error { return godotVersionUseCmd.RunE(godotVersionUseCmd, []string{"master"}) })
	if err != nil || !resp.OK {
		t.Fatalf("use failed: %v %+v", err, resp.Error)
	}
	if resp.Data["version"] != "4.4" {
		t.Fatalf("version = %v", resp.Data["version"])
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnSubmoduleInit {
		t.Fatalf("expected submodule init warning, got %v", resp.Warnings)
	}
	tp.AssertIdentity("myplugin", "4.4")
	tp.AssertFileContains("test_project/myplugin/myplugin.gdextension", `compatibility_minimum = "4.4"`)
}

func TestGodotVersionUseUnknownBranch(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)
	stubCollaborators(t, &stubGit{fail: map[string]bool{}}, stubCleaner{})

	resp, err := runJSON(t, func() error { return godotVersionUseCmd.RunE(godotVersionUseCmd, []string{"3.5"}) })
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if resp.Error == nil || resp.Error.Code != ErrUnknownBranch {
		t.Fatalf("expected %s, got %+v", ErrUnknownBranch, resp.Error)
	}
	tp.AssertIdentity("myplugin", "4.3")
}

func TestGodotVersionListCommand(t *testing.T) {
	tp := testutil.NewTestProject(t).
		WithTemplate("myplugin", "4.3").
		WithFile("godot-cpp/.git", "gitdir: ../.git/modules/godot-cpp\n").
		Build()
	useJSONProject(t, tp.Path)
	stubCollaborators(t, &stubGit{fail: map[string]bool{}}, stubCleaner{})

	resp, err := runJSON(t, func() error { return godotVersionListCmd.RunE(godotVersionListCmd, nil) })
	if err != nil || !resp.OK {
		t.Fatalf("list failed: %v %+v", err, resp.Error)
	}
	branches, _ := resp.Data["branches"].([]interface{})
	if len(branches) != 3 || resp.Data["status"] != "valid" || resp.Data["next"] != "4.4" {
		t.Fatalf("unexpected list %v", resp.Data)
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("no warnings expected, got %v", resp.Warnings)
	}
}

func TestGodotVersionFetchFailure(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)
	stubCollaborators(t, &stubGit{fail: map[string]bool{"fetch --all": true}}, stubCleaner{})

	resp, _ := runJSON(t, func() error { return godotVersionListCmd.RunE(godotVersionListCmd, nil) })
	if resp.Error == nil || resp.Error.Code != ErrGitFailed {
		t.Fatalf("expected %s, got %+v", ErrGitFailed, resp.Error)
	}
}

func TestProfileSetCommand(t *testing.T) {
	tp := testutil.NewTestProject(t).
		WithTemplate("myplugin", "4.3").
		WithFile("godot-cpp/gdextension/extension_api.json", `{"classes":[
			{"name":"Node"},{"name":"Node3D","inherits":"Node"},{"name":"Sprite2D","inherits":"Node"}]}`).
		Build()
	useJSONProject(t, tp.Path)
	stubCollaborators(t, &stubGit{}, stubCleaner{err: errors.New("scons: not found")})

	cmd := newProfileSetCmd()
	if err := cmd.ParseFlags([]string{"--disable", "xr"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	resp, err := runJSON(t, func() error { return cmd.RunE(cmd, []string{"2d"}) })
	if err != nil || !resp.OK {
		t.Fatalf("profile set failed: %v %+v", err, resp.Error)
	}
	if resp.Data["kind"] != "2d" || resp.Data["file"] != profile.File2D || resp.Data["cleaned"] != false {
		t.Fatalf("unexpected data %v", resp.Data)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnCleanFailed {
		t.Fatalf("expected clean warning, got %v", resp.Warnings)
	}
	tp.AssertFileContains("SConstruct", `is_2d_profile_used = "true"`)
	tp.AssertFileContains(profile.File2D, `"Node3D"`)
}

func TestProfileSetInvalidKind(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)

	resp, _ := runJSON(t, func() error { return profileSetCmd.RunE(profileSetCmd, []string{"4d"}) })
	if resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("expected %s, got %+v", ErrInvalidInput, resp.Error)
	}
}

func TestProfileSetCustomMissing(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)
	stubCollaborators(t, &stubGit{}, stubCleaner{})

	resp, _ := runJSON(t, func() error { return profileSetCmd.RunE(profileSetCmd, []string{"custom"}) })
	if resp.Error == nil || resp.Error.Code != ErrProfileNotFound {
		t.Fatalf("expected %s, got %+v", ErrProfileNotFound, resp.Error)
	}
}

func TestProfileShowCommand(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)
	stubCollaborators(t, &stubGit{}, stubCleaner{})

	resp, err := runJSON(t, func() error { return profileShowCmd.RunE(profileShowCmd, nil) })
	if err != nil || !resp.OK || resp.Data["kind"] != "none" {
		t.Fatalf("profile show = %v %+v", err, resp)
	}
}

func TestMenuRequiresTerminal(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)

	resp, err := runJSON(t, func() error { return runMenu(context.Background()) })
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if resp.Error == nil || resp.Error.Code != ErrInteractiveRequired {
		t.Fatalf("expected %s, got %+v", ErrInteractiveRequired, resp.Error)
	}
}

package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/rename"
	"github.com/gdpp-dev/gdpp/internal/testutil"
)

func runRenameCmd(t *testing.T, args ...string) (jsonResponse, error) {
	t.Helper()
	cmd := newRenameCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	var runErr error
	out := captureStdout(t, func() {
		runErr = cmd.RunE(cmd, cmd.Flags().Args())
	})
	return decodeResponse(t, out), runErr
}

func TestRenameCommandJSON(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").WithBinaries("myplugin").Build()
	useJSONProject(t, tp.Path)

	resp, err := runRenameCmd(t, "New", "Plugin")
	if err != nil {
		t.Fatalf("rename returned %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected ok, got %+v", resp.Error)
	}
	if resp.Data["new_name"] != "New_Plugin" || resp.Data["old_name"] != "myplugin" {
		t.Fatalf("unexpected data %v", resp.Data)
	}
	if resp.Data["plugin_dir"] != "test_project/New_Plugin" {
		t.Fatalf("plugin_dir = %v", resp.Data["plugin_dir"])
	}
	tp.AssertIdentity("New_Plugin", "4.3")
	tp.AssertFileExists("test_project/New_Plugin/New_Plugin.gdextension")
}

func TestRenameCommandDryRun(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").WithBinaries("myplugin").Build()
	useJSONProject(t, tp.Path)
	before := tp.Snapshot()

	resp, err := runRenameCmd(t, "--dry-run", "Other")
	if err != nil || !resp.OK {
		t.Fatalf("dry run failed: %v %+v", err, resp.Error)
	}
	if resp.Data["dry_run"] != true {
		t.Fatalf("expected dry_run flag, got %v", resp.Data)
	}
	steps, _ := resp.Data["steps"].([]interface{})
	if len(steps) != 8 {
		t.Fatalf("expected 8 steps, got %d", len(steps))
	}
	binaries, _ := resp.Data["binaries"].([]interface{})
	if len(binaries) != 4 {
		t.Fatalf("expected 4 binaries, got %d", len(binaries))
	}
	tp.AssertSnapshotEqual(before)
}

func TestRenameCommandInvalidName(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").Build()
	useJSONProject(t, tp.Path)

	resp, err := runRenameCmd(t, "123plugin")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported for a non-zero exit, got %v", err)
	}
	if resp.OK || resp.Error == nil || resp.Error.Code != ErrInvalidName {
		t.Fatalf("expected %s, got %+v", ErrInvalidName, resp.Error)
	}
	tp.AssertIdentity("myplugin", "4.3")
}

func TestRenameCommandMissingPaths(t *testing.T) {
	tp := testutil.NewTestProject(t).
		WithTemplate("myplugin", "4.3").
		WithoutFile("SConstruct").
		Build()
	useJSONProject(t, tp.Path)

	resp, _ := runRenameCmd(t, "Other")
	if resp.Error == nil || resp.Error.Code != ErrPathNotFound {
		t.Fatalf("expected %s, got %+v", ErrPathNotFound, resp.Error)
	}
	details, _ := resp.Error.Details.(map[string]interface{})
	missing, _ := details["missing"].([]interface{})
	if len(missing) != 1 || missing[0] != "SConstruct" {
		t.Fatalf("missing = %v", details["missing"])
	}
}

func TestRenameCommandCorruptIdentity(t *testing.T) {
	tp := testutil.NewTestProject(t).
		WithTemplate("myplugin", "4.3").
		WithFile("dont_touch.txt", "myplugin\n").
		Build()
	useJSONProject(t, tp.Path)

	resp, _ := runRenameCmd(t, "Other")
	if resp.Error == nil || resp.Error.Code != ErrIdentityCorrupt {
		t.Fatalf("expected %s, got %+v", ErrIdentityCorrupt, resp.Error)
	}
}

func TestRenameCommandProjectNotFound(t *testing.T) {
	useJSONProject(t, filepath.Join(t.TempDir(), "missing"))

	resp, _ := runRenameCmd(t, "Other")
	if resp.Error == nil || resp.Error.Code != ErrProjectNotFound {
		t.Fatalf("expected %s, got %+v", ErrProjectNotFound, resp.Error)
	}
}

func TestRenameCommandNarratesRollback(t *testing.T) {
	tp := testutil.NewTestProject(t).WithTemplate("myplugin", "4.3").WithBinaries("myplugin").Build()
	useJSONProject(t, tp.Path)
	jsonOutput = false
	before := tp.Snapshot()

	var renamedWhenAnnounced bool
	prev := newRenamer
	t.Cleanup(func() { newRenamer = prev })
	newRenamer = func(p *project.Project, opts rename.Options) *rename.Renamer {
		opts.BeforeStep = func(s rename.Step) error {
			if s == rename.StepRewriteRegisterSource {
				return errors.New("disk full")
			}
			return nil
		}
		narrate := opts.OnState
		opts.OnState = func(s rename.State) {
			narrate(s)
			if s == rename.StateRollingBack {
				renamedWhenAnnounced = tp.FileExists("test_project/Other")
			}
		}
		return rename.New(p, opts)
	}

	var runErr error
	stderr := captureStderr(t, func() {
		cmd := newRenameCmd()
		runErr = cmd.RunE(cmd, []string{"Other"})
	})
	if !errors.Is(runErr, errReported) {
		t.Fatalf("expected errReported, got %v", runErr)
	}
	if !renamedWhenAnnounced {
		t.Fatal("rollback was announced after it had already run")
	}

	errAt := strings.Index(stderr, "Error: rewrite-register-source")
	rollingAt := strings.Index(stderr, "Rolling back changes...")
	doneAt := strings.Index(stderr, "Rollback complete.")
	if errAt < 0 || rollingAt < errAt || doneAt < rollingAt {
		t.Fatalf("unexpected narration order:\n%s", stderr)
	}
	if strings.Count(stderr, "Rolling back changes...") != 1 {
		t.Fatalf("rollback announced more than once:\n%s", stderr)
	}
	tp.AssertSnapshotEqual(before)
}

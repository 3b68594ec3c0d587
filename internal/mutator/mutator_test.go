package mutator

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdpp-dev/gdpp/internal/identifier"
	"github.com/gdpp-dev/gdpp/internal/rollback"
)

const manifestFixture = `[configuration]

entry_symbol = "myplugin_init"
compatibility_minimum = "4.3"
reloadable = true

[libraries]

macos.debug = "res://myplugin/bin/libmyplugin.macos.template_debug.framework"
windows.debug.x86_64 = "res://bin/libmyplugin.windows.dll"
web.release.wasm32 = "res://myplugin/bin/myplugin.web.wasm"
linux.release.x86_64 = "res://bin/LibMyPlugin.linux.so"
`

func mustParse(t *testing.T, raw string) identifier.Identifier {
	t.Helper()
	id, err := identifier.Parse(raw)
	if err != nil {
		t.Fatalf("identifier.Parse(%q): %v", raw, err)
	}
	return id
}

func TestEntrySymbol(t *testing.T) {
	name := mustParse(t, "New Plugin")
	tests := []struct {
		in   string
		want string
	}{
		{`entry_symbol = "myplugin_init"`, `entry_symbol = "New_Plugin_init"`},
		{`ENTRY_SYMBOL="MyPlugin_init"`, `entry_symbol = "New_Plugin_init"`},
		{`entry_symbol   =   "x_init"`, `entry_symbol = "New_Plugin_init"`},
		{`entry_symbol = "no_suffix"`, `entry_symbol = "no_suffix"`},
	}
	for _, tt := range tests {
		if got := EntrySymbol(tt.in, name); got != tt.want {
			t.Errorf("EntrySymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLibraryPathsScopedToSection(t *testing.T) {
	name := mustParse(t, "New Plugin")
	in := strings.Join([]string{
		`[configuration]`,
		`comment = "res://bin/libmyplugin.windows.dll"`,
		`[libraries]`,
		`windows.debug.x86_64 = "res://bin/libmyplugin.windows.dll"`,
		`web.release.wasm32 = "res://myplugin/bin/myplugin.web.wasm"`,
		`[icons]`,
		`Node = "res://bin/libmyplugin.svg"`,
		``,
	}, "\n")

	got := LibraryPaths(in, "myplugin", name)

	want := strings.Join([]string{
		`[configuration]`,
		`comment = "res://bin/libmyplugin.windows.dll"`,
		`[libraries]`,
		`windows.debug.x86_64 = "res://bin/libnew_plugin.windows.dll"`,
		`web.release.wasm32 = "res://myplugin/bin/New_Plugin.web.wasm"`,
		`[icons]`,
		`Node = "res://bin/libmyplugin.svg"`,
		``,
	}, "\n")
	if got != want {
		t.Fatalf("LibraryPaths mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLibraryPathsIgnoresCaseOfOldName(t *testing.T) {
	name := mustParse(t, "Renamed")
	got := LibraryPaths("[libraries]\nx = \"res://bin/LibMyPlugin.linux.so\"\n", "myplugin", name)
	if got != "[libraries]\nx = \"res://bin/librenamed.linux.so\"\n" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestManifestIsIdempotent(t *testing.T) {
	name := mustParse(t, "New Plugin")
	fn := Manifest("myplugin", name)

	once, err := fn(manifestFixture)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	twice, err := fn(once)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if once != twice {
		t.Fatalf("manifest edit not idempotent\nonce:\n%s\ntwice:\n%s", once, twice)
	}

	for _, want := range []string{
		`entry_symbol = "New_Plugin_init"`,
		`res://myplugin/bin/libnew_plugin.macos.template_debug.framework`,
		`res://bin/libnew_plugin.windows.dll`,
		`res://myplugin/bin/New_Plugin.web.wasm`,
		`res://bin/libnew_plugin.linux.so`,
		`compatibility_minimum = "4.3"`,
	} {
		if !strings.Contains(once, want) {
			t.Errorf("expected %q in:\n%s", want, once)
		}
	}
}

func TestLibraryPathsKeepsCRLF(t *testing.T) {
	name := mustParse(t, "other")
	in := "[libraries]\r\nx = \"res://bin/libmyplugin.dll\"\r\n"
	got := LibraryPaths(in, "myplugin", name)
	if got != "[libraries]\r\nx = \"res://bin/libother.dll\"\r\n" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestRegisterSymbol(t *testing.T) {
	name := mustParse(t, "New Plugin")
	in := "extern \"C\" {\nGDExtensionBool GDE_EXPORT myplugin_init(GDExtensionInterfaceGetProcAddress p_get_proc_address) {\n"
	fn := RegisterSymbol(name)

	got, err := fn(in)
	if err != nil {
		t.Fatalf("RegisterSymbol: %v", err)
	}
	if !strings.Contains(got, "GDExtensionBool GDE_EXPORT new_plugin_init(GDExtensionInterfaceGetProcAddress") {
		t.Fatalf("unexpected result:\n%s", got)
	}
	again, _ := fn(got)
	if again != got {
		t.Fatalf("RegisterSymbol not idempotent")
	}
}

func TestLibName(t *testing.T) {
	name := mustParse(t, "New Plugin")
	got, _ := LibName(name)(`libname = "myplugin"` + "\nenv = Environment()\n")
	if got != `libname = "New_Plugin"`+"\nenv = Environment()\n" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestCompatibilityMinimum(t *testing.T) {
	got, _ := CompatibilityMinimum("4.4")(manifestFixture)
	if !strings.Contains(got, `compatibility_minimum = "4.4"`) || strings.Contains(got, `"4.3"`) {
		t.Fatalf("unexpected result:\n%s", got)
	}
}

func TestSubmoduleBranch(t *testing.T) {
	in := "[submodule \"godot-cpp\"]\n\tpath = godot-cpp\n\turl = https://example.invalid/godot-cpp\n\tbranch = 4.2\n"
	got, _ := SubmoduleBranch("4.3")(in)
	want := "[submodule \"godot-cpp\"]\n\tpath = godot-cpp\n\turl = https://example.invalid/godot-cpp\n\tbranch = 4.3\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBoolVars(t *testing.T) {
	content := "libname = \"x\"\nis_2d_profile_used = \"False\"\nis_3d_profile_used = \"true\"\n\nenv = 1\n"

	vars, err := ReadBoolVars(content, "is_2d_profile_used", "is_3d_profile_used")
	if err != nil {
		t.Fatalf("ReadBoolVars: %v", err)
	}
	if vars["is_2d_profile_used"] != "false" || vars["is_3d_profile_used"] != "true" {
		t.Fatalf("unexpected vars %v", vars)
	}

	if _, err := ReadBoolVars(content, "is_custom_profile_used"); err == nil {
		t.Fatal("expected error for missing variable")
	}
	if _, err := ReadBoolVars("x = \"maybe\"\n", "x"); err == nil {
		t.Fatal("expected error for invalid value")
	}

	got, err := SetBoolVars(map[string]string{"is_2d_profile_used": "true", "is_3d_profile_used": "false"})(content)
	if err != nil {
		t.Fatalf("SetBoolVars: %v", err)
	}
	want := "libname = \"x\"\nis_2d_profile_used = \"true\"\nis_3d_profile_used = \"false\"\n\nenv = 1\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if _, err := SetBoolVars(map[string]string{"missing": "true"})(content); err == nil {
		t.Fatal("expected error for missing variable")
	}
}

func TestApplyCapturesBeforeWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SConstruct")
	if err := os.WriteFile(path, []byte(`libname = "myplugin"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tx := rollback.New()
	changed, err := Apply(tx, path, LibName(mustParse(t, "Other")))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Fatal("expected change")
	}
	if orig, ok := tx.Backups.Original(path); !ok || string(orig) != `libname = "myplugin"` {
		t.Fatalf("expected original snapshot, got %q (ok=%v)", orig, ok)
	}

	changed, err = Apply(tx, path, LibName(mustParse(t, "Other")))
	if err != nil {
		t.Fatalf("Apply second run: %v", err)
	}
	if changed {
		t.Fatal("expected no change on second run")
	}

	tx.Rollback()
	got, _ := os.ReadFile(path)
	if string(got) != `libname = "myplugin"` {
		t.Fatalf("expected rollback to restore content, got %q", got)
	}
}

func TestApplyMissingFile(t *testing.T) {
	tx := rollback.New()
	_, err := Apply(tx, filepath.Join(t.TempDir(), "nope"), LibName(mustParse(t, "x")))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if len(tx.Backups.Paths()) != 0 {
		t.Fatal("expected nothing captured")
	}
}

func TestApplyTransformError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SConstruct")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tx := rollback.New()
	_, err := Apply(tx, path, SetBoolVars(map[string]string{"is_2d_profile_used": "true"}))
	if err == nil {
		t.Fatal("expected error")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "x = 1\n" {
		t.Fatalf("file should be untouched, got %q", got)
	}
}

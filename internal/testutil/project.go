// Package testutil provides reusable fixtures for gdpp tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// TestProject is a temporary template project.
type TestProject struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestProject creates a new test project builder.
// Call Build() to create the actual project directory.
func NewTestProject(t *testing.T) *TestProject {
	t.Helper()
	return &TestProject{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file relative to the project root.
func (p *TestProject) WithFile(path, content string) *TestProject {
	p.files[filepath.FromSlash(path)] = content
	return p
}

// WithoutFile drops a previously added file.
func (p *TestProject) WithoutFile(path string) *TestProject {
	delete(p.files, filepath.FromSlash(path))
	return p
}

// WithTemplate adds the files of a freshly cloned template whose plugin is
// called name and targets version.
func (p *TestProject) WithTemplate(name, version string) *TestProject {
	p.WithFile("dont_touch.txt", name+"\n"+version+"\n")
	p.WithFile("test_project/"+name+"/"+name+".gdextension", ManifestFixture(name, version))
	p.WithFile("src/register_types.cpp", RegisterSourceFixture(name))
	p.WithFile("SConstruct", SConstructFixture(name))
	p.WithFile(".gitmodules", GitmodulesFixture(version))
	return p
}

// WithBinaries adds build outputs under bin/ and the plugin's own bin/.
func (p *TestProject) WithBinaries(name string) *TestProject {
	p.WithFile("bin/lib"+name+".windows.template_debug.x86_64.dll", "dll")
	p.WithFile("bin/linux/lib"+name+".linux.template_release.x86_64.so", "so")
	p.WithFile("bin/"+name+".web.template_debug.wasm32.wasm", "wasm")
	p.WithFile("test_project/"+name+"/bin/lib"+name+".macos.template_debug", "macos")
	return p
}

// Build creates the project directory and all configured files.
func (p *TestProject) Build() *TestProject {
	p.t.Helper()

	p.Path = p.t.TempDir()
	for path, content := range p.files {
		p.writeFile(path, content)
	}
	return p
}

func (p *TestProject) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		p.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// WriteFile writes a file into an already built project.
func (p *TestProject) WriteFile(relPath, content string) {
	p.t.Helper()
	p.writeFile(filepath.FromSlash(relPath), content)
}

// ReadFile reads a file from the project.
func (p *TestProject) ReadFile(relPath string) string {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, filepath.FromSlash(relPath))
	content, err := os.ReadFile(fullPath)
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a path exists in the project.
func (p *TestProject) FileExists(relPath string) bool {
	p.t.Helper()
	_, err := os.Stat(filepath.Join(p.Path, filepath.FromSlash(relPath)))
	return err == nil
}

// ManifestFixture returns a .gdextension manifest for name.
func ManifestFixture(name, version string) string {
	return fmt.Sprintf(`[configuration]

entry_symbol = "%[1]s_init"
compatibility_minimum = "%[2]s"
reloadable = true

[libraries]

macos.debug = "res://bin/lib%[1]s.macos.template_debug.framework"
windows.debug.x86_64 = "res://bin/lib%[1]s.windows.dll"
linux.release.x86_64 = "res://bin/lib%[1]s.linux.template_release.x86_64.so"
web.debug.wasm32 = "res://bin/%[1]s.web.template_debug.wasm32.wasm"
`, name, version)
}

// RegisterSourceFixture returns a register_types.cpp exporting <name>_init.
func RegisterSourceFixture(name string) string {
	return fmt.Sprintf(`#include "register_types.h"

#include <gdextension_interface.h>
#include <godot_cpp/core/defs.hpp>
#include <godot_cpp/godot.hpp>

using namespace godot;

extern "C" {
GDExtensionBool GDE_EXPORT %s_init(GDExtensionInterfaceGetProcAddress p_get_proc_address, const GDExtensionClassLibraryPtr p_library, GDExtensionInitialization *r_initialization) {
	godot::GDExtensionBinding::InitObject init_obj(p_get_proc_address, p_library, r_initialization);
	return init_obj.init();
}
}
`, name)
}

// SConstructFixture returns an SConstruct naming the library name with every
// build profile turned off.
func SConstructFixture(name string) string {
	return fmt.Sprintf(`#!/usr/bin/env python
import os

libname = "%s"
projectdir = "test_project"

is_2d_profile_used = "false"
is_3d_profile_used = "false"
is_custom_profile_used = "false"

env = SConscript("godot-cpp/SConstruct")
`, name)
}

// GitmodulesFixture returns a .gitmodules tracking branch.
func GitmodulesFixture(branch string) string {
	return fmt.Sprintf(`[submodule "godot-cpp"]
	path = godot-cpp
	url = https://github.com/godotengine/godot-cpp
	branch = %s
`, branch)
}

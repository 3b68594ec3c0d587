package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gdpp-dev/gdpp/internal/commands"
)

func TestCommandFlagsMatchRegistry(t *testing.T) {
	for _, path := range []string{"rename", "profile set", "config set", "init"} {
		_, meta, ok := commands.LookupMetaByPath(path)
		if !ok {
			t.Fatalf("%s missing from registry", path)
		}
		cmd, ok := findCommandByPath(rootCmd, path)
		if !ok {
			t.Fatalf("%s missing from CLI tree", path)
		}

		cliFlags := make(map[string]struct{})
		cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
			if flag.Name == "help" {
				return
			}
			cliFlags[flag.Name] = struct{}{}
		})

		registryFlags := make(map[string]struct{}, len(meta.Flags))
		for _, flag := range meta.Flags {
			registryFlags[flag.Name] = struct{}{}
		}

		for name := range cliFlags {
			if _, ok := registryFlags[name]; !ok {
				t.Errorf("CLI %s flag %q is missing from registry metadata", path, name)
			}
		}
		for name := range registryFlags {
			if _, ok := cliFlags[name]; !ok {
				t.Errorf("registry %s flag %q is missing from CLI command", path, name)
			}
		}
	}
}

func TestCommandsMissingRegistryMetadataAreAllowlisted(t *testing.T) {
	allowMissing := []string{
		"completion",
		"completion bash",
		"completion fish",
		"completion powershell",
		"completion zsh",
		"help",
	}

	rootCmd.InitDefaultCompletionCmd()
	rootCmd.InitDefaultHelpCmd()

	for _, path := range commandPaths(rootCmd) {
		if _, _, ok := commands.LookupMetaByPath(path); ok {
			continue
		}
		if slices.Contains(allowMissing, path) {
			continue
		}
		t.Errorf("CLI command %q is missing registry metadata", path)
	}
}

func TestRegistryCommandsExistInCLI(t *testing.T) {
	for _, meta := range commands.Registry {
		if _, ok := findCommandByPath(rootCmd, meta.Name); !ok {
			t.Errorf("registry command %q is not wired into the CLI", meta.Name)
		}
	}
}

func TestSyncRegistryMetadata(t *testing.T) {
	syncRegistryMetadata(rootCmd)
	cmd, ok := findCommandByPath(rootCmd, "godot-version")
	if !ok {
		t.Fatal("godot-version missing")
	}
	if cmd.Short != commands.Registry["godot-version"].Description {
		t.Fatalf("Short = %q", cmd.Short)
	}
}

func commandPaths(root *cobra.Command) []string {
	var out []string
	var walk func(cmd *cobra.Command, prefix string)

	walk = func(cmd *cobra.Command, prefix string) {
		for _, child := range cmd.Commands() {
			path := child.Name()
			if prefix != "" {
				path = strings.TrimSpace(prefix + " " + child.Name())
			}
			out = append(out, path)
			walk(child, path)
		}
	}

	walk(root, "")
	return out
}

func findCommandByPath(root *cobra.Command, path string) (*cobra.Command, bool) {
	cur := root
	for _, part := range strings.Fields(path) {
		var next *cobra.Command
		for _, child := range cur.Commands() {
			if child.Name() == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/identity"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

const identityCorruptHint = "Restore the identity file (plugin name on line 1, Godot version on line 2), or edit the project files by hand"

// identityCorruptMessage is shown by the interactive menu before it exits.
const identityCorruptMessage = `Someone deleted or touched %s, the file that stores the plugin name and
target Godot version. gdpp can't work on this project until it is restored;
otherwise you'll have to edit the affected files yourself.`

var statusCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("status")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := requireProject()
		if err != nil {
			return err
		}
		st, err := collectStatus(p)
		if err != nil {
			return statusError(p, err)
		}
		if isJSONOutput() {
			outputSuccess(st)
			return nil
		}
		printStatus(st)
		return nil
	}
	return cmd
}()

type statusJSON struct {
	Project              string `json:"project"`
	Plugin               string `json:"plugin"`
	GodotVersion         string `json:"godot_version"`
	Profile              string `json:"profile"`
	PluginDirExists      bool   `json:"plugin_dir_exists"`
	SubmoduleInitialized bool   `json:"submodule_initialized"`
}

func collectStatus(p *project.Project) (*statusJSON, error) {
	rec, err := p.Identity()
	if err != nil {
		return nil, err
	}
	st := &statusJSON{
		Project:              p.Root,
		Plugin:               rec.Name,
		GodotVersion:         rec.Version,
		SubmoduleInitialized: newSwitcher(p).Initialized(),
	}
	if info, err := os.Stat(p.PluginDir(rec.Name)); err == nil && info.IsDir() {
		st.PluginDirExists = true
	}
	kind, err := newProfileManager(p).Current()
	if err != nil {
		logger.Warn("could not read build profile", "err", err)
		st.Profile = "unknown"
	} else {
		st.Profile = string(kind)
	}
	return st, nil
}

func statusError(p *project.Project, err error) error {
	if errors.Is(err, identity.ErrCorrupt) {
		return handleError(ErrIdentityCorrupt, err, identityCorruptHint)
	}
	return handleError(ErrFileReadError, err, "")
}

func statusMarkdown(st *statusJSON) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", st.Plugin)
	fmt.Fprintf(&b, "- **Target Godot version:** %s\n", st.GodotVersion)
	fmt.Fprintf(&b, "- **Build profile:** %s\n", st.Profile)
	fmt.Fprintf(&b, "- **Project:** `%s`\n", st.Project)
	if !st.PluginDirExists {
		b.WriteString("\n> The plugin directory is missing. Renaming will fail until it is restored.\n")
	}
	if !st.SubmoduleInitialized {
		b.WriteString("\n> godot-cpp is not initialized yet. Choosing a Godot version initializes it.\n")
	}
	return b.String()
}

func printStatus(st *statusJSON) {
	fmt.Print(ui.Stdout().Markdown(statusMarkdown(st)))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/config"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := commands.GenerateCobraCommand("init")
	cmd.RunE = runInit
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return handleErrorMsg(ErrProjectNotFound, fmt.Sprintf("%s is not a directory", abs), "Clone the template first, then run gdpp init inside it")
	}

	created, err := project.CreateDefaultConfig(abs)
	if err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	layout, err := project.LoadConfig(abs)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Check gdpp.yaml in the project root")
	}
	var warnings []Warning
	if _, err := os.Stat(filepath.Join(abs, layout.IdentityFile)); err != nil {
		warnings = append(warnings, Warning{
			Code:    WarnIdentityMissing,
			Message: "no identity file found; rename and status need it",
			Path:    layout.IdentityFile,
		})
	}

	name, _ := cmd.Flags().GetString("name")
	if name != "" {
		c := *getConfig()
		projects := make(map[string]string, len(c.Projects)+1)
		for k, v := range c.Projects {
			projects[k] = v
		}
		projects[name] = abs
		c.Projects = projects
		if err := config.SaveTo(getConfigPath(), &c); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		cfg = &c
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"root":       abs,
			"created":    created,
			"registered": name,
		}, warnings)
		return nil
	}
	if created {
		fmt.Println(ui.Successf("Created %s", ui.FilePath(filepath.Join(abs, project.ConfigFile))))
	} else {
		fmt.Println(ui.Hint(fmt.Sprintf("• %s already exists (kept)", project.ConfigFile)))
	}
	if name != "" {
		fmt.Println(ui.Successf("Registered project %s in %s", ui.Name(name), ui.FilePath(getConfigPath())))
	}
	printWarnings(warnings)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}

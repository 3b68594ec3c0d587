package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/identifier"
	"github.com/gdpp-dev/gdpp/internal/identity"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

const menuQuit = "quit"

var menuCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("menu")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runMenu(commandContext(cmd))
	}
	return cmd
}()

// runMenu shows the status and the setup actions until the user quits.
func runMenu(ctx context.Context) error {
	if !isInteractive() {
		return handleErrorMsg(ErrInteractiveRequired, "the menu needs a terminal", "Use 'gdpp rename', 'gdpp godot-version' or 'gdpp profile' instead")
	}
	p, err := requireProject()
	if err != nil {
		return err
	}

	for {
		st, err := collectStatus(p)
		if err != nil {
			if errors.Is(err, identity.ErrCorrupt) {
				fmt.Fprintf(os.Stderr, identityCorruptMessage+"\n", p.Rel(p.IdentityPath()))
				return errReported
			}
			return statusError(p, err)
		}
		printStatus(st)

		entries := commands.MenuEntries()
		options := make([]huh.Option[string], 0, len(entries)+1)
		for _, e := range entries {
			options = append(options, huh.NewOption(e.Label, e.ID))
		}
		options = append(options, huh.NewOption("Quit", menuQuit))

		choice := menuQuit
		if err := promptSelect("Choose an option", options, &choice); err != nil {
			if errors.Is(err, errCancelled) {
				return nil
			}
			return handleError(ErrInternal, err, "")
		}

		switch choice {
		case menuQuit:
			fmt.Println(ui.Hint("Quitting..."))
			return nil
		case "godot-version":
			err = runGodotVersionInteractive(ctx, p)
		case "rename":
			err = runRenameInteractive(func(name string) error {
				return runRename(p, name, false)
			})
		case "profile":
			err = runProfileInteractive(ctx, p)
		}
		// Failures were already reported; the menu keeps going.
		if err != nil && !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func runRenameInteractive(apply func(string) error) error {
	opts := identifier.Options{Transliterate: getConfig().Transliterate}
	var name string
	err := runForm(huh.NewInput().
		Title("New plugin name").
		Description("Letters, digits and underscores; spaces become underscores. Leave empty to go back.").
		Value(&name).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			_, err := identifier.ParseWithOptions(s, opts)
			return err
		}))
	if err != nil {
		if errors.Is(err, errCancelled) {
			return nil
		}
		return err
	}
	if strings.TrimSpace(name) == "" {
		return nil
	}
	logger.Debug("interactive rename", "name", name)
	return apply(name)
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

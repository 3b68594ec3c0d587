package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/profile"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

// newProfileManager is swapped in tests to avoid running scons.
var newProfileManager = func(p *project.Project) *profile.Manager {
	return profile.NewManager(p, logger)
}

var profileCmd = &cobra.Command{
	Use:  "profile",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := requireProject()
		if err != nil {
			return err
		}
		if !isInteractive() {
			return runProfileShow(p)
		}
		return runProfileInteractive(commandContext(cmd), p)
	},
}

var profileShowCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("profile_show")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := requireProject()
		if err != nil {
			return err
		}
		return runProfileShow(p)
	}
	return cmd
}()

var profileSetCmd = newProfileSetCmd()

func newProfileSetCmd() *cobra.Command {
	cmd := commands.GenerateCobraCommand("profile_set")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		disable, _ := cmd.Flags().GetStringSlice("disable")
		noClean, _ := cmd.Flags().GetBool("no-clean")

		kind, err := profile.ParseKind(args[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use none, 2d, 3d or custom")
		}
		extras, err := profile.ParseBuckets(disable)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use xr, networking, navigation, editor, animation or ui")
		}
		p, err := requireProject()
		if err != nil {
			return err
		}
		return runProfileSet(commandContext(cmd), p, kind, profile.SetOptions{Extras: extras, Clean: !noClean})
	}
	return cmd
}

type profileJSON struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

type profileSetJSON struct {
	Kind     string `json:"kind"`
	File     string `json:"file,omitempty"`
	Disabled int    `json:"disabled_classes"`
	Cleaned  bool   `json:"cleaned"`
}

func runProfileShow(p *project.Project) error {
	kind, err := newProfileManager(p).Current()
	if err != nil {
		return handleError(ErrFileReadError, err, "SConstruct must define the is_*_profile_used flags")
	}
	if isJSONOutput() {
		outputSuccess(profileJSON{Kind: string(kind), Label: kind.Label()})
		return nil
	}
	fmt.Printf("Build profile: %s\n", ui.Name(kind.Label()))
	return nil
}

func runProfileSet(ctx context.Context, p *project.Project, kind profile.Kind, opts profile.SetOptions) error {
	m := newProfileManager(p)

	var spinner *ui.Spinner
	if opts.Clean && !isJSONOutput() {
		spinner = ui.NewSpinner("Switching build profile")
		spinner.Start()
	}
	res, err := m.Set(ctx, kind, opts)
	if spinner != nil {
		spinner.Stop()
	}

	var warnings []Warning
	if err != nil {
		if res == nil {
			if errors.Is(err, profile.ErrCustomProfileMissing) {
				return handleError(ErrProfileNotFound, err, "Create build_profile.json at the project root first")
			}
			return handleError(ErrFileWriteError, err, "")
		}
		// The switch happened; only cleaning failed.
		warnings = append(warnings, Warning{Code: WarnCleanFailed, Message: err.Error()})
	}

	out := profileSetJSON{Kind: string(res.Kind), File: res.File, Disabled: res.Disabled, Cleaned: res.Cleaned}
	if isJSONOutput() {
		outputSuccessWithWarnings(out, warnings)
		return nil
	}

	printWarnings(warnings)
	fmt.Println(ui.Successf("Build profile set to %s", ui.Name(res.Kind.Label())))
	if res.File != "" && res.Kind != profile.KindCustom {
		fmt.Printf("  %s %s, %s disabled\n", ui.Hint("wrote"), ui.FilePath(res.File), ui.Count(res.Disabled, "class", "classes"))
	}
	if res.Cleaned {
		fmt.Println(ui.Hint("  old build files removed; rebuild the extension"))
	}
	return nil
}

func runProfileInteractive(ctx context.Context, p *project.Project) error {
	m := newProfileManager(p)
	current, err := m.Current()
	if err != nil {
		return handleError(ErrFileReadError, err, "SConstruct must define the is_*_profile_used flags")
	}

	options := make([]huh.Option[string], 0, len(profile.Kinds))
	for _, k := range profile.Kinds {
		options = append(options, huh.NewOption(k.Label(), string(k)))
	}
	choice := string(current)
	if err := promptSelect(fmt.Sprintf("Build profile (current: %s)", current.Label()), options, &choice); err != nil {
		if errors.Is(err, errCancelled) {
			return nil
		}
		return handleError(ErrInternal, err, "")
	}
	kind, err := profile.ParseKind(choice)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	var extras []profile.Bucket
	if kind == profile.Kind2D || kind == profile.Kind3D {
		extraOptions := make([]huh.Option[string], 0, len(profile.ExtraBuckets))
		for _, b := range profile.ExtraBuckets {
			extraOptions = append(extraOptions, huh.NewOption(string(b), string(b)))
		}
		var picked []string
		if err := runForm(huh.NewMultiSelect[string]().
			Title("Also disable these class groups").
			Options(extraOptions...).
			Value(&picked)); err != nil {
			if errors.Is(err, errCancelled) {
				return nil
			}
			return handleError(ErrInternal, err, "")
		}
		extras, err = profile.ParseBuckets(picked)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
	}

	clean, err := promptForConfirm("Remove old build files with 'scons -c'?")
	if err != nil {
		if errors.Is(err, errCancelled) {
			return nil
		}
		return handleError(ErrInternal, err, "")
	}
	return runProfileSet(ctx, p, kind, profile.SetOptions{Extras: extras, Clean: clean})
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

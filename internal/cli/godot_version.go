package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/godotcpp"
	"github.com/gdpp-dev/gdpp/internal/identity"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

// newSwitcher is swapped in tests to avoid running git.
var newSwitcher = func(p *project.Project) *godotcpp.Switcher {
	return godotcpp.NewSwitcher(p, logger)
}

var godotVersionCmd = &cobra.Command{
	Use:  "godot-version",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := requireProject()
		if err != nil {
			return err
		}
		if !isInteractive() {
			return runGodotVersionList(commandContext(cmd), p)
		}
		return runGodotVersionInteractive(commandContext(cmd), p)
	},
}

var godotVersionListCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("godot-version_list")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := requireProject()
		if err != nil {
			return err
		}
		return runGodotVersionList(commandContext(cmd), p)
	}
	return cmd
}()

var godotVersionUseCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("godot-version_use")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := requireProject()
		if err != nil {
			return err
		}
		return runGodotVersionUse(commandContext(cmd), p, args[0])
	}
	return cmd
}()

type godotVersionListJSON struct {
	Branches []string `json:"branches"`
	Current  string   `json:"current"`
	Status   string   `json:"status"`
	Next     string   `json:"next"`
}

type godotVersionUseJSON struct {
	Branch  string `json:"branch"`
	Version string `json:"version"`
}

// fetchBranches initializes the submodule when needed and lists its remote
// branches.
func fetchBranches(ctx context.Context, s *godotcpp.Switcher) ([]string, []Warning, error) {
	var warnings []Warning

	spinner := ui.NewSpinner("Fetching godot-cpp branches")
	if !isJSONOutput() {
		spinner.Start()
	}
	stop := func() {
		if !isJSONOutput() {
			spinner.Stop()
		}
	}

	ran, err := s.EnsureSubmodule(ctx)
	if err != nil {
		stop()
		return nil, nil, err
	}
	if ran {
		warnings = append(warnings, Warning{Code: WarnSubmoduleInit, Message: "initialized the godot-cpp submodule"})
	}
	branches, err := s.FetchBranches(ctx)
	stop()
	if err != nil {
		return nil, warnings, err
	}
	return branches, warnings, nil
}

func gitError(err error) error {
	switch {
	case errors.Is(err, godotcpp.ErrUnknownBranch):
		return handleError(ErrUnknownBranch, err, "Run 'gdpp godot-version list' to see the available branches")
	case errors.Is(err, identity.ErrCorrupt):
		return handleError(ErrIdentityCorrupt, err, identityCorruptHint)
	default:
		return handleError(ErrGitFailed, err, "Check that git is installed and the godot-cpp remote is reachable")
	}
}

func runGodotVersionList(ctx context.Context, p *project.Project) error {
	rec, err := p.Identity()
	if err != nil {
		return gitError(err)
	}
	branches, warnings, err := fetchBranches(ctx, newSwitcher(p))
	if err != nil {
		return gitError(err)
	}

	out := godotVersionListJSON{
		Branches: branches,
		Current:  rec.Version,
		Status:   godotcpp.DescribeCurrent(rec.Version, branches).String(),
		Next:     godotcpp.NextVersion(branches),
	}
	if isJSONOutput() {
		outputSuccessWithWarnings(out, warnings)
		return nil
	}

	printWarnings(warnings)
	fmt.Println(ui.Header("godot-cpp branches"))
	for _, b := range branches {
		marker := " "
		if godotcpp.ResolveVersion(b, branches) == rec.Version {
			marker = ui.SymbolSuccess
		}
		label := b
		if b == godotcpp.Master {
			label = fmt.Sprintf("%s %s", b, ui.Hint("(Godot "+out.Next+")"))
		}
		fmt.Printf("  %s %s\n", marker, label)
	}
	fmt.Printf("\nCurrent target: %s %s\n", ui.Name(rec.Version), ui.Hint("("+out.Status+")"))
	return nil
}

func runGodotVersionUse(ctx context.Context, p *project.Project, branch string) error {
	s := newSwitcher(p)
	branches, warnings, err := fetchBranches(ctx, s)
	if err != nil {
		return gitError(err)
	}
	return switchBranch(ctx, s, branch, branches, warnings)
}

func switchBranch(ctx context.Context, s *godotcpp.Switcher, branch string, branches []string, warnings []Warning) error {
	res, err := s.Switch(ctx, branch, branches)
	if res != nil {
		for _, w := range res.Warnings {
			warnings = append(warnings, Warning{Code: WarnGitPull, Message: w})
		}
	}
	if err != nil {
		printWarnings(warnings)
		return gitError(err)
	}

	out := godotVersionUseJSON{Branch: res.Branch, Version: res.Version}
	if isJSONOutput() {
		outputSuccessWithWarnings(out, warnings)
		return nil
	}
	printWarnings(warnings)
	fmt.Println(ui.Successf("godot-cpp is on %s, targeting Godot %s", ui.Name(res.Branch), ui.Name(res.Version)))
	return nil
}

func runGodotVersionInteractive(ctx context.Context, p *project.Project) error {
	rec, err := p.Identity()
	if err != nil {
		return gitError(err)
	}
	s := newSwitcher(p)
	branches, warnings, err := fetchBranches(ctx, s)
	if err != nil {
		return gitError(err)
	}
	printWarnings(warnings)

	options := make([]huh.Option[string], 0, len(branches))
	for _, b := range branches {
		label := b
		if b == godotcpp.Master {
			label = fmt.Sprintf("master (Godot %s, may be unstable)", godotcpp.NextVersion(branches))
		}
		options = append(options, huh.NewOption(label, b))
	}

	choice := rec.Version
	title := fmt.Sprintf("Target Godot version (current: %s, %s)", rec.Version, godotcpp.DescribeCurrent(rec.Version, branches))
	if err := promptSelect(title, options, &choice); err != nil {
		if errors.Is(err, errCancelled) {
			return nil
		}
		return handleError(ErrInternal, err, "")
	}
	return switchBranch(ctx, s, choice, branches, nil)
}

func init() {
	godotVersionCmd.AddCommand(godotVersionListCmd)
	godotVersionCmd.AddCommand(godotVersionUseCmd)
	rootCmd.AddCommand(godotVersionCmd)
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/identifier"
	"github.com/gdpp-dev/gdpp/internal/identity"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/rename"
	"github.com/gdpp-dev/gdpp/internal/rollback"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

var renameCmd = newRenameCmd()

func newRenameCmd() *cobra.Command {
	cmd := commands.GenerateCobraCommand("rename")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		p, err := requireProject()
		if err != nil {
			return err
		}
		return runRename(p, strings.Join(args, " "), dryRun)
	}
	return cmd
}

type renameRecordJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type renameResultJSON struct {
	OldName   string             `json:"old_name"`
	NewName   string             `json:"new_name"`
	PluginDir string             `json:"plugin_dir"`
	Manifest  string             `json:"manifest"`
	Renamed   []renameRecordJSON `json:"renamed"`
	Rewritten []string           `json:"rewritten"`
}

type planStepJSON struct {
	Step string `json:"step"`
	Path string `json:"path"`
	To   string `json:"to,omitempty"`
}

type renamePlanJSON struct {
	OldName  string             `json:"old_name"`
	NewName  string             `json:"new_name"`
	DryRun   bool               `json:"dry_run"`
	Steps    []planStepJSON     `json:"steps"`
	Binaries []renameRecordJSON `json:"binaries"`
}

var newRenamer = func(p *project.Project, opts rename.Options) *rename.Renamer {
	return rename.New(p, opts)
}

func runRename(p *project.Project, raw string, dryRun bool) error {
	var r *rename.Renamer
	opts := rename.Options{
		Identifier: identifier.Options{Transliterate: getConfig().Transliterate},
		Logger:     logger,
	}
	if !isJSONOutput() {
		opts.OnState = func(s rename.State) { narrateRollback(p, r, s) }
	}
	r = newRenamer(p, opts)

	if dryRun {
		plan, err := r.Plan(raw)
		if err != nil {
			return renameError(p, err)
		}
		return outputPlan(p, plan)
	}

	res, err := r.Run(raw)
	if err != nil {
		return renameError(p, err)
	}

	out := renameResultJSON{
		OldName:   res.OldName,
		NewName:   res.NewName.String(),
		PluginDir: p.Rel(res.PluginDir),
		Manifest:  p.Rel(res.Manifest),
		Renamed:   relRecords(p, res.Renamed),
		Rewritten: make([]string, 0, len(res.Rewritten)),
	}
	for _, path := range res.Rewritten {
		out.Rewritten = append(out.Rewritten, p.Rel(path))
	}
	warnings := rollbackWarnings(p, WarnBinaryRename, res.Warnings)

	if isJSONOutput() {
		outputSuccessWithWarnings(out, warnings)
		return nil
	}

	fmt.Println(ui.Successf("Renamed plugin %s to %s", ui.Name(res.OldName), ui.Name(res.NewName.String())))
	fmt.Printf("  %s %s\n", ui.Hint("plugin:"), ui.FilePath(out.PluginDir))
	fmt.Printf("  %s %s renamed, %s rewritten\n", ui.Hint("changes:"),
		ui.Count(len(out.Renamed), "path", "paths"), ui.Count(len(out.Rewritten), "file", "files"))
	printWarnings(warnings)
	return nil
}

func outputPlan(p *project.Project, plan *rename.Plan) error {
	out := renamePlanJSON{
		OldName:  plan.OldName,
		NewName:  plan.NewName.String(),
		DryRun:   true,
		Binaries: relRecords(p, plan.Binaries),
	}
	for _, s := range plan.Steps {
		step := planStepJSON{Step: string(s.Step), Path: p.Rel(s.Path)}
		if s.To != "" {
			step.To = p.Rel(s.To)
		}
		out.Steps = append(out.Steps, step)
	}

	if isJSONOutput() {
		outputSuccess(out)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Rename %s → %s\n\n", out.OldName, out.NewName)
	for i, s := range out.Steps {
		if s.To != "" {
			fmt.Fprintf(&b, "%d. **%s** `%s` → `%s`\n", i+1, s.Step, s.Path, s.To)
		} else {
			fmt.Fprintf(&b, "%d. **%s** `%s`\n", i+1, s.Step, s.Path)
		}
	}
	if len(out.Binaries) > 0 {
		b.WriteString("\n## Build outputs\n\n")
		for _, rec := range out.Binaries {
			fmt.Fprintf(&b, "- `%s` → `%s`\n", rec.From, rec.To)
		}
	}
	b.WriteString("\n> Dry run: nothing was changed.\n")

	fmt.Print(ui.Stdout().Markdown(b.String()))
	return nil
}

// renameError maps rename failures to error codes. In JSON mode a failure
// after mutation began reports the rollback and its leftovers.
func renameError(p *project.Project, err error) error {
	var ve *identifier.ValidationError
	var pe *rename.PreconditionError
	var me *rename.MutationError

	switch {
	case errors.As(err, &ve):
		return handleError(ErrInvalidName, err, "Use letters, digits and underscores, starting with a letter or underscore")
	case errors.Is(err, identity.ErrCorrupt):
		return handleError(ErrIdentityCorrupt, err, identityCorruptHint)
	case errors.As(err, &pe):
		if len(pe.Missing) > 0 {
			missing := make([]string, 0, len(pe.Missing))
			for _, m := range pe.Missing {
				missing = append(missing, p.Rel(m))
			}
			return handleErrorWithDetails(ErrPathNotFound, err.Error(), "Restore the template files or fix the paths in gdpp.yaml",
				map[string]interface{}{"missing": missing})
		}
		return handleError(ErrPreconditionFailed, err, "")
	case errors.As(err, &me):
		// Text mode narrated the rollback while it ran.
		if !isJSONOutput() {
			return errReported
		}
		outputError(ErrRollbackPerformed, err.Error(), map[string]interface{}{
			"step":              string(me.Step),
			"rollback_complete": me.Complete(),
		}, "", rollbackWarnings(p, WarnRollbackIncomplete, me.Warnings))
		return errReported
	default:
		return handleError(ErrInternal, err, "")
	}
}

// narrateRollback reports a failed rename on stderr as it is undone: the
// cause when rollback starts, leftovers once it has finished.
func narrateRollback(p *project.Project, r *rename.Renamer, s rename.State) {
	me := r.Failure()
	if me == nil {
		return
	}
	switch s {
	case rename.StateRollingBack:
		fmt.Fprintln(os.Stderr, "Error:", me)
		fmt.Fprintln(os.Stderr, "Rolling back changes...")
	case rename.StateFailed:
		warnings := rollbackWarnings(p, WarnRollbackIncomplete, me.Warnings)
		printWarnings(warnings)
		if me.Complete() {
			fmt.Fprintln(os.Stderr, "Rollback complete.")
		} else {
			fmt.Fprintln(os.Stderr, ui.Warningf("Rollback incomplete: %s need manual attention.", ui.Count(len(warnings), "path", "paths")))
		}
	}
}

func relRecords(p *project.Project, recs []rollback.Record) []renameRecordJSON {
	out := make([]renameRecordJSON, 0, len(recs))
	for _, r := range recs {
		out = append(out, renameRecordJSON{From: p.Rel(r.From), To: p.Rel(r.To)})
	}
	return out
}

func rollbackWarnings(p *project.Project, code string, ws []rollback.Warning) []Warning {
	out := make([]Warning, 0, len(ws))
	for _, w := range ws {
		out = append(out, Warning{Code: code, Message: w.String(), Path: p.Rel(w.Path)})
	}
	return out
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// GenerateCobraCommand creates a Cobra command from registry metadata.
// Use, Short, Long, Args, flags and completions come from the registry;
// the caller sets RunE.
func GenerateCobraCommand(id string) *cobra.Command {
	meta, ok := Registry[id]
	if !ok {
		return nil
	}

	fields := strings.Fields(meta.Name)
	use := fields[len(fields)-1]
	for _, arg := range meta.Args {
		name := arg.Name
		if arg.Variadic {
			name += "..."
		}
		if arg.Required {
			use += fmt.Sprintf(" <%s>", name)
		} else {
			use += fmt.Sprintf(" [%s]", name)
		}
	}

	minArgs := 0
	maxArgs := len(meta.Args)
	variadic := false
	for _, arg := range meta.Args {
		if arg.Required {
			minArgs++
		}
		if arg.Variadic {
			variadic = true
		}
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: meta.Description,
		Long:  BuildLongDesc(meta),
	}

	switch {
	case variadic:
		cmd.Args = cobra.MinimumNArgs(minArgs)
	case minArgs == maxArgs && minArgs == 0:
		cmd.Args = cobra.NoArgs
	case minArgs == maxArgs:
		cmd.Args = cobra.ExactArgs(minArgs)
	default:
		cmd.Args = cobra.RangeArgs(minArgs, maxArgs)
	}

	for _, flag := range meta.Flags {
		switch flag.Type {
		case FlagTypeBool:
			cmd.Flags().BoolP(flag.Name, flag.Short, flag.Default == "true", flag.Description)
		case FlagTypeStringSlice:
			cmd.Flags().StringSliceP(flag.Name, flag.Short, nil, flag.Description)
		default:
			cmd.Flags().StringP(flag.Name, flag.Short, flag.Default, flag.Description)
		}
	}

	if len(meta.Args) > 0 {
		cmd.ValidArgsFunction = generateCompletionFunc(meta.Args)
	}

	return cmd
}

// BuildLongDesc returns the long description followed by the examples.
func BuildLongDesc(meta Meta) string {
	longDesc := meta.Description
	if meta.LongDesc != "" {
		longDesc = meta.LongDesc
	}
	if len(meta.Examples) == 0 {
		return longDesc
	}

	var b strings.Builder
	b.WriteString(longDesc)
	b.WriteString("\n\nExamples:\n")
	for _, ex := range meta.Examples {
		b.WriteString("  ")
		b.WriteString(ex)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func generateCompletionFunc(args []ArgMeta) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, completedArgs []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		argIndex := len(completedArgs)
		if argIndex >= len(args) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var matches []string
		for _, c := range args[argIndex].Completions {
			if strings.HasPrefix(c, toComplete) {
				matches = append(matches, c)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/commands"
)

// syncRegistryMetadata copies descriptions from the command registry onto
// hand-built commands such as the godot-version and profile groups.
func syncRegistryMetadata(root *cobra.Command) {
	var walk func(cmd *cobra.Command, path string)
	walk = func(cmd *cobra.Command, path string) {
		if path != "" {
			applyRegistryMetadata(cmd, path)
		}
		for _, child := range cmd.Commands() {
			childPath := child.Name()
			if path != "" {
				childPath = path + " " + child.Name()
			}
			walk(child, childPath)
		}
	}
	walk(root, "")
}

func applyRegistryMetadata(cmd *cobra.Command, path string) {
	_, meta, ok := commands.LookupMetaByPath(path)
	if !ok {
		return
	}

	if meta.Description != "" {
		cmd.Short = meta.Description
	}
	if meta.LongDesc != "" || len(meta.Examples) > 0 || cmd.Long == "" {
		cmd.Long = commands.BuildLongDesc(meta)
	}
}

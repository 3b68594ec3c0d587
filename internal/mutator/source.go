package mutator

import (
	"regexp"

	"github.com/gdpp-dev/gdpp/internal/identifier"
)

var registerInitRe = regexp.MustCompile(`(?i)(GDExtensionBool GDE_EXPORT )\w+(_init\s*\()`)

// RegisterSymbol renames the exported GDExtension initialization function to
// <name lowercased>_init.
func RegisterSymbol(name identifier.Identifier) Transform {
	return Pure(func(content string) string {
		return registerInitRe.ReplaceAllString(content, "${1}"+name.Lower()+"${2}")
	})
}

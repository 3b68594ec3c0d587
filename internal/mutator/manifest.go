package mutator

import (
	"regexp"
	"strings"

	"github.com/gdpp-dev/gdpp/internal/identifier"
)

var (
	entrySymbolRe   = regexp.MustCompile(`(?i)entry_symbol\s*=\s*"[^"]*_init"`)
	compatMinimumRe = regexp.MustCompile(`compatibility_minimum\s*=\s*"[^"]*"`)
)

// librariesHeader opens the manifest section whose values are library paths.
const librariesHeader = "[libraries]"

// EntrySymbol points the manifest entry_symbol at <name>_init, keeping the
// display casing of name.
func EntrySymbol(content string, name identifier.Identifier) string {
	return entrySymbolRe.ReplaceAllLiteralString(content, `entry_symbol = "`+name.String()+`_init"`)
}

// LibraryPaths rewrites library file references inside the [libraries]
// section: "lib<old>." becomes "lib<new lowercased>." and "/<old>." becomes
// "/<new>.". Both matches ignore case. Lines outside the section are kept as is.
func LibraryPaths(content, oldName string, name identifier.Identifier) string {
	quoted := regexp.QuoteMeta(oldName)
	libRe := regexp.MustCompile(`(?i)lib` + quoted + `\.`)
	pathRe := regexp.MustCompile(`(?i)/` + quoted + `\.`)

	lines := strings.SplitAfter(content, "\n")
	inLibraries := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isSectionHeader(trimmed) {
			inLibraries = strings.HasPrefix(trimmed, librariesHeader)
			continue
		}
		if !inLibraries {
			continue
		}
		line = libRe.ReplaceAllLiteralString(line, "lib"+name.Lower()+".")
		line = pathRe.ReplaceAllLiteralString(line, "/"+name.String()+".")
		lines[i] = line
	}
	return strings.Join(lines, "")
}

// Manifest applies EntrySymbol and LibraryPaths.
func Manifest(oldName string, name identifier.Identifier) Transform {
	return Pure(func(content string) string {
		return LibraryPaths(EntrySymbol(content, name), oldName, name)
	})
}

// CompatibilityMinimum sets compatibility_minimum to version.
func CompatibilityMinimum(version string) Transform {
	return Pure(func(content string) string {
		return compatMinimumRe.ReplaceAllLiteralString(content, `compatibility_minimum = "`+version+`"`)
	})
}

func isSectionHeader(trimmed string) bool {
	return strings.HasPrefix(trimmed, "[") && strings.Contains(trimmed, "]")
}

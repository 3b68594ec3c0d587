// Package shellquote formats commands for display in logs and errors.
package shellquote

import "strings"

// Quote wraps s in single quotes, escaping any internal single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteIfNeeded quotes strings a shell would split or interpret.
func QuoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n#[]()|&;<>$`!*?\"'\\") {
		return Quote(s)
	}
	return s
}

// Join renders name and args as a copy-pasteable command line.
func Join(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, QuoteIfNeeded(name))
	for _, a := range args {
		parts = append(parts, QuoteIfNeeded(a))
	}
	return strings.Join(parts, " ")
}

// Package identifier turns user-supplied plugin names into identifiers that are
// valid both as a filename on every supported OS and as an exported C symbol.
package identifier

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
)

// ErrInvalid is the sentinel wrapped by every ValidationError.
var ErrInvalid = errors.New("invalid plugin name")

// validPattern is the shape every Identifier has after sanitizing.
var validPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reserved holds Windows device names, compared upper-cased.
var reserved = func() map[string]struct{} {
	names := map[string]struct{}{"CON": {}, "PRN": {}, "AUX": {}, "NUL": {}}
	for i := 1; i <= 9; i++ {
		names[fmt.Sprintf("COM%d", i)] = struct{}{}
		names[fmt.Sprintf("LPT%d", i)] = struct{}{}
	}
	return names
}()

// Identifier is a sanitized plugin name.
//
// It has two derived forms that must not be unified: String keeps the casing the
// user typed (display name, entry symbol, directory and manifest names) and Lower
// is used where the artifact is conventionally lowercase (library filename prefix,
// registration function).
type Identifier struct {
	name string
}

// String returns the identifier in its original casing.
func (id Identifier) String() string { return id.name }

// Lower returns the lowercased form.
func (id Identifier) Lower() string { return strings.ToLower(id.name) }

// Equal compares two identifiers exactly (case-sensitive).
func (id Identifier) Equal(other Identifier) bool { return id.name == other.name }

// ValidationError explains why a raw name could not become an Identifier.
type ValidationError struct {
	Input   string
	Cleaned string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Cleaned != "" && e.Cleaned != e.Input {
		return fmt.Sprintf("invalid plugin name %q (sanitized to %q): %s", e.Input, e.Cleaned, e.Reason)
	}
	return fmt.Sprintf("invalid plugin name %q: %s", e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Options tunes sanitizing.
type Options struct {
	// Transliterate maps non-ASCII letters to ASCII ("Café" -> "Cafe") before
	// disallowed characters are stripped. When false they are dropped.
	Transliterate bool
}

// Parse sanitizes raw with default options and validates the result.
func Parse(raw string) (Identifier, error) {
	return ParseWithOptions(raw, Options{})
}

// ParseWithOptions sanitizes raw and validates the result.
func ParseWithOptions(raw string, opts Options) (Identifier, error) {
	cleaned := Sanitize(raw, opts)

	reject := func(reason string) (Identifier, error) {
		return Identifier{}, &ValidationError{Input: raw, Cleaned: cleaned, Reason: reason}
	}

	switch {
	case cleaned == "":
		return reject("nothing usable is left after removing disallowed characters")
	case cleaned[0] >= '0' && cleaned[0] <= '9':
		return reject("must not start with a digit")
	case IsReserved(cleaned):
		return reject("is a reserved device name on Windows")
	case strings.HasSuffix(cleaned, ".") || strings.HasSuffix(cleaned, " "):
		return reject("must not end with a dot or a space")
	case !validPattern.MatchString(cleaned):
		return reject("may only contain letters, digits and underscores")
	}

	return Identifier{name: cleaned}, nil
}

// Sanitize trims raw, collapses whitespace runs into single underscores and drops
// every character outside [A-Za-z0-9_]. It does not validate.
func Sanitize(raw string, opts Options) string {
	s := strings.TrimSpace(raw)
	if opts.Transliterate {
		s = unidecode.Unidecode(s)
	}

	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false
		if isAllowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsReserved reports whether name is a Windows device name, ignoring case.
func IsReserved(name string) bool {
	_, ok := reserved[strings.ToUpper(name)]
	return ok
}

func isAllowed(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

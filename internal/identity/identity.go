// Package identity reads and edits the two-line plugin identity record: the
// current plugin name on line 1 and the targeted Godot version on line 2.
package identity

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gdpp-dev/gdpp/internal/mutator"
)

// DefaultFile is the identity file name at the project root.
const DefaultFile = "dont_touch.txt"

// ErrCorrupt is returned when the identity record is missing, unreadable or
// has fewer than two lines. Every command that needs the plugin name or
// version treats it as fatal.
var ErrCorrupt = errors.New("identity record is missing or malformed")

// Record is the parsed identity.
type Record struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Parse reads a record from file content.
func Parse(content string) (Record, error) {
	lines := splitLines(content)
	if len(lines) < 2 {
		return Record{}, fmt.Errorf("%w: expected at least 2 lines, found %d", ErrCorrupt, len(lines))
	}
	return Record{
		Name:    strings.TrimSpace(lines[0]),
		Version: strings.TrimSpace(lines[1]),
	}, nil
}

// Load reads and parses the record at path.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return Parse(string(data))
}

// SetName replaces line 1.
func SetName(name string) mutator.Transform {
	return setLine(0, name)
}

// SetVersion replaces line 2.
func SetVersion(version string) mutator.Transform {
	return setLine(1, version)
}

func setLine(index int, value string) mutator.Transform {
	return func(content string) (string, error) {
		lines := splitLines(content)
		if len(lines) < 2 {
			return "", fmt.Errorf("%w: expected at least 2 lines, found %d", ErrCorrupt, len(lines))
		}
		line := lines[index]
		lines[index] = value + line[len(strings.TrimRight(line, "\r\n")):]
		return strings.Join(lines, ""), nil
	}
}

// splitLines splits content after each newline. A trailing newline does not
// start another line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Package mutator holds the single-purpose text edits applied to plugin
// artifacts: the .gdextension manifest, the registration source, SConstruct,
// .gitmodules and the identity file.
//
// Each edit is a pure string transform that is idempotent on its own output.
// Apply wires a transform to a file through a rollback.Tx so the original
// content is captured before the first write.
package mutator

import (
	"fmt"

	"github.com/gdpp-dev/gdpp/internal/rollback"
)

// Transform rewrites file content.
type Transform func(content string) (string, error)

// Apply reads path, runs fn and writes the result back through tx.
// Nothing is written when the content is unchanged. A missing or unreadable
// file is returned as an error wrapping the underlying fs error.
func Apply(tx *rollback.Tx, path string, fn Transform) (changed bool, err error) {
	raw, err := tx.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	before := string(raw)
	after, err := fn(before)
	if err != nil {
		return false, fmt.Errorf("edit %s: %w", path, err)
	}
	if after == before {
		return false, nil
	}

	if err := tx.WriteFile(path, []byte(after)); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// Pure lifts an infallible edit into a Transform.
func Pure(fn func(string) string) Transform {
	return func(content string) (string, error) { return fn(content), nil }
}

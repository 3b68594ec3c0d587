package rename

import (
	"fmt"
	"strings"

	"github.com/gdpp-dev/gdpp/internal/rollback"
)

// PreconditionError is returned before anything is touched: required paths
// are missing or the rename target is unusable.
type PreconditionError struct {
	Missing []string
	Reason  string
}

func (e *PreconditionError) Error() string {
	if len(e.Missing) > 0 {
		return "required path does not exist: " + strings.Join(e.Missing, ", ")
	}
	return e.Reason
}

// MutationError is returned when a step failed after mutation began. The tree
// was rolled back; Warnings lists compensations that could not be applied.
type MutationError struct {
	Step     Step
	Err      error
	Warnings []rollback.Warning
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Complete reports whether every compensation succeeded.
func (e *MutationError) Complete() bool { return len(e.Warnings) == 0 }

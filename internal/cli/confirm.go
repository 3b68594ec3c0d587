package cli

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// errCancelled is returned when the user aborts a prompt.
var errCancelled = errors.New("cancelled")

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	if isJSONOutput() {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

// runForm runs huh fields as one form group.
func runForm(fields ...huh.Field) error {
	err := huh.NewForm(huh.NewGroup(fields...)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errCancelled
	}
	return err
}

// promptForConfirm asks a yes/no question. It returns false when prompts are
// unavailable.
func promptForConfirm(title string) (bool, error) {
	if !isInteractive() {
		return false, nil
	}
	if title == "" {
		title = "Apply changes?"
	}
	ok := false
	err := runForm(huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok))
	return ok, err
}

// promptSelect asks the user to pick one value.
func promptSelect(title string, options []huh.Option[string], value *string) error {
	return runForm(huh.NewSelect[string]().Title(title).Options(options...).Value(value))
}

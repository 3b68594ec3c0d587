package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is the wrap width used when stdout is not a terminal.
const DefaultTermWidth = 120

// Display is where gdpp writes plans, status and guides.
type Display struct {
	Width int
	TTY   bool
}

// Stdout describes the process's standard output.
func Stdout() Display {
	fd := os.Stdout.Fd()
	d := Display{Width: DefaultTermWidth, TTY: term.IsTerminal(fd)}
	if d.TTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.Width = w
		}
	}
	return d
}

// Markdown renders md for a terminal. Piped output gets md unchanged so it
// stays free of escape codes, as does output whose rendering fails.
func (d Display) Markdown(md string) string {
	if !d.TTY {
		return md
	}
	rendered, err := RenderMarkdown(md, d.Width)
	if err != nil {
		return md
	}
	return rendered
}

package ui

import (
	"strings"
	"testing"
)

func TestDisplayMarkdownPlainWhenPiped(t *testing.T) {
	md := "# Status\n\n- **Plugin:** `myplugin`\n"
	if got := (Display{Width: 80}).Markdown(md); got != md {
		t.Fatalf("piped output changed:\n%q", got)
	}
}

func TestDisplayMarkdownRendersOnTerminal(t *testing.T) {
	md := "# Status\n\n- **Plugin:** `myplugin`\n"
	got := (Display{Width: 80, TTY: true}).Markdown(md)
	if got == md {
		t.Fatal("expected rendered output on a terminal")
	}
	if strings.Contains(got, "**Plugin:**") || !strings.Contains(got, "myplugin") {
		t.Fatalf("unexpected rendering:\n%s", got)
	}
}

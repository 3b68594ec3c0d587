package profile

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gdpp-dev/gdpp/internal/shellquote"
)

// SconsCleaner runs `scons -c` in the project root.
type SconsCleaner struct {
	// Binary defaults to "scons".
	Binary string
}

func (c SconsCleaner) Clean(ctx context.Context, dir string) error {
	bin := c.Binary
	if bin == "" {
		bin = "scons"
	}
	cmd := exec.CommandContext(ctx, bin, "-c")
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", shellquote.Join(bin, "-c"), err, strings.TrimSpace(out.String()))
	}
	return nil
}

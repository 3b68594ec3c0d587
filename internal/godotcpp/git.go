package godotcpp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gdpp-dev/gdpp/internal/shellquote"
)

// Git runs git subcommands in a working directory and returns trimmed stdout.
type Git interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecGit shells out to the git binary.
type ExecGit struct {
	// Binary defaults to "git".
	Binary string
}

func (g ExecGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return msg, fmt.Errorf("%s: %w: %s", shellquote.Join(bin, args...), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

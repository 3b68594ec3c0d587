package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/gdpp-dev/gdpp/internal/config"
)

var captureMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	return captureFile(t, &os.Stdout, fn)
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return captureFile(t, &os.Stderr, fn)
}

// captureFile swaps *target for a pipe while fn runs and returns what fn
// wrote to it.
func captureFile(t *testing.T, target **os.File, fn func()) string {
	t.Helper()
	captureMu.Lock()
	defer captureMu.Unlock()

	orig := *target
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	*target = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	*target = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

// useJSONProject points the global flags at root in JSON mode and restores
// them when the test ends.
func useJSONProject(t *testing.T, root string) {
	t.Helper()
	prevProject := projectFlag
	prevJSON := jsonOutput
	prevCfg := cfg
	prevConfigPath := resolvedConfigPath
	t.Cleanup(func() {
		projectFlag = prevProject
		jsonOutput = prevJSON
		cfg = prevCfg
		resolvedConfigPath = prevConfigPath
	})

	projectFlag = root
	jsonOutput = true
	cfg = &config.Config{}
}

type jsonResponse struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data"`
	Error    *ErrorInfo             `json:"error"`
	Warnings []Warning              `json:"warnings"`
}

func decodeResponse(t *testing.T, out string) jsonResponse {
	t.Helper()
	var resp jsonResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	return resp
}

package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecHandler creates a Handler that runs an external executable with the
// Context JSON on stdin. Transform hooks may print a replacement Context on
// stdout; empty output leaves the context unchanged. Notify output is discarded.
func ExecHandler(path string, mode Mode) Handler {
	return func(ctx context.Context, hc *Context) (*Context, error) {
		input, err := hc.JSON()
		if err != nil {
			return nil, fmt.Errorf("serializing context: %w", err)
		}

		cmd := exec.CommandContext(ctx, path)
		cmd.Stdin = bytes.NewReader(input)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, errors.New("hook timed out")
			}
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("hook failed: %s", msg)
			}
			return nil, fmt.Errorf("hook failed: %w", err)
		}

		if mode == ModeNotify {
			return hc, nil
		}

		output := bytes.TrimSpace(stdout.Bytes())
		if len(output) == 0 {
			return hc, nil
		}

		result, err := ParseContext(output)
		if err != nil {
			return nil, fmt.Errorf("parsing hook output: %w", err)
		}
		return result, nil
	}
}

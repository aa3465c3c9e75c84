package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testNow is Monday 10 March 2025, mid-morning local time.
var testNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)

// configTestEnv isolates config and data under a temp XDG tree, pins the
// clock and resets command flag state when the test ends.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")

	oldNow := nowFunc
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() {
		nowFunc = oldNow
		resetCmdState()
	})
}

func resetCmdState() {
	taskFormat, taskMode, taskPlain = "text", "", false
	addPriority, addEffort, addMandays, addDue = "medium", "medium", 1, ""
	versionShort = false

	for _, c := range []*cobra.Command{taskCmd, taskAddCmd, taskEditCmd, versionCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		c.SetContext(context.Background())
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	fn()

	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("io.Copy: %v", err)
	}
	return buf.String()
}

// addTask runs `triage task add` with the given flags.
func addTask(t *testing.T, name, due, priority, effort string, mandays int) {
	t.Helper()
	addDue, addPriority, addEffort, addMandays = due, priority, effort, mandays
	captureStdout(t, func() {
		if err := runTaskAdd(taskAddCmd, []string{name}); err != nil {
			t.Fatalf("runTaskAdd(%q): %v", name, err)
		}
	})
}

func currentSession(t *testing.T) *session {
	t.Helper()
	s, err := openSession()
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

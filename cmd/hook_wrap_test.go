package cmd

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rnwolfe/triage/internal/hook"
	"github.com/rnwolfe/triage/internal/task"
)

func register(t *testing.T, reg *hook.Registry, pattern string, stage hook.Stage, fn hook.Handler) {
	t.Helper()
	if err := reg.Register(hook.Hook{
		Pattern: pattern,
		Stage:   stage,
		Name:    "test-" + string(stage),
		Source:  "test",
		Handler: fn,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestHookWrap_VersionFiresHook(t *testing.T) {
	configTestEnv(t)

	reg := &hook.Registry{}
	var called atomic.Int32
	register(t, reg, "version", hook.StagePreexec, func(_ context.Context, hc *hook.Context) (*hook.Context, error) {
		called.Add(1)
		return hc, nil
	})

	captureStdout(t, func() {
		if err := hook.WrapWith(reg, "version", runVersion)(versionCmd, nil); err != nil {
			t.Fatalf("wrapped runVersion: %v", err)
		}
	})
	if called.Load() != 1 {
		t.Errorf("hook called %d times, want 1", called.Load())
	}
}

func TestHookWrap_PreexecRewritesTaskAdd(t *testing.T) {
	configTestEnv(t)

	reg := &hook.Registry{}
	register(t, reg, "task.*", hook.StagePreexec, func(_ context.Context, hc *hook.Context) (*hook.Context, error) {
		if hc.Flags["due"] == "" {
			hc.Flags["due"] = "tomorrow"
		}
		hc.Flags["priority"] = "critical"
		hc.Args = []string{strings.ToUpper(hc.Args[0])}
		return hc, nil
	})

	var result atomic.Value
	register(t, reg, "task.add", hook.StagePostexec, func(_ context.Context, hc *hook.Context) (*hook.Context, error) {
		result.Store(hc.Result)
		return hc, nil
	})

	captureStdout(t, func() {
		if err := hook.WrapWith(reg, "task.add", runTaskAdd)(taskAddCmd, []string{"ship it"}); err != nil {
			t.Fatalf("wrapped runTaskAdd: %v", err)
		}
	})

	s := currentSession(t)
	got, err := s.tasks.Get(s.ws.Token, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "SHIP IT" || got.Priority != task.PriorityCritical {
		t.Errorf("task = %+v, want SHIP IT / Critical", got)
	}
	if d := got.DueDate.Format(task.DateLayout); d != "2025-03-11" {
		t.Errorf("due = %s, want 2025-03-11", d)
	}

	res, ok := result.Load().(map[string]any)
	if !ok {
		t.Fatalf("postexec result = %#v", result.Load())
	}
	if res["id"] != 1 || res["workspace"] != s.ws.Token {
		t.Errorf("result = %v", res)
	}
}

func TestHookWrap_PrevalidateBlocksRm(t *testing.T) {
	configTestEnv(t)
	seedTasks(t)

	reg := &hook.Registry{}
	register(t, reg, "task.rm", hook.StagePrevalidate, func(_ context.Context, hc *hook.Context) (*hook.Context, error) {
		return nil, errors.New("deletes are frozen")
	})

	err := hook.WrapWith(reg, "task.rm", runTaskRm)(taskRmCmd, []string{"1"})
	if err == nil || !strings.Contains(err.Error(), "deletes are frozen") {
		t.Fatalf("err = %v, want the hook's message", err)
	}

	s := currentSession(t)
	if _, err := s.tasks.Get(s.ws.Token, 1); err != nil {
		t.Errorf("task was removed despite the hook: %v", err)
	}
}

func TestMatchingCommands(t *testing.T) {
	if got := matchingCommands("task.*"); len(got) != 6 {
		t.Errorf("task.* matched %v", got)
	}
	if got := matchingCommands("*"); len(got) != len(hookCommands) {
		t.Errorf("* matched %d of %d", len(got), len(hookCommands))
	}
	if got := matchingCommands("todo.add"); len(got) != 0 {
		t.Errorf("todo.add matched %v", got)
	}
}

func TestRunHookList_Empty(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runHookList(hookListCmd, nil); err != nil {
			t.Fatalf("runHookList: %v", err)
		}
	})
	if !strings.Contains(out, "No hooks found") || !strings.Contains(out, hook.HooksDir()) {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunHookCreateThenList(t *testing.T) {
	configTestEnv(t)

	captureStdout(t, func() {
		if err := runHookCreate(hookCreateCmd, []string{"task.add", "notify"}); err != nil {
			t.Fatalf("runHookCreate: %v", err)
		}
	})

	out := captureStdout(t, func() {
		if err := runHookList(hookListCmd, nil); err != nil {
			t.Fatalf("runHookList: %v", err)
		}
	})
	if !strings.Contains(out, "task.add") || !strings.Contains(out, "notify") {
		t.Errorf("list output:\n%s", out)
	}

	if err := runHookCreate(hookCreateCmd, []string{"task.add", "sometime"}); err == nil {
		t.Error("expected error for unknown stage")
	}
}

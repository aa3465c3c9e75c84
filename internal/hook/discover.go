package hook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rnwolfe/triage/internal/config"
)

// UserHook is a hook script found in the hooks directory.
type UserHook struct {
	Path    string
	Pattern string
	Stage   Stage
	Name    string
}

// HooksDir returns the user hooks directory path.
func HooksDir() string {
	return filepath.Join(config.GetPaths().ConfigDir, "hooks")
}

// Discover returns every executable script in HooksDir named
// <command-pattern>.<stage>.<ext>, e.g. task.add.preexec.sh or *.notify.py.
// Other files are ignored. A missing directory yields no hooks.
func Discover() ([]UserHook, error) {
	dir := HooksDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading hooks dir: %w", err)
	}

	var hooks []UserHook
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		h, err := parseHookFilename(e.Name())
		if err != nil {
			continue
		}

		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}

		h.Path = path
		hooks = append(hooks, h)
	}

	return hooks, nil
}

// parseHookFilename splits <command-pattern>.<stage>.<ext>. The pattern may
// itself contain dots, so parsing runs right to left:
//
//	task.add.preexec.sh → pattern="task.add", stage="preexec"
//	task.*.notify.py    → pattern="task.*",   stage="notify"
//	*.postexec.sh       → pattern="*",        stage="postexec"
func parseHookFilename(name string) (UserHook, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	lastDot := strings.LastIndex(base, ".")
	if lastDot < 0 {
		return UserHook{}, fmt.Errorf("invalid hook filename: %s", name)
	}

	stage, err := parseStage(base[lastDot+1:])
	if err != nil {
		return UserHook{}, fmt.Errorf("invalid stage in %s: %w", name, err)
	}

	pattern := base[:lastDot]
	if pattern == "" {
		return UserHook{}, fmt.Errorf("empty pattern in %s", name)
	}

	return UserHook{Pattern: pattern, Stage: stage, Name: name}, nil
}

// ParseStageStr converts a stage string to a Stage constant.
func ParseStageStr(s string) (Stage, error) {
	return parseStage(s)
}

func parseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StagePrevalidate, StagePreexec, StagePostexec, StageNotify:
		return Stage(s), nil
	default:
		return "", fmt.Errorf("unknown stage %q (want prevalidate, preexec, postexec, or notify)", s)
	}
}

// RegisterUserHooks discovers user scripts and registers them with reg.
// It returns how many were registered.
func RegisterUserHooks(reg *Registry) (int, error) {
	hooks, err := Discover()
	if err != nil {
		return 0, err
	}

	for _, h := range hooks {
		mode := ModeFor(h.Stage)
		if err := reg.Register(Hook{
			Pattern: h.Pattern,
			Stage:   h.Stage,
			Mode:    mode,
			Name:    h.Name,
			Source:  "user",
			Handler: ExecHandler(h.Path, mode),
		}); err != nil {
			return 0, fmt.Errorf("registering hook %s: %w", h.Name, err)
		}
	}
	return len(hooks), nil
}

// CreateHookScript writes a starter shell script for pattern at stage and
// returns its path. Existing scripts are never overwritten.
func CreateHookScript(pattern string, stage Stage) (string, error) {
	if strings.ContainsAny(pattern, "/\\") {
		return "", fmt.Errorf("pattern %q must not contain path separators", pattern)
	}
	if strings.Contains(pattern, "..") {
		return "", fmt.Errorf("pattern %q must not contain path traversal", pattern)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return "", fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	dir := HooksDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating hooks dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s.sh", pattern, stage))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("hook already exists: %s", path)
	}

	script := fmt.Sprintf(`#!/bin/sh
# triage hook: %s at %s stage (%s mode)
# Created: %s
#
# Reads a JSON context on stdin:
# {
#   "command": "task.add",
#   "args": ["ship release notes"],
#   "flags": {"priority": "high", "due": "tomorrow"},
#   "result": {"id": 7, "workspace": "9f2c..."},
#   "timestamp": "2026-01-15T10:30:00Z"
# }
# "result" is only present from postexec on.

CONTEXT=$(cat)
`, pattern, stage, ModeFor(stage), time.Now().Format("2006-01-02"))

	if stage != StageNotify {
		script += `
# Transform hooks print the (possibly modified) context. A non-zero exit
# aborts the command with this script's stderr as the reason.
echo "$CONTEXT"
`
	}

	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", fmt.Errorf("writing hook script: %w", err)
	}
	return path, nil
}

// TestHook runs a hook script once against a sample task.add context and
// returns what it printed.
func TestHook(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("hook not found: %s", path)
	}
	if info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("hook not executable: %s (run: chmod +x %s)", path, path)
	}

	h, err := parseHookFilename(filepath.Base(path))
	if err != nil {
		return "", err
	}
	mode := ModeFor(h.Stage)
	timeout := DefaultTransformTimeout
	if mode == ModeNotify {
		timeout = DefaultNotifyTimeout
	}

	hc := NewContext("task.add", []string{"sample task"}, map[string]string{
		"priority": "high",
		"due":      "tomorrow",
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	result, err := ExecHandler(path, mode)(ctx, hc)
	if err != nil {
		return "", fmt.Errorf("hook execution failed: %w", err)
	}

	if mode == ModeNotify {
		return "notify hook ran (output is ignored)", nil
	}

	data, err := result.JSON()
	if err != nil {
		return "", fmt.Errorf("serializing result: %w", err)
	}
	return string(data), nil
}

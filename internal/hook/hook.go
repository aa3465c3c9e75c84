// Package hook runs user scripts around triage's mutating commands.
//
// Each wrapped command traverses four stages: prevalidate, preexec, postexec
// and notify. The first three are transform stages whose hooks may rewrite
// the invocation; notify hooks run concurrently after the command succeeds
// and cannot affect it. Nothing is built when no hooks are registered.
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Stage identifies when a hook runs in the pipeline.
type Stage string

const (
	StagePrevalidate Stage = "prevalidate"
	StagePreexec     Stage = "preexec"
	StagePostexec    Stage = "postexec"
	StageNotify      Stage = "notify"
)

// AllStages is the execution order for the pipeline.
var AllStages = []Stage{StagePrevalidate, StagePreexec, StagePostexec, StageNotify}

// Mode determines how a hook interacts with the pipeline.
type Mode string

const (
	ModeTransform Mode = "transform" // receives and returns modified Context
	ModeNotify    Mode = "notify"    // receives Context, no response expected
)

// ModeFor returns the mode hooks at stage run in.
func ModeFor(s Stage) Mode {
	if s == StageNotify {
		return ModeNotify
	}
	return ModeTransform
}

// Context is the JSON document passed to hook scripts on stdin.
type Context struct {
	Command   string            `json:"command"`
	Args      []string          `json:"args"`
	Flags     map[string]string `json:"flags"`
	Result    any               `json:"result,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// NewContext creates a Context for the given command invocation.
func NewContext(command string, args []string, flags map[string]string) *Context {
	if args == nil {
		args = []string{}
	}
	if flags == nil {
		flags = map[string]string{}
	}
	return &Context{
		Command:   command,
		Args:      args,
		Flags:     flags,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// JSON serializes the context for passing to hook executables.
func (c *Context) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// ParseContext deserializes a Context from JSON.
func ParseContext(data []byte) (*Context, error) {
	var hc Context
	if err := json.Unmarshal(data, &hc); err != nil {
		return nil, fmt.Errorf("parsing hook context: %w", err)
	}
	if hc.Args == nil {
		hc.Args = []string{}
	}
	if hc.Flags == nil {
		hc.Flags = map[string]string{}
	}
	return &hc, nil
}

// Hook defines a single hook registration.
type Hook struct {
	// Pattern is matched against the dotted command name ("task.add", "task.*", "*").
	Pattern string
	Stage   Stage
	Mode    Mode
	// Name orders hooks within a stage and identifies them in errors.
	Name string
	// Source identifies where the hook came from, e.g. "user".
	Source string
	// Handler executes the hook. For notify hooks the returned context is ignored.
	Handler Handler
	// Timeout bounds a single run. Zero means the mode's default.
	Timeout time.Duration
}

// timeout returns the effective per-run limit.
func (h Hook) timeout() time.Duration {
	if h.Timeout > 0 {
		return h.Timeout
	}
	if h.Mode == ModeNotify {
		return DefaultNotifyTimeout
	}
	return DefaultTransformTimeout
}

// Handler runs one hook. ctx carries the hook's deadline.
type Handler func(ctx context.Context, hc *Context) (*Context, error)

// DefaultTransformTimeout is the default timeout for transform hooks.
const DefaultTransformTimeout = 5 * time.Second

// DefaultNotifyTimeout is the default timeout for notify hooks.
const DefaultNotifyTimeout = 30 * time.Second

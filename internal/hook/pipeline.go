package hook

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RunE is the Cobra run signature the pipeline wraps.
type RunE func(cmd *cobra.Command, args []string) error

type contextKey struct{}

// Wrap wraps a Cobra RunE with the pipeline using DefaultRegistry.
//
//	var addCmd = &cobra.Command{RunE: hook.Wrap("task.add", runTaskAdd)}
func Wrap(command string, fn RunE) RunE {
	return WrapWith(DefaultRegistry, command, fn)
}

// WrapWith wraps a Cobra RunE using a specific registry.
func WrapWith(reg *Registry, command string, fn RunE) RunE {
	return func(cmd *cobra.Command, args []string) error {
		if reg.Count() == 0 || !reg.HasHooks(command) {
			return fn(cmd, args)
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}

		hc := NewContext(command, args, extractFlags(cmd))

		var err error
		for _, stage := range []Stage{StagePrevalidate, StagePreexec} {
			hc, err = runTransformStage(parent, reg, command, stage, hc)
			if err != nil {
				return fmt.Errorf("hook %s failed: %w", stage, err)
			}
		}
		if err := applyFlags(cmd, hc.Flags); err != nil {
			return fmt.Errorf("hook preexec failed: %w", err)
		}

		cmd.SetContext(context.WithValue(parent, contextKey{}, hc))
		if err := fn(cmd, hc.Args); err != nil {
			return err
		}

		hc, err = runTransformStage(parent, reg, command, StagePostexec, hc)
		if err != nil {
			return fmt.Errorf("hook postexec failed: %w", err)
		}

		runNotifyStage(parent, reg, command, hc)
		return nil
	}
}

// SetResult attaches v to the running command's hook context so postexec and
// notify hooks receive it. It is a no-op when the command has no hooks.
func SetResult(cmd *cobra.Command, v any) {
	if cmd == nil {
		return
	}
	ctx := cmd.Context()
	if ctx == nil {
		return
	}
	if hc, ok := ctx.Value(contextKey{}).(*Context); ok {
		hc.Result = v
	}
}

// runTransformStage runs the stage's transform hooks in name order, each
// receiving the previous hook's output.
func runTransformStage(parent context.Context, reg *Registry, command string, stage Stage, hc *Context) (*Context, error) {
	for _, h := range reg.Resolve(command, stage) {
		if h.Mode == ModeNotify {
			continue
		}
		ctx, cancel := context.WithTimeout(parent, h.timeout())
		result, err := h.Handler(ctx, hc)
		cancel()
		if err != nil {
			return hc, fmt.Errorf("hook %q (%s): %w", h.Name, stage, err)
		}
		if result != nil {
			hc = result
		}
	}
	return hc, nil
}

// runNotifyStage runs all notify hooks concurrently. Errors go to log.Printf
// since concurrent writes to styled output would interleave.
func runNotifyStage(parent context.Context, reg *Registry, command string, hc *Context) {
	hooks := reg.Resolve(command, StageNotify)
	if len(hooks) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, h := range hooks {
		wg.Add(1)
		go func(h Hook) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(parent, h.timeout())
			defer cancel()
			if _, err := h.Handler(ctx, hc); err != nil {
				log.Printf("notify hook %q error: %v", h.Name, err)
			}
		}(h)
	}
	wg.Wait()
}

// extractFlags extracts changed flag values from a Cobra command.
func extractFlags(cmd *cobra.Command) map[string]string {
	flags := make(map[string]string)
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			flags[f.Name] = f.Value.String()
		}
	})
	return flags
}

// applyFlags writes flag values a hook added or changed back onto the command.
// Flags a hook removed keep their parsed value.
func applyFlags(cmd *cobra.Command, flags map[string]string) error {
	for name, value := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("hook set unknown flag --%s", name)
		}
		if f.Changed && f.Value.String() == value {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("hook set --%s: %w", name, err)
		}
	}
	return nil
}

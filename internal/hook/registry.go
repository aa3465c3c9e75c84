package hook

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// Registry holds registered hooks and resolves which hooks apply to a command.
type Registry struct {
	mu    sync.RWMutex
	hooks []Hook
}

// DefaultRegistry is the registry Wrap uses.
var DefaultRegistry = &Registry{}

// Register validates and adds a hook.
func (r *Registry) Register(h Hook) error {
	if h.Handler == nil {
		return errors.New("hook has no handler")
	}
	if _, err := parseStage(string(h.Stage)); err != nil {
		return err
	}
	if _, err := filepath.Match(h.Pattern, ""); err != nil {
		return fmt.Errorf("bad pattern %q: %w", h.Pattern, err)
	}
	if h.Mode == "" {
		h.Mode = ModeFor(h.Stage)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
	return nil
}

// Resolve returns all hooks matching the command and stage, sorted by name.
func (r *Registry) Resolve(command string, stage Stage) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Hook
	for _, h := range r.hooks {
		if h.Stage == stage && matchPattern(h.Pattern, command) {
			matched = append(matched, h)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})
	return matched
}

// HasHooks reports whether any hook matches the command.
func (r *Registry) HasHooks(command string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.hooks {
		if matchPattern(h.Pattern, command) {
			return true
		}
	}
	return false
}

// All returns a copy of every registered hook, in registration order.
func (r *Registry) All() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Hook, len(r.hooks))
	copy(out, r.hooks)
	return out
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// matchPattern checks if a command matches a hook pattern.
//   - "task.add" matches only "task.add"
//   - "task.*"   matches "task.add", "task.rm", etc.
//   - "*"        matches everything
func matchPattern(pattern, command string) bool {
	matched, _ := filepath.Match(pattern, command)
	return matched
}

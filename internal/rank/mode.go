package rank

import "strings"

// Mode is the scoring regime chosen for a task.
type Mode int

const (
	// ModeStrategic scores importance first, with gentle deadline pressure.
	ModeStrategic Mode = iota
	// ModeUrgent scores deadline pressure first. Overdue tasks are always urgent.
	ModeUrgent
)

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeUrgent:
		return "urgent"
	case ModeStrategic:
		return "strategic"
	default:
		return "unknown"
	}
}

// MarshalText renders the mode by name in JSON and YAML output.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// SelectMode returns ModeUrgent when daysLeft is at most window, which
// includes every overdue task, and ModeStrategic otherwise.
func SelectMode(daysLeft, window int) Mode {
	if daysLeft < 0 || daysLeft <= window {
		return ModeUrgent
	}
	return ModeStrategic
}

// ParseMode accepts "urgent"/"u" and "strategic"/"s".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "urgent", "u":
		return ModeUrgent, true
	case "strategic", "s":
		return ModeStrategic, true
	default:
		return ModeStrategic, false
	}
}

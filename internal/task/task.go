package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority is the declared importance of a task, stored as its display label.
type Priority string

// Priority levels, lowest to highest.
const (
	PriorityOptional Priority = "Optional"
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Effort is the declared work intensity of a task, stored as its display label.
type Effort string

// Effort levels, lightest to heaviest.
const (
	EffortLow      Effort = "Low"
	EffortMedium   Effort = "Medium"
	EffortHigh     Effort = "High"
	EffortVeryHigh Effort = "Very High"
)

// DateLayout is the storage and display format for due dates.
const DateLayout = "2006-01-02"

// Task is a single tracked piece of work.
type Task struct {
	ID        int
	Workspace string
	Name      string
	Priority  Priority
	Effort    Effort
	Mandays   int
	DueDate   time.Time
	CreatedAt time.Time
}

// Priorities lists every priority from highest to lowest, the order used in flag help.
func Priorities() []Priority {
	return []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, PriorityOptional}
}

// Efforts lists every effort level from heaviest to lightest.
func Efforts() []Effort {
	return []Effort{EffortVeryHigh, EffortHigh, EffortMedium, EffortLow}
}

// ParsePriority validates and normalizes a priority string.
// Accepts full names and short aliases: opt, low, med, high, crit.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "optional", "opt", "o":
		return PriorityOptional, nil
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	case "critical", "crit", "c", "!":
		return PriorityCritical, nil
	default:
		return "", fmt.Errorf("invalid priority %q — valid values: optional (opt), low, medium (med), high, critical (crit)", s)
	}
}

// ParseEffort validates and normalizes an effort string.
// Accepts full names and short aliases: low, med, high, vh.
func ParseEffort(s string) (Effort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return EffortLow, nil
	case "medium", "med", "m":
		return EffortMedium, nil
	case "high", "h":
		return EffortHigh, nil
	case "very high", "very-high", "veryhigh", "vh":
		return EffortVeryHigh, nil
	default:
		return "", fmt.Errorf("invalid effort %q — valid values: low, medium (med), high, very-high (vh)", s)
	}
}

// PriorityIcon returns a colored icon for the priority.
func PriorityIcon(p Priority) string {
	switch p {
	case PriorityCritical:
		return "🔴"
	case PriorityHigh:
		return "🟠"
	case PriorityMedium:
		return "🟡"
	case PriorityLow:
		return "🟢"
	case PriorityOptional:
		return "🔵"
	default:
		return "⚪"
	}
}

// ParseDate parses a stored YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// addMonth moves d to the same day next month, clamped to that month's last
// day so Jan 31 becomes Feb 28 (or 29).
func addMonth(d time.Time) time.Time {
	first := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, d.Location())
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d.Day(), last), 0, 0, 0, 0, d.Location())
}

// ParseDueDate resolves user input into a civil due date relative to now.
// Accepts today, tomorrow (tom), next-week (nw), next-month (nm), +Nd offsets,
// YYYY-MM-DD, MM/DD/YYYY, and "Jan 2" (current year). The result is midnight
// UTC, matching how stored dates are read back.
func ParseDueDate(s string, now time.Time) (time.Time, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return time.Time{}, fmt.Errorf("due date is required")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch in {
	case "today":
		return today, nil
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), nil
	case "next-week", "nextweek", "nw":
		return today.AddDate(0, 0, 7), nil
	case "next-month", "nm":
		return addMonth(today), nil
	}

	if strings.HasPrefix(in, "+") && strings.HasSuffix(in, "d") {
		n, err := strconv.Atoi(in[1 : len(in)-1])
		if err == nil && n >= 0 {
			return today.AddDate(0, 0, n), nil
		}
	}

	for _, f := range []string{DateLayout, "01/02/2006"} {
		if t, err := time.Parse(f, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	for _, f := range []string{"Jan 2", "January 2"} {
		if t, err := time.Parse(f, strings.TrimSpace(s)); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid due date %q — use YYYY-MM-DD, today, tomorrow, next-week, or +Nd", s)
}

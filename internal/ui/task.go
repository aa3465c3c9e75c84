package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rnwolfe/triage/internal/rank"
)

// ModeBadge renders a compact label for a scoring regime.
func ModeBadge(m rank.Mode) string {
	if m == rank.ModeUrgent {
		return UrgentBadge.Render("URGENT")
	}
	return StrategicBadge.Render("STRATEGIC")
}

// DueLabel describes days remaining in words: "3d overdue", "today",
// "tomorrow", "in 12d".
func DueLabel(daysLeft int) string {
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("%dd overdue", -daysLeft)
	case daysLeft == 0:
		return "today"
	case daysLeft == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %dd", daysLeft)
	}
}

// StyledDue colors DueLabel by how close the deadline is.
func StyledDue(daysLeft int) string {
	label := DueLabel(daysLeft)
	switch {
	case daysLeft < 0:
		return Error.Bold(true).Render(IconOverdue + " " + label)
	case daysLeft <= 1:
		return Warning.Render(IconToday + " " + label)
	default:
		return Muted.Render(label)
	}
}

// FormatScore prints a score with at most two decimals and no trailing zeros.
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Truncate shortens s to width runes, ending in an ellipsis when cut.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

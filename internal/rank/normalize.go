package rank

import (
	"time"

	"github.com/rnwolfe/triage/internal/task"
)

// Inputs are the bounded numeric factors a scorer consumes.
type Inputs struct {
	Criticality  int // 1..5
	EffortFactor int // 1..4
	Mandays      int // >= 1
	DaysLeft     int // negative when overdue
}

// Criticality maps a priority to its ordinal weight.
// Unknown values count as Medium so stale or hand-edited rows still rank.
func Criticality(p task.Priority) int {
	switch p {
	case task.PriorityOptional:
		return 1
	case task.PriorityLow:
		return 2
	case task.PriorityMedium:
		return 3
	case task.PriorityHigh:
		return 4
	case task.PriorityCritical:
		return 5
	default:
		return 3
	}
}

// EffortFactor maps an effort level to its ordinal cost. Unknown values count as Medium.
func EffortFactor(e task.Effort) int {
	switch e {
	case task.EffortLow:
		return 1
	case task.EffortMedium:
		return 2
	case task.EffortHigh:
		return 3
	case task.EffortVeryHigh:
		return 4
	default:
		return 2
	}
}

// DaysLeft returns the number of calendar days from now's date to due's date.
// Time of day is ignored in both. The difference is taken between civil dates
// in UTC so a DST transition never turns a day into 23 or 25 hours.
func DaysLeft(due, now time.Time) int {
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	dueDay := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today).Hours() / 24)
}

// Normalize reduces a task to scorer inputs. It never fails.
func Normalize(t task.Task, now time.Time) Inputs {
	mandays := t.Mandays
	if mandays < 1 {
		mandays = 1
	}
	return Inputs{
		Criticality:  Criticality(t.Priority),
		EffortFactor: EffortFactor(t.Effort),
		Mandays:      mandays,
		DaysLeft:     DaysLeft(t.DueDate, now),
	}
}

package rank

import (
	"sort"
	"time"

	"github.com/rnwolfe/triage/internal/task"
)

// Ranked is a task annotated with the result of one evaluation.
type Ranked struct {
	Task      task.Task
	Inputs    Inputs
	Mode      Mode
	Breakdown Breakdown
}

// Score returns the task's final score.
func (r Ranked) Score() float64 { return r.Breakdown.Score }

// Engine scores and orders tasks. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	window    int
	urgent    Scorer
	strategic Scorer
}

// New creates an engine with the given constants.
func New(p Params) *Engine {
	return &Engine{
		window:    p.UrgentWindow,
		urgent:    UrgentScorer{P: p.Urgent},
		strategic: StrategicScorer{P: p.Strategic},
	}
}

// Default creates an engine with DefaultParams.
func Default() *Engine {
	return New(DefaultParams())
}

// Mode selects the regime for the given days remaining.
func (e *Engine) Mode(daysLeft int) Mode {
	return SelectMode(daysLeft, e.window)
}

// Scorer returns the scorer for a mode.
func (e *Engine) Scorer(m Mode) Scorer {
	if m == ModeUrgent {
		return e.urgent
	}
	return e.strategic
}

// Evaluate scores a single task as of now.
func (e *Engine) Evaluate(t task.Task, now time.Time) Ranked {
	in := Normalize(t, now)
	mode := e.Mode(in.DaysLeft)
	return Ranked{
		Task:      t,
		Inputs:    in,
		Mode:      mode,
		Breakdown: e.Scorer(mode).Score(in),
	}
}

// Rank scores every task against the same instant and returns them ordered
// by score, highest first. Equal scores keep their input order. The input
// slice is not modified.
func (e *Engine) Rank(tasks []task.Task, now time.Time) []Ranked {
	out := make([]Ranked, len(tasks))
	for i, t := range tasks {
		out[i] = e.Evaluate(t, now)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Breakdown.Score > out[j].Breakdown.Score
	})
	return out
}

// Top returns at most n of the highest-ranked tasks. n <= 0 returns all of them.
func (e *Engine) Top(tasks []task.Task, now time.Time, n int) []Ranked {
	ranked := e.Rank(tasks, now)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Filter returns the ranked entries in the given mode, preserving order.
func Filter(ranked []Ranked, m Mode) []Ranked {
	var out []Ranked
	for _, r := range ranked {
		if r.Mode == m {
			out = append(out, r)
		}
	}
	return out
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rnwolfe/triage/internal/rank"
	"github.com/rnwolfe/triage/internal/task"
	"github.com/rnwolfe/triage/internal/ui"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("invalid format %q — valid values: text, json, yaml", s)
	}
}

// rankedView is the machine-readable shape of one ranked task.
type rankedView struct {
	Rank      int            `json:"rank" yaml:"rank"`
	ID        int            `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Priority  string         `json:"priority" yaml:"priority"`
	Effort    string         `json:"effort" yaml:"effort"`
	Mandays   int            `json:"mandays" yaml:"mandays"`
	DueDate   string         `json:"due_date" yaml:"due_date"`
	DaysLeft  int            `json:"days_left" yaml:"days_left"`
	Mode      string         `json:"mode" yaml:"mode"`
	Score     float64        `json:"score" yaml:"score"`
	Breakdown rank.Breakdown `json:"breakdown" yaml:"breakdown"`
}

type listView struct {
	Workspace string       `json:"workspace" yaml:"workspace"`
	Date      string       `json:"date" yaml:"date"`
	Tasks     []rankedView `json:"tasks" yaml:"tasks"`
}

func newListView(s *session, ranked []rank.Ranked) listView {
	v := listView{
		Workspace: s.ws.Token,
		Date:      s.now.Format(task.DateLayout),
		Tasks:     make([]rankedView, 0, len(ranked)),
	}
	for i, r := range ranked {
		v.Tasks = append(v.Tasks, rankedView{
			Rank:      i + 1,
			ID:        r.Task.ID,
			Name:      r.Task.Name,
			Priority:  string(r.Task.Priority),
			Effort:    string(r.Task.Effort),
			Mandays:   r.Task.Mandays,
			DueDate:   r.Task.DueDate.Format(task.DateLayout),
			DaysLeft:  r.Inputs.DaysLeft,
			Mode:      r.Mode.String(),
			Score:     r.Score(),
			Breakdown: r.Breakdown,
		})
	}
	return v
}

func writeRanked(w io.Writer, format outputFormat, s *session, ranked []rank.Ranked) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newListView(s, ranked))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newListView(s, ranked)); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(ranked) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("  No tasks. Add one with: triage task add <name> -d <date>"))
		return nil
	}

	nameWidth := max(ui.TermWidth()-44, 16)
	for i, r := range ranked {
		fmt.Fprintf(w, "  %s %s %s %7s  %-*s  %s\n",
			ui.Muted.Render(fmt.Sprintf("%2d.", i+1)),
			ui.Muted.Render(fmt.Sprintf("#%-3d", r.Task.ID)),
			task.PriorityIcon(r.Task.Priority),
			ui.FormatScore(r.Score()),
			nameWidth, ui.Truncate(r.Task.Name, nameWidth),
			modeTag(r),
		)
	}
	return nil
}

func modeTag(r rank.Ranked) string {
	if r.Mode == rank.ModeUrgent {
		return ui.Error.Render("urgent") + " " + ui.StyledDue(r.Inputs.DaysLeft)
	}
	return ui.Info.Render("strategic") + " " + ui.StyledDue(r.Inputs.DaysLeft)
}

// cardMetaIndent aligns card metadata under the task name:
// "  " + "%2d." + " " + priority icon + " " = 9 columns.
const cardMetaIndent = "         "

func printTaskCard(r rank.Ranked, pos int) {
	t := r.Task
	fmt.Printf("  %s %s %s\n",
		ui.Muted.Render(fmt.Sprintf("%2d.", pos)),
		task.PriorityIcon(t.Priority),
		ui.Accent.Render(t.Name),
	)
	fmt.Printf("%s%s  %s  %s\n",
		cardMetaIndent,
		ui.Muted.Render(fmt.Sprintf("#%d", t.ID)),
		ui.ModeBadge(r.Mode),
		ui.Accent.Render(ui.FormatScore(r.Score())),
	)
	fmt.Printf("%s%s  %s\n",
		cardMetaIndent,
		ui.StyledDue(r.Inputs.DaysLeft),
		ui.Muted.Render(fmt.Sprintf("due %s %s %s priority %s %s effort %s %dd",
			t.DueDate.Format("Mon Jan 2"), ui.IconDot, t.Priority, ui.IconDot, t.Effort, ui.IconDot, r.Inputs.Mandays)),
	)
	fmt.Println()
}

// printExplain spells out every term of the score with the constants used.
func printExplain(r rank.Ranked, pos, total int, p rank.Params) {
	in, bd := r.Inputs, r.Breakdown
	f := ui.FormatScore

	ui.Header(fmt.Sprintf("#%d %s", r.Task.ID, r.Task.Name))
	fmt.Println()
	ui.Kv("Mode", fmt.Sprintf("%s  %s", ui.ModeBadge(r.Mode),
		ui.Muted.Render(fmt.Sprintf("urgent when due within %d days", p.UrgentWindow))))
	ui.Kv("Rank", fmt.Sprintf("%d of %d", pos, total))
	ui.Kv("Due", fmt.Sprintf("%s (%s)", r.Task.DueDate.Format(task.DateLayout), ui.DueLabel(in.DaysLeft)))
	ui.Kv("Inputs", fmt.Sprintf("criticality %d · effort %d · mandays %d", in.Criticality, in.EffortFactor, in.Mandays))
	fmt.Println()

	var base, urgency, penalty string
	if r.Mode == rank.ModeUrgent {
		u := p.Urgent
		base = fmt.Sprintf("%d × %s", in.Criticality, f(u.CriticalityWeight))
		switch d := in.DaysLeft; {
		case d < 0:
			urgency = fmt.Sprintf("%s + %s × %d days overdue", f(u.OverdueBase), f(u.OverduePerDay), -d)
		case d == 0:
			urgency = "due today"
		case d == 1:
			urgency = "due tomorrow"
		default:
			urgency = fmt.Sprintf("%s / (1 + %d)", f(u.DecayNumerator), d)
		}
		penalty = fmt.Sprintf("%d × %s + min(%d × %s, %s)",
			in.EffortFactor, f(u.EffortWeight), in.Mandays, f(u.MandaysWeight), f(u.MandaysCap))
	} else {
		st := p.Strategic
		base = fmt.Sprintf("%d × %s", in.Criticality, f(st.CriticalityWeight))
		urgency = fmt.Sprintf("%s / (1 + %d × %s)", f(st.UrgencyNumerator), in.DaysLeft, f(st.DecayRate))
		ew, mw := st.EffortWeight, st.MandaysWeight
		if in.Criticality >= st.ForgivenessThreshold {
			ew, mw = st.ForgivenEffortWeight, st.ForgivenMandaysWeight
		}
		penalty = fmt.Sprintf("%d × %s + %d × %s", in.EffortFactor, f(ew), in.Mandays, f(mw))
		if in.Criticality >= st.ForgivenessThreshold {
			penalty += ui.Muted.Render("  (forgiven: criticality ≥ " + fmt.Sprint(st.ForgivenessThreshold) + ")")
		}
	}

	ui.Kv("Base", fmt.Sprintf("%-8s %s", f(bd.Base), ui.Muted.Render(base)))
	ui.Kv("Urgency", fmt.Sprintf("%-8s %s", f(bd.Urgency), ui.Muted.Render(urgency)))
	ui.Kv("Penalty", fmt.Sprintf("%-8s %s", f(bd.Penalty), ui.Muted.Render(penalty)))

	score := ui.Accent.Render(f(bd.Score))
	if raw := rank.Round2(bd.Base + bd.Urgency - bd.Penalty); raw < 0 {
		score += ui.Muted.Render(fmt.Sprintf("  (%s clamped to 0)", f(raw)))
	}
	ui.Kv("Score", score)
	fmt.Println()
}

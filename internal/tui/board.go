package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/triage/internal/rank"
	"github.com/rnwolfe/triage/internal/task"
	"github.com/rnwolfe/triage/internal/ui"
)

// BoardAction is a change the user requested from the board. The caller
// applies actions after the program exits.
type BoardAction struct {
	Type string // "delete"
	ID   int
}

// Board is an interactive view over a ranked task list.
type Board struct {
	all      []rank.Ranked
	filtered []rank.Ranked
	cursor   int
	filter   string
	only     *rank.Mode
	filterOn bool
	explain  bool

	width  int
	height int

	Actions []BoardAction
}

// NewBoard creates a board over ranked, which must already be in rank order.
func NewBoard(ranked []rank.Ranked) *Board {
	b := &Board{all: append([]rank.Ranked(nil), ranked...), width: 80, height: 24}
	b.applyFilter()
	return b
}

// RunBoard shows the board and returns the actions the user queued.
func RunBoard(ranked []rank.Ranked) ([]BoardAction, error) {
	prog := tea.NewProgram(NewBoard(ranked), tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("task board: %w", err)
	}
	return result.(*Board).Actions, nil
}

func (b *Board) Init() tea.Cmd { return nil }

func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if b.filterOn {
			return b.handleFilterKey(msg)
		}
		return b.handleKey(msg)
	}
	return b, nil
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return b, tea.Quit

	case "j", "down":
		if b.cursor < len(b.filtered)-1 {
			b.cursor++
		}

	case "k", "up":
		if b.cursor > 0 {
			b.cursor--
		}

	case "g", "home":
		b.cursor = 0

	case "G", "end":
		if n := len(b.filtered); n > 0 {
			b.cursor = n - 1
		}

	case "e", "enter":
		b.explain = !b.explain

	case "tab":
		b.cycleMode()
		b.applyFilter()

	case "d":
		r, ok := b.Selected()
		if !ok {
			break
		}
		b.Actions = append(b.Actions, BoardAction{Type: "delete", ID: r.Task.ID})
		for i := range b.all {
			if b.all[i].Task.ID == r.Task.ID {
				b.all = append(b.all[:i], b.all[i+1:]...)
				break
			}
		}
		b.applyFilter()

	case "/":
		b.filterOn = true
		b.filter = ""
		b.applyFilter()
	}
	return b, nil
}

func (b *Board) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return b, tea.Quit
	case tea.KeyEsc:
		b.filterOn = false
		b.filter = ""
		b.applyFilter()
	case tea.KeyEnter:
		b.filterOn = false
	case tea.KeyBackspace:
		if r := []rune(b.filter); len(r) > 0 {
			b.filter = string(r[:len(r)-1])
			b.applyFilter()
		}
	case tea.KeySpace:
		b.filter += " "
		b.applyFilter()
	case tea.KeyRunes:
		b.filter += string(msg.Runes)
		b.applyFilter()
	}
	return b, nil
}

// cycleMode steps through all → urgent → strategic → all.
func (b *Board) cycleMode() {
	switch {
	case b.only == nil:
		m := rank.ModeUrgent
		b.only = &m
	case *b.only == rank.ModeUrgent:
		m := rank.ModeStrategic
		b.only = &m
	default:
		b.only = nil
	}
}

// applyFilter rebuilds the visible list. Rank order is kept; fuzzy matching
// only hides rows.
func (b *Board) applyFilter() {
	b.filtered = b.filtered[:0]
	for _, r := range b.all {
		if b.only != nil && r.Mode != *b.only {
			continue
		}
		if ok, _ := FuzzyMatch(b.filter, r.Task.Name); !ok {
			continue
		}
		b.filtered = append(b.filtered, r)
	}
	if b.cursor >= len(b.filtered) {
		b.cursor = max(len(b.filtered)-1, 0)
	}
}

// Selected returns the row under the cursor.
func (b *Board) Selected() (rank.Ranked, bool) {
	if len(b.filtered) == 0 {
		return rank.Ranked{}, false
	}
	return b.filtered[b.cursor], true
}

func (b *Board) View() string {
	var s strings.Builder

	header := ui.Title.Render("  " + ui.IconTask + " Tasks")
	if b.only != nil {
		header += "  " + ui.ModeBadge(*b.only)
	}
	if b.filter != "" {
		header += ui.Muted.Render(fmt.Sprintf("  filter: %q", b.filter))
	}
	s.WriteString(header + "\n\n")

	reserved := 8
	if b.explain {
		reserved += 7
	}
	vis := max(b.height-reserved, 3)
	offset := 0
	if b.cursor >= vis {
		offset = b.cursor - vis + 1
	}

	if len(b.filtered) == 0 {
		msg := "No tasks. Add one with: triage task add <name> -d <date>"
		if b.filter != "" || b.only != nil {
			msg = "No matches. Press esc to clear the filter or tab to change mode."
		}
		s.WriteString("  " + ui.Muted.Render(msg) + "\n")
	} else {
		end := min(offset+vis, len(b.filtered))
		for i := offset; i < end; i++ {
			s.WriteString(b.renderRow(i) + "\n")
		}
	}

	if b.explain {
		if r, ok := b.Selected(); ok {
			s.WriteString("\n" + renderExplain(r) + "\n")
		}
	}

	s.WriteString("\n")
	if b.filterOn {
		prompt := lipgloss.NewStyle().Foreground(ui.Ember).Bold(true).Render("/")
		s.WriteString("  " + prompt + " " + b.filter + blinkCursor() + "\n")
	} else {
		s.WriteString("\n")
	}

	urgent := len(rank.Filter(b.all, rank.ModeUrgent))
	s.WriteString(ui.Muted.Render(fmt.Sprintf("  %d/%d shown · %d urgent", len(b.filtered), len(b.all), urgent)) + "\n")

	help := "  j/k move · e explain · tab mode · d delete · / filter · q quit"
	if b.filterOn {
		help = "  esc clear · enter confirm"
	}
	s.WriteString(ui.Muted.Render(help) + "\n")

	return s.String()
}

func (b *Board) renderRow(i int) string {
	r := b.filtered[i]
	pointer := "  "
	nameStyle := lipgloss.NewStyle()
	if i == b.cursor {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		nameStyle = nameStyle.Foreground(ui.Ember).Bold(true)
	}

	nameWidth := max(b.width-48, 12)
	return fmt.Sprintf("  %s%s %s %s %s %s  %s",
		pointer,
		ui.Muted.Render(fmt.Sprintf("#%-3d", r.Task.ID)),
		task.PriorityIcon(r.Task.Priority),
		lipgloss.NewStyle().Width(7).Align(lipgloss.Right).Render(ui.FormatScore(r.Score())),
		modeGlyph(r.Mode),
		nameStyle.Render(ui.Truncate(r.Task.Name, nameWidth)),
		ui.StyledDue(r.Inputs.DaysLeft),
	)
}

func modeGlyph(m rank.Mode) string {
	if m == rank.ModeUrgent {
		return ui.Error.Render("U")
	}
	return ui.Info.Render("S")
}

func renderExplain(r rank.Ranked) string {
	bd := r.Breakdown
	lines := []string{
		fmt.Sprintf("%s  %s", ui.ModeBadge(r.Mode), ui.Accent.Render(r.Task.Name)),
		fmt.Sprintf("criticality %d · effort %d · mandays %d · %s",
			r.Inputs.Criticality, r.Inputs.EffortFactor, r.Inputs.Mandays, ui.DueLabel(r.Inputs.DaysLeft)),
		fmt.Sprintf("base %s + urgency %s − penalty %s = %s",
			ui.FormatScore(bd.Base), ui.FormatScore(bd.Urgency), ui.FormatScore(bd.Penalty),
			ui.Accent.Render(ui.FormatScore(bd.Score))),
	}
	return ui.Card.Render(strings.Join(lines, "\n"))
}

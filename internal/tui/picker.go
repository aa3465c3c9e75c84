package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rnwolfe/triage/internal/ui"
)

// Item is a row in a Picker.
type Item interface {
	// FilterValue is the text fuzzy matching runs against.
	FilterValue() string
	Title() string
	// Description is optional secondary text.
	Description() string
}

// Picker is a fuzzy-search single-choice list.
type Picker struct {
	title  string
	height int

	items    []Item
	filtered []scored
	query    string
	cursor   int
	offset   int
	chosen   Item
	canceled bool

	termHeight int
}

type scored struct {
	item  Item
	score int
}

// NewPicker creates a Picker showing at most height rows (0 means fit the terminal).
func NewPicker(title string, items []Item, height int) *Picker {
	p := &Picker{title: title, height: height, items: items, termHeight: 24}
	p.applyFilter()
	return p
}

// Pick shows a picker and returns the chosen item, or nil if the user canceled.
func Pick(title string, items []Item) (Item, error) {
	m, err := tea.NewProgram(NewPicker(title, items, 10), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	p := m.(*Picker)
	if p.canceled {
		return nil, nil
	}
	return p.chosen, nil
}

// IsTTY reports whether both stdin and stdout are terminals, the condition
// for running an interactive program.
func IsTTY() bool {
	for _, fd := range []uintptr{os.Stdin.Fd(), os.Stdout.Fd()} {
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return false
		}
	}
	return true
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.termHeight = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.canceled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.filtered) > 0 {
				p.chosen = p.filtered[p.cursor].item
			}
			return p, tea.Quit

		case tea.KeyUp, tea.KeyCtrlP:
			if p.cursor > 0 {
				p.cursor--
				p.offset = min(p.offset, p.cursor)
			}

		case tea.KeyDown, tea.KeyCtrlN:
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
				if vis := p.visibleHeight(); p.cursor >= p.offset+vis {
					p.offset = p.cursor - vis + 1
				}
			}

		case tea.KeyBackspace:
			if r := []rune(p.query); len(r) > 0 {
				p.query = string(r[:len(r)-1])
				p.applyFilter()
			}

		case tea.KeyRunes:
			p.query += string(msg.Runes)
			p.applyFilter()
		}
	}
	return p, nil
}

func (p *Picker) View() string {
	var b strings.Builder

	if p.title != "" {
		b.WriteString("  " + ui.Title.Render(p.title) + "\n\n")
	}

	prompt := lipgloss.NewStyle().Foreground(ui.Ember).Bold(true).Render("> ")
	b.WriteString("  " + prompt + p.query + blinkCursor() + "\n\n")

	if len(p.filtered) == 0 {
		b.WriteString("  " + ui.Muted.Render("No matches") + "\n")
	} else {
		end := min(p.offset+p.visibleHeight(), len(p.filtered))
		for i := p.offset; i < end; i++ {
			b.WriteString(p.renderItem(p.filtered[i].item, i == p.cursor) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(ui.Muted.Render(fmt.Sprintf("  %d/%d · ↑↓ navigate · enter select · esc cancel", len(p.filtered), len(p.items))) + "\n")
	return b.String()
}

func (p *Picker) visibleHeight() int {
	h := p.height
	if h <= 0 || h > p.termHeight-6 {
		h = p.termHeight - 6
	}
	return max(h, 3)
}

// applyFilter keeps input order for an empty query and best-match-first otherwise.
func (p *Picker) applyFilter() {
	p.filtered = p.filtered[:0]
	for _, item := range p.items {
		if ok, sc := FuzzyMatch(p.query, item.FilterValue()); ok {
			p.filtered = append(p.filtered, scored{item: item, score: sc})
		}
	}
	sort.SliceStable(p.filtered, func(i, j int) bool {
		return p.filtered[i].score > p.filtered[j].score
	})
	p.cursor = 0
	p.offset = 0
}

func (p *Picker) renderItem(item Item, selected bool) string {
	pointer := "  "
	titleStyle := lipgloss.NewStyle()
	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		titleStyle = titleStyle.Foreground(ui.Ember).Bold(true)
	}

	line := "  " + pointer + titleStyle.Render(item.Title())
	if desc := item.Description(); desc != "" {
		line += "  " + ui.Muted.Render(desc)
	}
	return line
}

func blinkCursor() string {
	return lipgloss.NewStyle().Foreground(ui.Ember).Render("▎")
}

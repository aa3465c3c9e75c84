package ui

import "github.com/charmbracelet/lipgloss"

// triage's palette: hot reds for deadlines, cool blues for the long game.
var (
	Ember    = lipgloss.Color("#FF6B35")
	Amber    = lipgloss.Color("#FFBF00")
	Ruby     = lipgloss.Color("#E0115F")
	Sapphire = lipgloss.Color("#0F52BA")
	Sky      = lipgloss.Color("#5DA9E9")
	Emerald  = lipgloss.Color("#50C878")
	Dim      = lipgloss.Color("#666666")
	Bright   = lipgloss.Color("#FFFFFF")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ember)

	Success = lipgloss.NewStyle().
		Foreground(Emerald)

	Error = lipgloss.NewStyle().
		Foreground(Ruby)

	Warning = lipgloss.NewStyle().
		Foreground(Amber)

	Info = lipgloss.NewStyle().
		Foreground(Sky)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Ember).
		Bold(true)

	// Badges for the two scoring regimes.
	UrgentBadge = lipgloss.NewStyle().
			Foreground(Bright).
			Background(Ruby).
			Padding(0, 1).
			Bold(true)

	StrategicBadge = lipgloss.NewStyle().
			Foreground(Bright).
			Background(Sapphire).
			Padding(0, 1).
			Bold(true)

	Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Ember).
		Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)
)

const (
	IconTriage  = "⚕ "
	IconTask    = "📋"
	IconUrgent  = "🔥"
	IconOverdue = "🔴"
	IconToday   = "⏰"
	IconKey     = "🔑"
	IconHook    = "🪝"
	IconWarn    = "⚠️ "
	IconError   = "✗ "
	IconOk      = "✓ "
	IconArrow   = "→"
	IconDot     = "·"
)

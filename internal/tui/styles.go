package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/store"
)

// Quadra palette. Accent hues line up with the four quadrants.
var (
	colorPrimary   = lipgloss.Color("#6C63FF") // time
	colorSecondary = lipgloss.Color("#2EC4B6") // mind
	colorAccent    = lipgloss.Color("#FF6B6B") // money
	colorHighlight = lipgloss.Color("#7AA2F7") // study

	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F39C12")
	colorError   = lipgloss.Color("#E74C3C")

	colorInk    = lipgloss.Color("#1A1B26")
	colorText   = lipgloss.Color("#C0CAF5")
	colorMuted  = lipgloss.Color("#666666")
	colorBorder = lipgloss.Color("#414868")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func strong(c lipgloss.Color) lipgloss.Style { return fg(c).Bold(true) }

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

func badge(bg lipgloss.Color) lipgloss.Style {
	return strong(colorInk).Background(bg).Padding(0, 1)
}

var (
	titleStyle     = strong(colorText)
	subtitleStyle  = fg(colorMuted)
	mutedStyle     = fg(colorMuted)
	accentStyle    = fg(colorAccent)
	highlightStyle = fg(colorHighlight)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError)
	insightStyle   = fg(colorSecondary).Italic(true)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorMuted).Padding(0, 1)

	activeTabStyle = strong(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle       = boxed(colorBorder)
	activePanelStyle = boxed(colorPrimary)

	// Countdown digits: idle, running, paused.
	timerStyle        = strong(colorPrimary).Align(lipgloss.Center)
	timerRunningStyle = strong(colorSuccess).Align(lipgloss.Center)
	timerPausedStyle  = strong(colorWarning).Align(lipgloss.Center)

	selectedItemStyle = strong(colorPrimary)
	normalItemStyle   = fg(colorText)
	doneItemStyle     = fg(colorMuted).Strikethrough(true)

	premiumBadgeStyle = badge(colorWarning)
	freeBadgeStyle    = fg(colorMuted).Padding(0, 1)

	todayCellStyle    = strong(colorSecondary)
	selectedCellStyle = badge(colorPrimary).Padding(0)
)

// tagStyle colors text with a subject's tag.
func tagStyle(c store.ColorTag) lipgloss.Style {
	return fg(lipgloss.Color(c.Hex()))
}

var eventColors = map[store.EventType]lipgloss.Color{
	store.EventClass:    colorHighlight,
	store.EventStudy:    colorSuccess,
	store.EventPersonal: colorSecondary,
	store.EventExam:     colorError,
}

func eventStyle(t store.EventType) lipgloss.Style {
	c, ok := eventColors[t]
	if !ok {
		c = colorMuted
	}
	return fg(c)
}

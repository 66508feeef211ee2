package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewStudy
	viewTime
	viewMoney
	viewMind
	viewSettings
)

var viewNames = []string{"Dashboard", "Study", "Time", "Money", "Mind", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// stateChangedMsg carries the document after a store update.
type stateChangedMsg struct {
	state store.UserState
}

type insightMsg struct {
	seq     uint64
	text    string
	current bool
}

// upgradePromptMsg asks the app to show the upgrade overlay.
type upgradePromptMsg struct {
	reason string
}

type upgradeDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// intentResult turns the error from a tracker intent into the message the
// app should see. Gate denials open the upgrade overlay instead of
// surfacing as errors.
func intentResult(err error, reason, ok string) tea.Cmd {
	switch {
	case err == nil:
		return statusCmd(ok)
	case errors.Is(err, tracker.ErrUpgradeRequired):
		return func() tea.Msg { return upgradePromptMsg{reason: reason} }
	default:
		return errorCmd(err)
	}
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: "Error: " + err.Error(), isError: true} }
}

func formatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func formatClock(t time.Time) string {
	return t.Format("15:04")
}

func formatSpan(start, end time.Time) string {
	return formatClock(start) + "–" + formatClock(end)
}

// parseDay reads YYYY-MM-DD in loc. An empty string means fallback.
func parseDay(s string, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, fallback.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("date must look like 2006-01-02")
	}
	return t, nil
}

// parseClock sets the HH:MM time of day on day.
func parseClock(s string, day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("time must look like 15:04")
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func parseMinutes(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("duration must be a positive number of minutes")
	}
	return time.Duration(n) * time.Minute, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount must be a number")
	}
	return d, nil
}

// huh validators

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func validDay(s string) error {
	_, err := parseDay(s, time.Now())
	return err
}

func validClock(s string) error {
	_, err := parseClock(s, time.Now())
	return err
}

func validMinutes(s string) error {
	_, err := parseMinutes(s)
	return err
}

func cursorPrefix(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

// progressBar draws frac of width as filled blocks.
func progressBar(frac float64, width int, fill lipgloss.Style) string {
	if width < 1 {
		return ""
	}
	frac = max(0, min(1, frac))
	n := int(frac*float64(width) + 0.5)
	return fill.Render(strings.Repeat("█", n)) + mutedStyle.Render(strings.Repeat("░", width-n))
}

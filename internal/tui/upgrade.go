package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/tracker"
)

var premiumPerks = []string{
	"Unlimited subjects",
	"Unlimited journal entries per day",
}

// upgradeModel is the modal shown when a free-plan limit is hit or the
// user asks to upgrade.
type upgradeModel struct {
	svc *tracker.Service

	active     bool
	processing bool
	reason     string
	err        error
}

func newUpgradeModel(svc *tracker.Service) upgradeModel {
	return upgradeModel{svc: svc}
}

func (u upgradeModel) open(reason string) upgradeModel {
	u.active = true
	u.processing = false
	u.reason = reason
	u.err = nil
	return u
}

func (u upgradeModel) update(msg tea.Msg) (upgradeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case upgradeDoneMsg:
		u.processing = false
		if msg.err != nil {
			u.err = msg.err
			return u, nil
		}
		u.active = false
		return u, statusCmd("Welcome to Premium")

	case tea.KeyMsg:
		if u.processing {
			return u, nil
		}
		switch {
		case key.Matches(msg, keys.Enter):
			u.processing = true
			u.err = nil
			return u, u.authorize()
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
			u.active = false
		}
	}
	return u, nil
}

func (u upgradeModel) authorize() tea.Cmd {
	svc := u.svc
	return func() tea.Msg {
		return upgradeDoneMsg{err: svc.Upgrade(context.Background())}
	}
}

func (u upgradeModel) view(w int) string {
	rows := []string{premiumBadgeStyle.Render("Go Premium"), ""}
	if u.reason != "" {
		rows = append(rows, warningStyle.Render(u.reason), "")
	}
	for _, p := range premiumPerks {
		rows = append(rows, successStyle.Render("  ✓ ")+p)
	}
	rows = append(rows, "")

	switch {
	case u.processing:
		rows = append(rows, highlightStyle.Render("  Processing payment…"))
	case u.err != nil:
		rows = append(rows, errorStyle.Render("  Payment failed: "+u.err.Error()), "",
			mutedStyle.Render("  enter: try again  esc: not now"))
	default:
		rows = append(rows, mutedStyle.Render("  enter: upgrade  esc: not now"))
	}

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, strings.Join(rows, "\n")))
}

// Package tui is the bubbletea front end. Views read state snapshots and
// call tracker intents; they never write to the store directly.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/quadra/internal/export"
	"github.com/sadopc/quadra/internal/insight"
	"github.com/sadopc/quadra/internal/store"
	"github.com/sadopc/quadra/internal/tracker"
)

var exportFormats = []string{export.FormatCSV, export.FormatJSON}

// App is the root Bubble Tea model.
type App struct {
	svc       *tracker.Service
	latest    *insight.Latest
	exportDir string
	info      []setting

	updates     chan store.UserState
	unsubscribe func()

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	study     studyModel
	timeView  timeModel
	money     moneyModel
	mind      mindModel
	settings  settingsModel
	upgrade   upgradeModel

	help      help.Model
	status    string
	statusErr bool
}

type Option func(*App)

// WithExportDir sets where exports are written. Defaults to the home
// directory.
func WithExportDir(dir string) Option {
	return func(a *App) { a.exportDir = dir }
}

// WithInfo adds a read-only row to the settings view.
func WithInfo(label, value string) Option {
	return func(a *App) { a.info = append(a.info, setting{Key: label, Value: value}) }
}

// NewApp builds the root model. A nil latest behaves like an unconfigured
// insight client.
func NewApp(svc *tracker.Service, latest *insight.Latest, opts ...Option) App {
	h := help.New()
	h.ShowAll = false

	if latest == nil {
		latest = insight.NewLatest(insight.NewClient(nil))
	}

	a := App{
		svc:        svc,
		latest:     latest,
		updates:    make(chan store.UserState, 1),
		activeView: viewDashboard,
		help:       h,
	}
	for _, o := range opts {
		o(&a)
	}
	if a.exportDir == "" {
		a.exportDir, _ = os.UserHomeDir()
	}

	a.dashboard = newDashboardModel(svc, latest)
	a.study = newStudyModel(svc)
	a.timeView = newTimeModel(svc)
	a.money = newMoneyModel(svc)
	a.mind = newMindModel(svc)
	a.settings = newSettingsModel(svc, a.info)
	a.upgrade = newUpgradeModel(svc)

	updates := a.updates
	a.unsubscribe = svc.Store().Subscribe(func(st store.UserState) {
		// Keep only the newest state if the UI has not caught up.
		for {
			select {
			case updates <- st:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	return a
}

// Close stops background work. Call it after the program exits.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.timeView.timer.close()
	a.latest.Stop()
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
		waitForState(a.updates),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForState(updates <-chan store.UserState) tea.Cmd {
	return func() tea.Msg {
		return stateChangedMsg{state: <-updates}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.study.setSize(a.width, contentHeight)
		a.timeView.setSize(a.width, contentHeight)
		a.money.setSize(a.width, contentHeight)
		a.mind.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.upgrade.active {
			a.upgrade, cmd = a.upgrade.update(msg)
			return a, cmd
		}

		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		for i, b := range keys.Views {
			if key.Matches(msg, b) {
				a.activeView = viewState(i)
				return a, nil
			}
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Upgrade):
			if !a.svc.State().IsPremium {
				a.upgrade = a.upgrade.open("")
			}
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case tickMsg:
		// The focus timer advances on every view.
		a.timeView.timer, cmd = a.timeView.timer.tick()
		return a, tea.Batch(tickCmd(), cmd)

	case stateChangedMsg:
		a.setState(msg.state)
		a.dashboard, cmd = a.dashboard.scheduleInsight()
		return a, tea.Batch(cmd, waitForState(a.updates))

	case insightMsg, insightDueMsg:
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case upgradePromptMsg:
		a.upgrade = a.upgrade.open(msg.reason)
		return a, nil

	case upgradeDoneMsg:
		a.upgrade, cmd = a.upgrade.update(msg)
		if msg.err == nil {
			a.setState(a.svc.State())
		}
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// setState pushes a snapshot to every view.
func (a *App) setState(st store.UserState) {
	a.dashboard.setState(st)
	a.study.setState(st)
	a.timeView.setState(st)
	a.money.setState(st)
	a.mind.setState(st)
	a.settings.setState(st)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewStudy:
		a.study, cmd = a.study.update(msg)
	case viewTime:
		a.timeView, cmd = a.timeView.update(msg)
	case viewMoney:
		a.money, cmd = a.money.update(msg)
	case viewMind:
		a.mind, cmd = a.mind.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewStudy:
		return a.study.formActive
	case viewTime:
		return a.timeView.formActive()
	case viewMoney:
		return a.money.formActive
	case viewMind:
		return a.mind.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewStudy:
		content = a.study.view()
	case viewTime:
		content = a.timeView.view()
	case viewMoney:
		content = a.money.view()
	case viewMind:
		content = a.mind.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	switch {
	case a.upgrade.active:
		content = a.upgrade.view(a.width - 4)
	case a.exportPicking:
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("quadra")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := a.timeView.timer.footer() + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export")
	labels := []string{"Expenses (CSV)", "Full backup (JSON)"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range labels {
		style := normalItemStyle
		if i == a.exportCursor {
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursorPrefix(i == a.exportCursor)+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  to "+a.exportDir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format string) tea.Cmd {
	state, dir, now := a.svc.State(), a.exportDir, a.svc.Now()
	return func() tea.Msg {
		path := filepath.Join(dir, export.DefaultName(format, now))
		if err := export.Write(format, state, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(app App) error {
	defer app.Close()
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

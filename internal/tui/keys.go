package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	// Timer
	Toggle    key.Binding
	Reset     key.Binding
	FocusMode key.Binding
	BreakMode key.Binding

	// Lists and forms
	New     key.Binding
	NewItem key.Binding
	Delete  key.Binding
	Budget  key.Binding
	Enter   key.Binding
	Back    key.Binding

	// Calendar
	Zoom       key.Binding
	PrevPeriod key.Binding
	NextPeriod key.Binding
	Today      key.Binding

	Upgrade key.Binding
	Export  key.Binding
	Refresh key.Binding

	// Views holds one jump key per view, in viewNames order.
	Views []key.Binding
	Tab   key.Binding
	Help  key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
}

func bind(label, desc string, ks ...string) key.Binding {
	return key.NewBinding(key.WithKeys(ks...), key.WithHelp(label, desc))
}

func viewBindings() []key.Binding {
	bs := make([]key.Binding, len(viewNames))
	for i, name := range viewNames {
		n := strconv.Itoa(i + 1)
		bs[i] = bind(n, strings.ToLower(name), n)
	}
	return bs
}

var keys = keyMap{
	Toggle:    bind("space", "start/pause", " "),
	Reset:     bind("r", "reset timer", "r"),
	FocusMode: bind("f", "focus mode", "f"),
	BreakMode: bind("b", "break mode", "b"),

	New:     bind("n", "new", "n"),
	NewItem: bind("a", "add assignment", "a"),
	Delete:  bind("d", "delete", "d"),
	Budget:  bind("B", "set budget", "B"),
	Enter:   bind("enter", "select", "enter"),
	Back:    bind("esc", "back", "esc"),

	Zoom:       bind("v", "day/week/month", "v"),
	PrevPeriod: bind("[", "previous", "["),
	NextPeriod: bind("]", "next", "]"),
	Today:      bind("t", "today", "t"),

	Upgrade: bind("u", "upgrade", "u"),
	Export:  bind("e", "export", "e"),
	Refresh: bind("ctrl+r", "new insight", "ctrl+r"),

	Views: viewBindings(),
	Tab:   bind("tab", "next view", "tab"),
	Help:  bind("?", "help", "?"),

	Up:    bind("↑/k", "up", "up", "k"),
	Down:  bind("↓/j", "down", "down", "j"),
	Left:  bind("←/h", "left", "left", "h"),
	Right: bind("→/l", "right", "right", "l"),
	Quit:  bind("q", "quit", "q", "ctrl+c"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.New, k.Toggle, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.FocusMode, k.BreakMode},
		{k.New, k.NewItem, k.Delete, k.Budget},
		{k.Zoom, k.PrevPeriod, k.NextPeriod, k.Today},
		k.Views,
		{k.Upgrade, k.Export, k.Refresh},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}

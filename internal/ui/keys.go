package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Tab        key.Binding
	Search     key.Binding
	Jump       key.Binding
	Tag        key.Binding
	NewSession key.Binding
	Delete     key.Binding
	Open       key.Binding
	Export     key.Binding
	Copy       key.Binding
	Yank       key.Binding
	UserOnly   key.Binding
	NextMatch  key.Binding
	PrevMatch  key.Binding
	GrowPane   key.Binding
	ShrinkPane key.Binding
	Refresh    key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter/search"),
		),
		Jump: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":N", "jump to index"),
		),
		Tag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tag session"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "new session"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete session"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "resume session"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export markdown"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy thread"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank selection"),
		),
		UserOnly: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "user messages only"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "prev match"),
		),
		GrowPane: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "grow list pane"),
		),
		ShrinkPane: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "shrink list pane"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.Tag, k.Open, k.Tab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Tab},
		{k.Search, k.Jump, k.NextMatch, k.PrevMatch, k.Refresh},
		{k.Tag, k.NewSession, k.Delete, k.Open, k.Export, k.Copy, k.Yank, k.UserOnly, k.Quit},
	}
}

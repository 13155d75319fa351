package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	PrevScope  key.Binding
	NextScope  key.Binding
	Switch     key.Binding
	YankToken  key.Binding
	Add        key.Binding
	Edit       key.Binding
	EditTags   key.Binding
	Delete     key.Binding
	Reorder    key.Binding
	Filter     key.Binding
	Sync       key.Binding
	Logout     key.Binding
	TagManager key.Binding
	ClearAll   key.Binding
	Theme      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		PrevScope: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "previous tag filter"),
		),
		NextScope: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "next tag filter"),
		),
		Switch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "switch account"),
		),
		YankToken: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank token"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add account"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit account"),
		),
		EditTags: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "edit tags"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reorder: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "reorder mode"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync active account"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		TagManager: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "manage tags"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		Theme: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "toggle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

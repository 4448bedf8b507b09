package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Items     key.Binding
	Addresses key.Binding
	Settings  key.Binding

	// Actions
	Select   key.Binding
	New      key.Binding
	Clear    key.Binding
	Delete   key.Binding
	Discount key.Binding
	Export   key.Binding
	EditFrom key.Binding
	EditTo   key.Binding
	ClearTo  key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Items:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "items")),
	Addresses: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "addresses")),
	Settings:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Clear:     key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new invoice")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Discount:  key.NewBinding(key.WithKeys("%"), key.WithHelp("%", "discount")),
	Export:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
	EditFrom:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "edit from")),
	EditTo:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "edit to")),
	ClearTo:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear to")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}

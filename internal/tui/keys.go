package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings for the table view.
type keyMap struct {
	// Navigation
	Prev    key.Binding
	Next    key.Binding
	Up      key.Binding
	Down    key.Binding
	Bigger  key.Binding
	Smaller key.Binding

	// Selection
	Toggle        key.Binding
	ToggleVisible key.Binding
	Bulk          key.Binding
	Reload        key.Binding

	// Overlay
	Submit key.Binding
	Cancel key.Binding

	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		Next:          key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Bigger:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more rows")),
		Smaller:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer rows")),
		Toggle:        key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select row")),
		ToggleVisible: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
		Bulk:          key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "select first N")),
		Reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close/cancel")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) tableHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Bigger, k.Smaller, k.Toggle, k.ToggleVisible, k.Bulk, k.Reload, k.Quit}
}

func (k keyMap) overlayHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

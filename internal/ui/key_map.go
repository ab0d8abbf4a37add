package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI, one group per view:
// the contact list, the confirm prompt, and the result screen.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	sync  key.Binding
	yes   key.Binding
	no    key.Binding
	retry key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		sync:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync")),
		yes:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		no:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "back")),
		retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.sync},
		{k.yes, k.no},
		{k.retry, k.quit},
	}
}

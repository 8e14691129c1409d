package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Action is what a key press asks the picker to do.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionTop
	ActionBottom
	ActionSelect
	ActionQuit
)

// KeyBinding maps a set of keys to an action.
type KeyBinding struct {
	keys        []string
	help        string
	description string
	action      Action
}

// Keys returns the key names of the binding.
func (kb KeyBinding) Keys() []string { return kb.keys }

// Help returns the short key label shown in the footer.
func (kb KeyBinding) Help() string { return kb.help }

// Description returns the description.
func (kb KeyBinding) Description() string { return kb.description }

// Matches returns true if the key message matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	for _, key := range kb.keys {
		if matchKey(key, msg) {
			return true
		}
	}
	return false
}

// KeyMap is an ordered list of bindings; the first match wins.
type KeyMap []KeyBinding

// DefaultKeyMap returns the picker's vim-like bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		{keys: []string{"up", "k"}, help: "↑/k", description: "up", action: ActionUp},
		{keys: []string{"down", "j"}, help: "↓/j", description: "down", action: ActionDown},
		{keys: []string{"home", "g"}, help: "g", description: "top", action: ActionTop},
		{keys: []string{"end", "G"}, help: "G", description: "bottom", action: ActionBottom},
		{keys: []string{"enter"}, help: "enter", description: "switch", action: ActionSelect},
		{keys: []string{"q", "esc", "ctrl+c"}, help: "q", description: "quit", action: ActionQuit},
	}
}

// Lookup returns the action bound to msg.
func (km KeyMap) Lookup(msg tea.KeyMsg) Action {
	for _, kb := range km {
		if kb.Matches(msg) {
			return kb.action
		}
	}
	return ActionNone
}

// matchKey checks if a key string matches a tea.KeyMsg.
func matchKey(key string, msg tea.KeyMsg) bool {
	switch key {
	case "enter":
		return msg.Type == tea.KeyEnter
	case "esc":
		return msg.Type == tea.KeyEsc
	case "up":
		return msg.Type == tea.KeyUp
	case "down":
		return msg.Type == tea.KeyDown
	case "home":
		return msg.Type == tea.KeyHome
	case "end":
		return msg.Type == tea.KeyEnd
	case "ctrl+c":
		return msg.Type == tea.KeyCtrlC
	default:
		// single runes are case sensitive: g and G differ
		return msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && string(msg.Runes) == key
	}
}

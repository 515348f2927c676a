// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the views react to.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// List navigation.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	// Ask view.
	Ask         key.Binding
	NewQuestion key.Binding
	Context     key.Binding

	// Documents view. Confirm and Deny answer the delete prompt.
	Delete  key.Binding
	Reload  key.Binding
	Confirm key.Binding
	Deny    key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: bind("q", "quit", "q", "ctrl+c"),
		Help: bind("?", "help", "?"),
		Back: bind("esc", "back", "esc"),

		Up:     bind("↑/k", "up", "up", "k"),
		Down:   bind("↓/j", "down", "down", "j"),
		Select: bind("enter", "select", "enter"),

		Ask:         bind("enter", "ask", "enter"),
		NewQuestion: bind("n", "new question", "n"),
		Context:     bind("c", "context", "c"),

		Delete:  bind("d", "delete", "d"),
		Reload:  bind("r", "reload", "r"),
		Confirm: bind("y", "confirm", "y", "Y"),
		Deny:    bind("n", "cancel", "n", "N", "esc"),
	}
}

// ShortHelp is shown when no view specific hints apply.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// AnswerHelp is shown while an answer is displayed.
func (k *KeyMap) AnswerHelp() []key.Binding {
	return []key.Binding{k.NewQuestion, k.Context, k.Back}
}

// DocumentsHelp is shown under the document list.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.Reload, k.Back}
}

// ConfirmHelp is shown while a delete is awaiting an answer.
func (k *KeyMap) ConfirmHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Deny}
}

// FullHelp groups every binding for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Ask, k.NewQuestion, k.Context},
		{k.Delete, k.Reload, k.Confirm, k.Deny},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches reports whether keyStr is one of binding's keys.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

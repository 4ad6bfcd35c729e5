// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI. The composer keeps focus
// while chatting, so chords rather than bare letters drive the actions.
type KeyMap struct {
	// Send submits the composed message.
	Send key.Binding

	// Retry re-submits input preserved by an authentication failure.
	Retry key.Binding

	// Attach stages a document on the next message.
	Attach key.Binding

	// Record transcribes a voice recording into the composer.
	Record key.Binding

	// NewSession rotates to a fresh conversation session.
	NewSession key.Binding

	// Cancel aborts the in-flight reply or closes an overlay.
	Cancel key.Binding

	// ScrollUp scrolls the transcript up.
	ScrollUp key.Binding

	// ScrollDown scrolls the transcript down.
	ScrollDown key.Binding

	// Quit exits the application.
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Retry: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "retry"),
		),
		Attach: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "attach"),
		),
		Record: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "record"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new session"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "pgup"),
			key.WithHelp("↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "pgdown"),
			key.WithHelp("↓", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ComposerHelp returns keybindings shown while composing.
func (k *KeyMap) ComposerHelp() []key.Binding {
	return []key.Binding{k.Send, k.Attach, k.Record, k.NewSession, k.Quit}
}

// StreamingHelp returns keybindings shown while a reply streams in.
func (k *KeyMap) StreamingHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Quit}
}

// RetryHelp returns keybindings shown after an authentication failure.
func (k *KeyMap) RetryHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Quit}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

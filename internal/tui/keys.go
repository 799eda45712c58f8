package tui

import "github.com/charmbracelet/bubbles/key"

// Key names handled directly by the feed.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
)

// KeyMap holds the feed's bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	LoadMore key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the feed's default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys(keyEnter), key.WithHelp("enter", "view post")),
		LoadMore: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Quit:     key.NewBinding(key.WithKeys(keyQuit, keyCtrlC), key.WithHelp("q", "quit")),
	}
}

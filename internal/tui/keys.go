package tui

import "github.com/charmbracelet/bubbles/key"

// ResultKeys are active while a suggestion is shown.
type ResultKeys struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Copy       key.Binding
	Commit     key.Binding
	Regenerate key.Binding
	Quit       key.Binding
}

var resultKeys = ResultKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Commit: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "use in git"),
	),
	Regenerate: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "regenerate"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// interruptKey cancels any stage.
var interruptKey = key.NewBinding(key.WithKeys("ctrl+c"))

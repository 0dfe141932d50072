package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Open       key.Binding
	Back       key.Binding
	Search     key.Binding
	Select     key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Move       key.Binding
	Delete     key.Binding
	Undo       key.Binding
	Edit       key.Binding
	AddFolder  key.Binding
	Save       key.Binding
	YankURL    key.Binding
	MarkRead   key.Binding
	MarkUnread key.Binding
	Sort       key.Binding
	Display    key.Binding
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
		Open: key.NewBinding(
			key.WithKeys("l", "right", "enter"),
			key.WithHelp("l/enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "esc", "backspace"),
			key.WithHelp("h/esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Select: key.NewBinding(
			key.WithKeys(" ", "v"),
			key.WithHelp("space", "select"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "drag up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "drag down"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to folder"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo delete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		AddFolder: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "new folder"),
		),
		Save: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "save a page"),
		),
		YankURL: key.NewBinding(
			key.WithKeys("Y", "y"),
			key.WithHelp("Y", "copy URL"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "mark read"),
		),
		MarkUnread: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "mark unread"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort and view"),
		),
		Display: key.NewBinding(
			key.WithKeys("V"),
			key.WithHelp("V", "toggle visual rows"),
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

// helpBindings lists the bindings of the help overlay in display order.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Back,
		k.Search, k.Select, k.MoveUp, k.MoveDown, k.Move,
		k.Delete, k.Undo, k.Edit, k.AddFolder, k.Save,
		k.YankURL, k.MarkRead, k.MarkUnread, k.Sort, k.Display,
		k.Help, k.Quit,
	}
}

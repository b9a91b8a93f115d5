package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings active while the search is closed. While the
// search is open every key goes to the search input.
type keyMap struct {
	Search    key.Binding
	CloseCard key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Recenter  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		CloseCard: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close card"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "zoom"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("←↓↑→", "pan"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		Recenter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "recenter"),
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

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Up, k.ZoomIn, k.Recenter, k.CloseCard, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.CloseCard},
		{k.Up, k.Down, k.Left, k.Right, k.ZoomIn, k.ZoomOut, k.Recenter},
		{k.Help, k.Quit},
	}
}

// searchKeys is the footer while the search is open
type searchKeys struct {
	Move   key.Binding
	Select key.Binding
	Close  key.Binding
}

func defaultSearchKeys() searchKeys {
	return searchKeys{
		Move:   key.NewBinding(key.WithKeys("up", "down", "tab"), key.WithHelp("↑↓", "move")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "zoom to")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp implements help.KeyMap
func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Select, k.Close}
}

// FullHelp implements help.KeyMap
func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

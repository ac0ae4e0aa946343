package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Open      key.Binding
	Refresh   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	Close    key.Binding
	Book     key.Binding
	NextDay  key.Binding
	PrevDay  key.Binding
	NextTime key.Binding
	PrevTime key.Binding
	Grow     key.Binding
	Shrink   key.Binding

	Done key.Binding
	Back key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Open:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Book:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "book")),
		NextDay:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next day")),
		PrevDay:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev day")),
		NextTime: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next time")),
		PrevTime: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev time")),
		Grow:     key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "grow")),
		Shrink:   key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "shrink")),

		Done: key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "done")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (k keyMap) gridHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Refresh, k.Quit}
}

func (k keyMap) popupHelp() []key.Binding {
	return []key.Binding{k.NextDay, k.PrevTime, k.NextTime, k.Book, k.Grow, k.Shrink, k.Close}
}

func (k keyMap) confirmationHelp() []key.Binding {
	return []key.Binding{k.Done, k.ForceQuit}
}

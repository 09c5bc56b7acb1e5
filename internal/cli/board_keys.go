package cli

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

type boardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	WeekBack key.Binding
	WeekFwd  key.Binding
	Today    key.Binding
	Cycle    key.Binding
	Rename   key.Binding
	EditTime key.Binding
	Add      key.Binding
	Delete   key.Binding
	History  key.Binding
	Quit     key.Binding

	Done    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Close   key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "habit")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "day")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		WeekBack: key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[]", "week")),
		WeekFwd:  key.NewBinding(key.WithKeys("]", "pgdown")),
		Today:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "today")),
		Cycle:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "mark")),
		Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		EditTime: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "time")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		History:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "year")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Done:    key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "done")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "delete")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "keep")),
		Close:   key.NewBinding(key.WithKeys("esc", "q", "y"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp returns the hints for the bottom bar in the given mode.
func (k boardKeyMap) ShortHelp(mode boardMode) []key.Binding {
	switch mode {
	case modeEditName, modeEditTime:
		return []key.Binding{k.Done}
	case modeConfirmDelete:
		return []key.Binding{k.Confirm, k.Cancel}
	case modeHistory:
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
			k.Close,
		}
	}
	return []key.Binding{
		k.Up, k.Left, k.WeekBack, k.Cycle, k.Today,
		k.Add, k.Rename, k.EditTime, k.History, k.Delete, k.Quit,
	}
}

// historyViewportKeyMap scrolls the heat map with arrows and page keys
// only, leaving letters free to close the overlay.
func historyViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

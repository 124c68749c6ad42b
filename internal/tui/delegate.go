package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts model.Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders one todo per line. It is rebuilt on every state
// change so it always sees the current pending sets.
type itemDelegate struct {
	theme   ui.Theme
	state   store.State
	spinner string
	width   int
}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.line(it.todo, index == m.Index()))
}

func (d itemDelegate) line(t model.Todo, selected bool) string {
	th := d.theme
	text := ui.Truncate(t.Title, max(d.width-12, 20))
	if t.Completed {
		text = th.Done.Render(text)
	}

	prefix := "  "
	if selected {
		prefix = th.Selected.Render(">") + " "
	}

	var status string
	switch {
	case d.state.Creating.Has(t.ID):
		status = " " + th.Pending.Render(d.spinner+" saving")
	case d.state.IsUpdating(t.ID):
		status = " " + th.Pending.Render(d.spinner+" updating")
	case d.state.IsDeleting(t.ID):
		status = " " + th.Pending.Render(d.spinner+" deleting")
	default:
		if f, ok := d.state.Failure(t.ID); ok {
			status = " " + th.Error.Render(th.SymFail+" "+string(f.Op)+" failed")
		}
	}
	return prefix + th.Box(t.Completed) + " " + text + status
}

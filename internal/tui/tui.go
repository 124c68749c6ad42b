// Package tui is the interactive Bubble Tea front end. It renders the store's
// state and turns key presses into events and action-creator calls.
package tui

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune the program.
type Options struct {
	Filter store.Filter
	Plain  bool // ASCII symbols, no colour

	// NoFetch skips the initial fetch; tests seed the store instead.
	NoFetch bool
}

type mode int

const (
	browsing mode = iota
	adding
	editing
)

// stateChangedMsg is sent after the store has changed.
type stateChangedMsg struct{}

// Model is the Bubble Tea model.
type Model struct {
	ctx     context.Context
	store   *store.Store
	actions *actions.Creators
	changes <-chan struct{}
	opts    Options

	state  store.State
	filter store.Filter
	theme  ui.Theme

	list    list.Model
	input   textinput.Model
	spinner spinner.Model
	keys    keyMap

	mode     mode
	editID   model.ID
	inputErr string

	width, height int
}

// New builds the model and subscribes it to st.
func New(ctx context.Context, st *store.Store, ac *actions.Creators, opts Options) Model {
	if opts.Filter == "" {
		opts.Filter = store.FilterAll
	}
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowTitle(false)
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full
	l.KeyMap.Quit = keys.Quit

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:     ctx,
		store:   st,
		actions: ac,
		changes: st.Subscribe(),
		opts:    opts,
		filter:  opts.Filter,
		list:    l,
		input:   ti,
		spinner: sp,
		keys:    keys,
		width:   80,
		height:  24,
	}
	m.resize()
	m.sync()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, st *store.Store, ac *actions.Creators, opts Options) error {
	p := tea.NewProgram(New(ctx, st, ac, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, waitForChange(m.changes)}
	if !m.opts.NoFetch {
		ac, ctx := m.actions, m.ctx
		cmds = append(cmds, func() tea.Msg {
			ac.FetchTodos(ctx)
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		m.sync()
		return m, waitForChange(m.changes)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshDelegate()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.mode != browsing {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Add):
		m.mode = adding
		m.inputErr = ""
		m.input.SetValue("")
		m.input.Placeholder = "What needs to be done?"
		m.resize()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok || m.state.IsPending(t.ID) {
			return m, nil
		}
		m.mode = editing
		m.editID = t.ID
		m.inputErr = ""
		m.input.SetValue(html.UnescapeString(t.Title))
		m.input.CursorEnd()
		m.input.Placeholder = "Edit todo..."
		m.resize()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok && !m.state.IsPending(t.ID) {
			next := model.CompletedPatch(!t.Completed).Apply(t)
			m.actions.UpdateTodo(m.ctx, t.ID, model.FullPatch(next))
			m.sync()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok && !m.state.IsPending(t.ID) {
			m.actions.DeleteTodo(m.ctx, t.ID)
			m.sync()
		}
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.store.Dispatch(store.ToggleTheme{})
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.All):
		return m.setFilter(store.FilterAll), nil
	case key.Matches(msg, m.keys.Active):
		return m.setFilter(store.FilterActive), nil
	case key.Matches(msg, m.keys.Completed):
		return m.setFilter(store.FilterCompleted), nil

	case key.Matches(msg, m.keys.ToggleAll):
		visible := store.Visible(m.state.Todos, m.filter)
		if len(visible) == 0 || m.state.Loading {
			return m, nil
		}
		m.store.Dispatch(store.ToggleAll{Completed: !allCompleted(visible)})
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.ClearDone):
		m.store.Dispatch(store.RemoveCompletedItems{})
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.actions.ClearError()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.actions.FetchTodos(m.ctx)
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		title, err := model.NormalizeTitle(m.input.Value())
		if err != nil {
			m.inputErr = "Title must be at least 2 characters"
			return m, nil
		}
		if m.mode == adding {
			m.actions.CreateTodo(m.ctx, title)
		} else if t, ok := m.state.Find(m.editID); ok && title != t.Title {
			next := model.TitlePatch(title).Apply(t)
			m.actions.UpdateTodo(m.ctx, t.ID, model.FullPatch(next))
		}
		m.closeInput()
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = browsing
	m.editID = model.ID{}
	m.inputErr = ""
	m.input.SetValue("")
	m.input.Blur()
	m.resize()
}

func (m Model) setFilter(f store.Filter) Model {
	m.filter = f
	m.sync()
	m.list.Select(0)
	return m
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	// the list may lag behind the store by one signal
	return m.state.Find(it.todo.ID)
}

// sync copies the latest snapshot into the view.
func (m *Model) sync() {
	m.state = m.store.Snapshot()
	m.theme = ui.For(m.state.Theme, m.opts.Plain)

	visible := store.Visible(m.state.Todos, m.filter)
	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = listItem{todo: t}
	}
	m.list.SetItems(items)
	m.list.Styles.HelpStyle = m.theme.Help
	m.list.Styles.PaginationStyle = m.theme.Help
	m.refreshDelegate()
}

func (m *Model) refreshDelegate() {
	m.list.SetDelegate(itemDelegate{
		theme:   m.theme,
		state:   m.state,
		spinner: m.spinner.View(),
		width:   m.width,
	})
}

func (m *Model) resize() {
	// border, header, banner and help lines
	chrome := 8
	if m.mode != browsing {
		chrome += 4
	}
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func allCompleted(todos []model.Todo) bool {
	for _, t := range todos {
		if !t.Completed {
			return false
		}
	}
	return true
}

func (m Model) View() string {
	th := m.theme
	done, pending := store.Counts(m.state.Todos)

	lines := []string{
		th.Header(done, pending) + "   " + m.filterTabs() + "   " + th.Muted.Render(string(m.state.Theme)),
		th.Muted.Render(ui.ProgressBar(done, done+pending, 28)),
	}
	if m.state.Loading {
		lines = append(lines, th.Pending.Render(m.spinner.View()+" Loading todos..."))
	}
	if m.state.IsCreating() {
		lines = append(lines, th.Pending.Render(m.spinner.View()+" Saving new todo..."))
	}
	if m.state.Error != "" {
		lines = append(lines, th.Error.Render("Error: "+m.state.Error)+" "+th.Help.Render("(x to dismiss)"))
	}
	lines = append(lines, "", m.list.View())

	if m.mode != browsing {
		title := "Add todo"
		if m.mode == editing {
			title = "Edit todo"
		}
		if m.inputErr != "" {
			title += "  " + th.Error.Render(m.inputErr)
		}
		box := lipgloss.NewStyle().
			Border(th.Border).
			BorderForeground(th.BorderColor).
			Padding(0, 1).
			Render(title + "\n" + m.input.View())
		lines = append(lines, box)
	}
	return th.Panel(lines)
}

func (m Model) filterTabs() string {
	tabs := make([]string, 0, 3)
	for _, f := range []store.Filter{store.FilterAll, store.FilterActive, store.FilterCompleted} {
		name := string(f)
		if f == m.filter {
			name = m.theme.Accent.Render("[" + name + "]")
		} else {
			name = m.theme.Muted.Render(name)
		}
		tabs = append(tabs, name)
	}
	return strings.Join(tabs, " ")
}

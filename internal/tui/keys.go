package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add, Edit, Toggle, Delete   key.Binding
	Theme, ToggleAll, ClearDone key.Binding
	All, Active, Completed      key.Binding
	Dismiss, Refresh, Quit      key.Binding
	Submit, Cancel              key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		ToggleAll: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "toggle all")),
		ClearDone: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		All:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Active:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		Completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refetch")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:    key.NewBinding(key.WithKeys("enter")),
		Cancel:    key.NewBinding(key.WithKeys("esc")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Theme}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{
		k.Add, k.Edit, k.Toggle, k.Delete, k.Theme,
		k.All, k.Active, k.Completed,
		k.ToggleAll, k.ClearDone, k.Dismiss, k.Refresh,
	}
}

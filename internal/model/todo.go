// Package model holds the domain types shared by the store, the API client
// and the renderers.
package model

import (
	"fmt"
	"strings"
)

// DefaultUserID is the owner attached to todos created by this client.
const DefaultUserID = 1

// Todo is the domain model for a todo entry.
type Todo struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId,omitempty"`
}

// Patch is a partial set of Todo fields. Nil fields are left untouched.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	UserID    *int    `json:"userId,omitempty"`
}

// TitlePatch changes only the title.
func TitlePatch(title string) Patch { return Patch{Title: &title} }

// CompletedPatch changes only the completed flag.
func CompletedPatch(completed bool) Patch { return Patch{Completed: &completed} }

// FullPatch carries every field of t. The server replaces the resource on
// PUT, so callers send the full todo with their change applied.
func FullPatch(t Todo) Patch {
	title, completed, userID := t.Title, t.Completed, t.UserID
	return Patch{Title: &title, Completed: &completed, UserID: &userID}
}

// Apply returns t with the non-nil fields of p written over it.
func (p Patch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.UserID != nil {
		t.UserID = *p.UserID
	}
	return t
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil && p.UserID == nil
}

// Theme is the colour scheme of the UI.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

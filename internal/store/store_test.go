package store

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestStoreSerializesDispatch(t *testing.T) {
	s := New(Initial(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(AddItem{ID: model.StringID(fmt.Sprintf("id-%d", i)), Title: "x"})
		}(i)
	}
	wg.Wait()

	if got := len(s.Snapshot().Todos); got != 50 {
		t.Errorf("got %d todos, want 50", got)
	}
}

func TestStoreSubscribeCoalesces(t *testing.T) {
	s := New(Initial(), nil)
	ch := s.Subscribe()

	s.Dispatch(ToggleTheme{})
	s.Dispatch(ToggleTheme{})
	s.Dispatch(ToggleTheme{})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal")
	}
	select {
	case <-ch:
		t.Fatal("signals should coalesce into one")
	default:
	}
	if s.Snapshot().Theme != model.ThemeDark {
		t.Errorf("theme = %q after three toggles", s.Snapshot().Theme)
	}
}

func TestStorePanicsOnUnknownEventAndStaysUsable(t *testing.T) {
	s := New(Initial(), nil)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Dispatch(nil) should panic")
			}
		}()
		s.Dispatch(nil)
	}()

	// the lock must have been released
	s.Dispatch(ToggleTheme{})
	if s.Snapshot().Theme != model.ThemeDark {
		t.Error("store should keep working after a recovered panic")
	}
}

func TestStoreLogsTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	s := New(Initial(), logger)

	s.Dispatch(FetchTodosError{Message: "Network error"})

	out := buf.String()
	if !strings.Contains(out, "FetchTodosError") || !strings.Contains(out, "Network error") {
		t.Errorf("log output missing transition details: %q", out)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		route   string
		want    Filter
		wantErr bool
	}{
		{route: "/", want: FilterAll},
		{route: "", want: FilterAll},
		{route: "/active", want: FilterActive},
		{route: "completed", want: FilterCompleted},
		{route: "/Completed/", want: FilterCompleted},
		{route: "/archived", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.route)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilter(%q) error = %v, wantErr %v", tt.route, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tt.route, got, tt.want)
		}
	}
}

func TestVisibleIsDerived(t *testing.T) {
	todos := []model.Todo{todo(1, "open", false), todo(2, "done", true)}
	f, err := ParseFilter("/active")
	if err != nil {
		t.Fatal(err)
	}

	got := Visible(todos, f)
	if len(got) != 1 || got[0].Title != "open" {
		t.Errorf("Visible(active) = %+v", got)
	}
	if got := Visible(todos, FilterCompleted); len(got) != 1 || got[0].Title != "done" {
		t.Errorf("Visible(completed) = %+v", got)
	}
	if got := Visible(todos, FilterAll); len(got) != 2 {
		t.Errorf("Visible(all) returned %d todos", len(got))
	}
	if len(todos) != 2 || todos[1].Title != "done" {
		t.Error("Visible modified its input")
	}

	done, pending := Counts(todos)
	if done != 1 || pending != 1 {
		t.Errorf("Counts = %d, %d", done, pending)
	}
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/model"
)

func seed() []model.Todo {
	return []model.Todo{
		{ID: model.PermanentID(1), Title: "Buy milk", UserID: 1},
		{ID: model.PermanentID(2), Title: "Walk dog", Completed: true, UserID: 1},
	}
}

type result struct {
	code           int
	stdout, stderr string
}

func run(t *testing.T, svc api.Service, opt Options, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	opt.Service = svc
	opt.Stdout, opt.Stderr = &out, &errOut
	code := Run(context.Background(), args, opt)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestRunUsage(t *testing.T) {
	svc := api.NewFixture(nil)
	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"no args", nil, 2, "Usage:"},
		{"help", []string{"help"}, 0, "Subcommands:"},
		{"unknown", []string{"frobnicate"}, 2, "unknown subcommand: frobnicate"},
		{"add without title", []string{"add"}, 2, "usage: tada add"},
		{"add short title", []string{"add", "x"}, 2, "at least 2 characters"},
		{"done without id", []string{"done"}, 2, "usage: tada done"},
		{"edit without title", []string{"edit", "1"}, 2, "usage: tada edit"},
		{"rm extra args", []string{"rm", "1", "2"}, 2, "usage: tada rm"},
		{"ls bad filter", []string{"ls", "someday"}, 2, "unknown filter"},
		{"tui without terminal", []string{"tui"}, 1, "not a terminal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, svc, Options{}, tt.args...)
			if res.code != tt.code {
				t.Errorf("code = %d, want %d", res.code, tt.code)
			}
			if !strings.Contains(res.stdout+res.stderr, tt.want) {
				t.Errorf("output does not contain %q:\nstdout: %s\nstderr: %s", tt.want, res.stdout, res.stderr)
			}
		})
	}
}

func TestList(t *testing.T) {
	svc := api.NewFixture(seed())

	res := run(t, svc, Options{}, "ls")
	if res.code != 0 {
		t.Fatalf("code = %d, stderr = %s", res.code, res.stderr)
	}
	for _, want := range []string{"Todos  x 1  - 1  Total 2", "#1 [ ] Buy milk", "#2 [x] Walk dog", " 50%"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("ls output missing %q:\n%s", want, res.stdout)
		}
	}

	res = run(t, svc, Options{}, "ls", "/active")
	if strings.Contains(res.stdout, "Walk dog") || !strings.Contains(res.stdout, "Buy milk") {
		t.Errorf("active filter output:\n%s", res.stdout)
	}

	res = run(t, svc, Options{Group: true}, "ls")
	pending, done := strings.Index(res.stdout, "Pending"), strings.Index(res.stdout, "Done")
	if pending < 0 || done < pending {
		t.Errorf("grouped output:\n%s", res.stdout)
	}
}

func TestListFetchFailure(t *testing.T) {
	svc := api.NewFixture(seed())
	svc.Fail = func(op string, _ model.ID) error { return errors.New("Network error") }

	res := run(t, svc, Options{}, "ls")
	if res.code != 1 || !strings.Contains(res.stderr, "fetch: Network error") {
		t.Errorf("code = %d, stderr = %q", res.code, res.stderr)
	}
}

func TestAddToggleEditRemove(t *testing.T) {
	svc := api.NewFixture(seed())

	res := run(t, svc, Options{}, "add", "Bake", "<bread>")
	if res.code != 0 || !strings.Contains(res.stdout, "added #3 Bake <bread>") {
		t.Fatalf("add: code=%d out=%q err=%q", res.code, res.stdout, res.stderr)
	}

	res = run(t, svc, Options{}, "done", "3")
	if res.code != 0 || !strings.Contains(res.stdout, "completed #3") {
		t.Fatalf("done: code=%d out=%q err=%q", res.code, res.stdout, res.stderr)
	}
	res = run(t, svc, Options{}, "done", "2")
	if !strings.Contains(res.stdout, "reopened #2") {
		t.Errorf("done 2: %q", res.stdout)
	}

	res = run(t, svc, Options{}, "edit", "1", "Buy", "oat", "milk")
	if res.code != 0 {
		t.Fatalf("edit: code=%d err=%q", res.code, res.stderr)
	}

	res = run(t, svc, Options{}, "rm", "2")
	if res.code != 0 || !strings.Contains(res.stdout, "removed #2") {
		t.Fatalf("rm: code=%d out=%q err=%q", res.code, res.stdout, res.stderr)
	}

	todos, _ := svc.FetchAll(context.Background())
	want := []model.Todo{
		{ID: model.PermanentID(1), Title: "Buy oat milk", UserID: 1},
		{ID: model.PermanentID(3), Title: "Bake &lt;bread&gt;", Completed: true, UserID: 1},
	}
	if len(todos) != len(want) {
		t.Fatalf("todos = %+v", todos)
	}
	for i := range want {
		if todos[i] != want[i] {
			t.Errorf("todo %d = %+v, want %+v", i, todos[i], want[i])
		}
	}
}

func TestUnknownID(t *testing.T) {
	svc := api.NewFixture(seed())
	for _, args := range [][]string{{"done", "42"}, {"edit", "42", "new title"}, {"rm", "temp-x"}} {
		res := run(t, svc, Options{}, args...)
		if res.code != 2 || !strings.Contains(res.stderr, "no todo with id") {
			t.Errorf("%v: code=%d stderr=%q", args, res.code, res.stderr)
		}
	}
}

func TestOperationFailureExitsOne(t *testing.T) {
	svc := api.NewFixture(seed())
	svc.Fail = func(op string, _ model.ID) error {
		if op == "delete" {
			return api.ErrDelete
		}
		return nil
	}
	res := run(t, svc, Options{}, "rm", "1")
	if res.code != 1 || !strings.Contains(res.stderr, "rm: Failed to delete todo") {
		t.Errorf("code=%d stderr=%q", res.code, res.stderr)
	}
	if todos, _ := svc.FetchAll(context.Background()); len(todos) != 2 {
		t.Error("failed delete must keep the todo")
	}
}

func TestCreateUsesConfiguredUser(t *testing.T) {
	svc := api.NewFixture(nil)
	cfg := config.Default()
	cfg.UserID = 7
	if res := run(t, svc, Options{Config: cfg}, "add", "Read book"); res.code != 0 {
		t.Fatalf("add: %q", res.stderr)
	}
	todos, _ := svc.FetchAll(context.Background())
	if len(todos) != 1 || todos[0].UserID != 7 {
		t.Errorf("todos = %+v", todos)
	}
}

func TestNewServiceFromFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"title":"a"},{"id":2,"title":"b"},{"id":3,"title":"c"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Fixture = path
	cfg.FetchLimit = 2

	svc, err := NewService(cfg, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	todos, _ := svc.FetchAll(context.Background())
	if len(todos) != 2 {
		t.Errorf("limit not applied: %d todos", len(todos))
	}

	cfg.Fixture = filepath.Join(t.TempDir(), "missing.json")
	if _, err := NewService(cfg, nil); err == nil {
		t.Error("missing fixture should fail")
	}

	cfg.Fixture = ""
	if svc, err := NewService(cfg, nil); err != nil {
		t.Errorf("http client: %v", err)
	} else if _, ok := svc.(*api.Client); !ok {
		t.Errorf("got %T, want *api.Client", svc)
	}
}

package cli

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Config  *config.Config
	Logger  *log.Logger
	Service api.Service // built from Config when nil

	Stdout, Stderr io.Writer

	Group       bool // list grouped by pending/done
	Plain       bool // no colour, ASCII symbols
	Interactive bool // stdout is a terminal
}

type runner struct {
	ctx     context.Context
	opt     Options
	store   *store.Store
	actions *actions.Creators
	theme   ui.Theme
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Config == nil {
		opt.Config = config.Default()
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	if opt.Stdout == nil {
		opt.Stdout = io.Discard
	}
	if opt.Stderr == nil {
		opt.Stderr = io.Discard
	}
	theme := ui.For(opt.Config.InitialTheme(), opt.Plain || !opt.Interactive)

	if len(args) == 0 {
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp(opt.Stdout)
		return 0
	}

	svc := opt.Service
	if svc == nil {
		var err error
		svc, err = NewService(opt.Config, opt.Logger)
		if err != nil {
			theme.Fail(opt.Stderr, err.Error())
			return 1
		}
	}

	initial := store.Initial()
	initial.Theme = opt.Config.InitialTheme()
	st := store.New(initial, opt.Logger)
	r := &runner{
		ctx:   ctx,
		opt:   opt,
		store: st,
		actions: actions.New(svc, st.Dispatch,
			actions.WithUserID(opt.Config.UserID),
			actions.WithLogger(opt.Logger),
		),
		theme: theme,
	}

	switch cmd {
	case "ls":
		if len(a) > 1 {
			r.usage("usage: tada ls [all|active|completed]")
			return 2
		}
		route := ""
		if len(a) == 1 {
			route = a[0]
		}
		f, err := store.ParseFilter(route)
		if err != nil {
			r.usage("ls: " + err.Error())
			return 2
		}
		return r.list(f)

	case "add":
		if len(a) == 0 {
			r.usage("usage: tada add <title...>")
			return 2
		}
		return r.add(strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			r.usage("usage: tada done <id>")
			return 2
		}
		return r.toggle(model.ParseID(a[0]))

	case "edit":
		if len(a) < 2 {
			r.usage("usage: tada edit <id> <title...>")
			return 2
		}
		return r.edit(model.ParseID(a[0]), strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			r.usage("usage: tada rm <id>")
			return 2
		}
		return r.remove(model.ParseID(a[0]))

	case "tui":
		if !opt.Interactive {
			theme.Fail(opt.Stderr, "tui: stdout is not a terminal")
			return 1
		}
		logging.Quiet(opt.Logger, opt.Config.LogOptions())
		f, err := store.ParseFilter(strings.Join(a, ""))
		if err != nil {
			r.usage("tui: " + err.Error())
			return 2
		}
		if err := tui.Run(ctx, st, r.actions, tui.Options{Filter: f, Plain: opt.Plain}); err != nil {
			theme.Fail(opt.Stderr, "tui: "+err.Error())
			return 1
		}
		return 0
	}

	theme.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

// NewService returns the fixture named in cfg, or an HTTP client.
func NewService(cfg *config.Config, logger *log.Logger) (api.Service, error) {
	if cfg.Fixture != "" {
		f, err := api.LoadFixture(cfg.Fixture)
		if err != nil {
			return nil, err
		}
		f.SetLimit(cfg.FetchLimit)
		return f, nil
	}
	apiCfg := cfg.APIConfig()
	apiCfg.Logger = logger
	return api.NewClient(apiCfg)
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `tada - todos from a remote service, with optimistic updates

Usage:
  tada [flags] <subcommand> [args]

Subcommands:
  ls [all|active|completed]   List todos
  add <title...>              Create a todo (title can be multiple words)
  done <id>                   Toggle completion of a todo
  edit <id> <title...>        Rename a todo
  rm <id>                     Delete a todo
  tui [filter]                Interactive list
  help                        Show this help

Flags:
  -group                      Group ls output by pending/done
  -plain                      No colour, ASCII symbols
  -api-url, -limit, -user-id, -timeout, -theme,
  -log-level, -log-format, -log-file, -fixture

Examples:
  tada add "Buy milk"
  tada ls active
  tada done 2
  tada rm 3
`)
}

// -------------- subcommand impls ----------------

func (r *runner) usage(msg string) {
	r.theme.Fail(r.opt.Stderr, msg)
}

// settle waits for an operation and returns the error it surfaced.
func (r *runner) settle(done <-chan struct{}) string {
	select {
	case <-done:
	case <-r.ctx.Done():
		return r.ctx.Err().Error()
	}
	return r.store.Snapshot().Error
}

func (r *runner) fetch() bool {
	if msg := r.settle(r.actions.FetchTodos(r.ctx)); msg != "" {
		r.theme.Fail(r.opt.Stderr, "fetch: "+msg)
		return false
	}
	return true
}

// lookup fetches the collection and finds id in it.
func (r *runner) lookup(id model.ID) (model.Todo, int) {
	if !r.fetch() {
		return model.Todo{}, 1
	}
	t, ok := r.store.Snapshot().Find(id)
	if !ok {
		r.theme.Fail(r.opt.Stderr, "no todo with id "+id.String())
		r.theme.Hint(r.opt.Stderr, "Hint: run `tada ls` to see valid ids")
		return model.Todo{}, 2
	}
	return t, 0
}

func (r *runner) list(f store.Filter) int {
	if !r.fetch() {
		return 1
	}
	s := r.store.Snapshot()
	th := r.theme

	d, p := store.Counts(s.Todos)
	lines := []string{
		th.Header(d, p),
		th.Muted.Render(ui.ProgressBar(d, d+p, 28)),
		"",
	}
	visible := store.Visible(s.Todos, f)
	if r.opt.Group && f == store.FilterAll {
		lines = append(lines, r.groupLines(visible)...)
	} else {
		lines = append(lines, r.flatLines(visible)...)
	}
	lines = append(lines, "", th.Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
	fmt.Fprintln(r.opt.Stdout, th.Panel(lines))
	return 0
}

func (r *runner) add(raw string) int {
	title, err := model.NormalizeTitle(raw)
	if err != nil {
		r.usage("add: " + err.Error())
		return 2
	}
	if msg := r.settle(r.actions.CreateTodo(r.ctx, title)); msg != "" {
		r.theme.Fail(r.opt.Stderr, "add: "+msg)
		return 1
	}
	s := r.store.Snapshot()
	created := s.Todos[len(s.Todos)-1]
	r.theme.OK(r.opt.Stdout, fmt.Sprintf("added #%s %s", created.ID, html.UnescapeString(created.Title)))
	return 0
}

func (r *runner) toggle(id model.ID) int {
	t, code := r.lookup(id)
	if code != 0 {
		return code
	}
	next := model.CompletedPatch(!t.Completed).Apply(t)
	if msg := r.settle(r.actions.UpdateTodo(r.ctx, id, model.FullPatch(next))); msg != "" {
		r.theme.Fail(r.opt.Stderr, "done: "+msg)
		return 1
	}
	verb := "completed"
	if !next.Completed {
		verb = "reopened"
	}
	r.theme.OK(r.opt.Stdout, fmt.Sprintf("%s #%s", verb, id))
	return 0
}

func (r *runner) edit(id model.ID, raw string) int {
	title, err := model.NormalizeTitle(raw)
	if err != nil {
		r.usage("edit: " + err.Error())
		return 2
	}
	t, code := r.lookup(id)
	if code != 0 {
		return code
	}
	next := model.TitlePatch(title).Apply(t)
	if msg := r.settle(r.actions.UpdateTodo(r.ctx, id, model.FullPatch(next))); msg != "" {
		r.theme.Fail(r.opt.Stderr, "edit: "+msg)
		return 1
	}
	r.theme.OK(r.opt.Stdout, fmt.Sprintf("renamed #%s", id))
	return 0
}

func (r *runner) remove(id model.ID) int {
	if _, code := r.lookup(id); code != 0 {
		return code
	}
	if msg := r.settle(r.actions.DeleteTodo(r.ctx, id)); msg != "" {
		r.theme.Fail(r.opt.Stderr, "rm: "+msg)
		return 1
	}
	r.theme.OK(r.opt.Stdout, fmt.Sprintf("removed #%s", id))
	return 0
}

// -------------- rendering helpers --------------

func (r *runner) flatLines(todos []model.Todo) []string {
	th := r.theme
	if len(todos) == 0 {
		return []string{th.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		idx := fmt.Sprintf("%4s", "#"+t.ID.String())
		out = append(out, fmt.Sprintf("%s %s %s",
			th.Muted.Render(idx), th.Box(t.Completed), ui.Truncate(html.UnescapeString(t.Title), 80)))
	}
	return out
}

func (r *runner) groupLines(todos []model.Todo) []string {
	th := r.theme
	var pend, done []model.Todo
	for _, t := range todos {
		if t.Completed {
			done = append(done, t)
		} else {
			pend = append(pend, t)
		}
	}
	section := func(name string, ts []model.Todo) []string {
		lines := []string{th.Accent.Render(name)}
		if len(ts) == 0 {
			return append(lines, th.Muted.Render("(none)"))
		}
		return append(lines, r.flatLines(ts)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

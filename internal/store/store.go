package store

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Store owns the single State value. Dispatch is the only writer; it runs
// the reducer under a lock so transitions never interleave, even when
// events arrive from several goroutines.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   []chan struct{}
	logger *log.Logger
}

// New returns a store holding initial. A nil logger discards output.
func New(initial State, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{state: initial, logger: logger}
}

// Dispatch applies ev and wakes subscribers. It panics, like Reduce, on an
// unknown event.
func (s *Store) Dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Reduce(s.state, ev)
	s.state = next
	s.logger.Debug("dispatch",
		"event", Kind(ev),
		"todos", len(next.Todos),
		"loading", next.Loading,
		"creating", len(next.Creating),
		"updating", len(next.Updating),
		"deleting", len(next.Deleting),
		"error", next.Error,
	)

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
			// subscriber already has a pending signal
		}
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel that receives a signal after dispatches.
// Signals coalesce: a slow reader sees one signal for many dispatches and
// should read Snapshot for the latest state.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

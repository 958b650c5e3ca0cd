package state

import (
	"sync"

	"cv-builder/internal/domain"
	"cv-builder/internal/logger"
)

// Listener receives the state produced by each dispatch.
type Listener func(domain.AppState)

type subscription struct {
	id uint64
	fn Listener
}

// Store owns the working AppState of a session. It is created once and passed
// to every consumer. Dispatches are serialized; reads may run concurrently.
type Store struct {
	dispatchMu sync.Mutex

	mu     sync.RWMutex
	state  domain.AppState
	subs   []subscription
	nextID uint64
}

func NewStore(initial domain.AppState) *Store {
	return &Store{state: initial.Clone()}
}

// State returns a copy of the current state.
func (s *Store) State() domain.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dispatch applies a and notifies subscribers in subscription order before
// returning. Listeners run on the dispatching goroutine and must not call
// Dispatch themselves.
func (s *Store) Dispatch(a Action) domain.AppState {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	next := Apply(s.state, a)
	s.state = next
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if _, ok := a.(Unknown); ok {
		logger.Debug().Str("action", a.Type()).Msg("ignoring unknown action")
	} else {
		logger.Debug().Str("action", a.Type()).Msg("dispatch")
	}

	for _, sub := range subs {
		sub.fn(next.Clone())
	}
	return next.Clone()
}

// Subscribe registers fn for every future dispatch. The returned func removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			kept := make([]subscription, 0, len(s.subs))
			for _, sub := range s.subs {
				if sub.id != id {
					kept = append(kept, sub)
				}
			}
			s.subs = kept
		})
	}
}

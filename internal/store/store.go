package store

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/quadra/internal/logger"
)

func log() *zap.SugaredLogger { return logger.Get().Named("store") }

// Store owns the in-memory aggregate. Every Update is persisted before it
// returns, then subscribers are notified.
type Store struct {
	mu    sync.Mutex
	state UserState
	p     Persistence
	now   func() time.Time

	subMu  sync.Mutex
	subs   map[int]func(UserState)
	nextID int
}

type Option func(*Store)

// WithClock overrides the clock used to anchor the seed dataset.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New loads the persisted document, or seeds a fresh state if there is none.
func New(p Persistence, opts ...Option) *Store {
	s := &Store{p: p, now: time.Now, subs: make(map[int]func(UserState))}
	for _, o := range opts {
		o(s)
	}
	if state, ok := p.Load(); ok {
		s.state = state
	} else {
		log().Infow("no saved document, using seed data")
		s.state = Seed(s.now())
		if err := p.Save(s.state); err != nil {
			log().Errorw("persist seed", "error", err)
		}
	}
	return s
}

// NewMemory creates a seeded store that never touches disk.
func NewMemory(opts ...Option) *Store {
	return New(NewMemoryPersistence(), opts...)
}

// State returns a copy of the current aggregate.
func (s *Store) State() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Update merges p into the current state, saves the result and returns it.
// Save failures are logged; the in-memory state still advances.
func (s *Store) Update(p Patch) UserState {
	s.mu.Lock()
	next := p.Apply(s.state.Clone())
	s.state = next
	if err := s.p.Save(next); err != nil {
		log().Errorw("persist state", "error", err)
	}
	out := next.Clone()
	s.mu.Unlock()

	s.notify(out)
	return out
}

// Reset erases the persisted document and starts over from the seed data.
// Subscribers see the fresh state.
func (s *Store) Reset() (UserState, error) {
	s.mu.Lock()
	if err := s.p.Erase(); err != nil {
		s.mu.Unlock()
		return UserState{}, fmt.Errorf("reset: %w", err)
	}
	s.state = Seed(s.now())
	if err := s.p.Save(s.state); err != nil {
		log().Errorw("persist seed", "error", err)
	}
	out := s.state.Clone()
	s.mu.Unlock()

	log().Infow("state reset to seed data")
	s.notify(out)
	return out, nil
}

// Subscribe registers fn to receive the state after every Update. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(UserState)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(state UserState) {
	s.subMu.Lock()
	fns := make([]func(UserState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(state.Clone())
	}
}

// Close releases the persistence backend.
func (s *Store) Close() error {
	return s.p.Close()
}

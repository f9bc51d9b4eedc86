package storage

import (
	"context"
	"sync"

	"github.com/booknook-app/booknook/pkg/logger"
)

// State mirrors one stored key into memory. The stored value is read
// exactly once per State lifetime; until that read finishes Loading
// reports true. Set updates memory synchronously and persists in the
// background, so in-process readers see the new value immediately and
// durability is best-effort.
type State struct {
	store Store
	key   string

	once sync.Once

	mu      sync.Mutex
	loading bool
	value   *string

	persistMu  sync.Mutex
	pending    *string
	dirty      bool
	persisting bool

	watchers []chan struct{}
}

func NewState(store Store, key string) *State {
	return &State{
		store:   store,
		key:     key,
		loading: true,
	}
}

// Load performs the initial read. Safe to call from any number of
// goroutines; only the first call touches the store.
func (s *State) Load(ctx context.Context) {
	s.once.Do(func() {
		value, ok, err := s.store.Get(ctx, s.key)
		if err != nil {
			logger.Log(ctx).Errorf("storage: can't load key `%s`, %v", s.key, err)
		}

		s.mu.Lock()
		s.loading = false
		if err == nil && ok {
			s.value = &value
		}
		s.mu.Unlock()
		s.notify()
	})
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *State) Value() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == nil {
		return ``, false
	}
	return *s.value, true
}

// Set replaces the in-memory value and persists it without waiting
// for the write to finish. A nil value erases the key.
func (s *State) Set(value *string) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
	s.notify()
	s.persist(value)
}

// persist hands the value to a single writer per State. Writes never
// reorder: one goroutine drains the latest pending value, so the store
// always converges to the most recent Set, and a slow earlier write
// can't land on top of a later erasure.
func (s *State) persist(value *string) {
	s.persistMu.Lock()
	s.pending = value
	s.dirty = true
	if s.persisting {
		s.persistMu.Unlock()
		return
	}
	s.persisting = true
	s.persistMu.Unlock()

	go func() {
		for {
			s.persistMu.Lock()
			if !s.dirty {
				s.persisting = false
				s.persistMu.Unlock()
				return
			}
			value := s.pending
			s.dirty = false
			s.persistMu.Unlock()

			if err := s.store.Set(context.Background(), s.key, value); err != nil {
				logger.Log(context.Background()).Errorf("storage: can't persist key `%s`, %v", s.key, err)
			}
		}
	}()
}

// Watch returns a channel that receives a tick after every state
// change. The channel is buffered; slow consumers miss ticks, not
// state.
func (s *State) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
	return ch
}

func (s *State) notify() {
	s.mu.Lock()
	watchers := s.watchers
	s.mu.Unlock()
	for _, ch := range watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

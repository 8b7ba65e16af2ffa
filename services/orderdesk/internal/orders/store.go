package orders

import (
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const subscriberBuffer = 100

// Store serializes every Dispatch so Reduce is the only writer of the order state.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[string]chan State
	logger apt.Logger
}

func NewStore(initial State, logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Store{
		state:  initial,
		subs:   make(map[string]chan State),
		logger: logger,
	}
}

// Dispatch applies a and publishes the resulting state to subscribers.
// Slow subscribers miss intermediate states rather than blocking the writer.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	for id, ch := range s.subs {
		select {
		case ch <- s.state:
		default:
			s.log().Debug("subscriber buffer full, dropping state", "subscriber_id", id)
		}
	}
	return s.state
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns an id and a channel receiving every state after a dispatch.
func (s *Store) Subscribe() (string, <-chan State) {
	id := uuid.NewString()
	ch := make(chan State, subscriberBuffer)

	s.mu.Lock()
	s.subs[id] = ch
	s.mu.Unlock()

	return id, ch
}

func (s *Store) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Store) log() apt.Logger {
	return s.logger.With("component", "order-store")
}

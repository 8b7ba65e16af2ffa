package router

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
)

type MockChannel struct {
	mu       sync.Mutex
	handlers map[string][]events.HandlerFunc
	emitted  []string
	offs     int
}

func NewMockChannel() *MockChannel {
	return &MockChannel{handlers: make(map[string][]events.HandlerFunc)}
}

func (m *MockChannel) On(name string, handler events.HandlerFunc) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[name] = append(m.handlers[name], handler)
	idx := len(m.handlers[name]) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.handlers[name][idx] = nil
		m.offs++
	}
}

func (m *MockChannel) Emit(ctx context.Context, name string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitted = append(m.emitted, name)
	return nil
}

func (m *MockChannel) deliver(name string, data string) {
	m.mu.Lock()
	handlers := append([]events.HandlerFunc(nil), m.handlers[name]...)
	m.mu.Unlock()
	for _, h := range handlers {
		if h != nil {
			_ = h(context.Background(), []byte(data))
		}
	}
}

func (m *MockChannel) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, hs := range m.handlers {
		for _, h := range hs {
			if h != nil {
				n++
			}
		}
	}
	return n
}

func (m *MockChannel) emittedCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.emitted {
		if e == name {
			n++
		}
	}
	return n
}

type MockFetcher struct {
	GetByIDFunc func(ctx context.Context, id string) (orders.Payload, error)
}

func (m *MockFetcher) GetByID(ctx context.Context, id string) (orders.Payload, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return orders.Payload{}, nil
}

type MockNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (m *MockNotifier) Notify(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *MockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

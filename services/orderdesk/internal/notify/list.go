package notify

import (
	"slices"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const toastBuffer = 100

// List holds the session's notifications, newest first. A notification whose
// id is already present is the same logical event and is not added again.
type List struct {
	mu     sync.RWMutex
	items  []Notification
	seen   map[string]struct{}
	subs   map[string]chan Notification
	logger apt.Logger
}

func NewList(logger apt.Logger) *List {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &List{
		seen:   make(map[string]struct{}),
		subs:   make(map[string]chan Notification),
		logger: logger,
	}
}

// Add stores n and announces it to subscribers. It reports false for duplicates.
func (l *List) Add(n Notification) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, dup := l.seen[n.ID]; dup {
		return false
	}
	l.seen[n.ID] = struct{}{}
	l.items = append([]Notification{n}, l.items...)

	for id, ch := range l.subs {
		select {
		case ch <- n:
		default:
			l.logger.Debug("toast subscriber buffer full, dropping notification", "subscriber_id", id, "notification_id", n.ID)
		}
	}
	return true
}

// All returns a copy of the notifications, newest first.
func (l *List) All() []Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *List) Unread() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, item := range l.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkRead marks one notification read and reports whether it exists.
func (l *List) MarkRead(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead returns how many notifications changed.
func (l *List) MarkAllRead() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for i := range l.items {
		if !l.items[i].Read {
			l.items[i].Read = true
			n++
		}
	}
	return n
}

// Subscribe delivers every newly added notification, for toasts and sounds.
func (l *List) Subscribe() (string, <-chan Notification) {
	id := uuid.NewString()
	ch := make(chan Notification, toastBuffer)

	l.mu.Lock()
	l.subs[id] = ch
	l.mu.Unlock()

	return id, ch
}

func (l *List) Unsubscribe(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ch, ok := l.subs[id]; ok {
		close(ch)
		delete(l.subs, id)
	}
}

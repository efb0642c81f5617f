// Package notice carries user-visible notices out of the editor core. A
// notice is an emitted event, never a blocking call; the surface decides how
// to present it and when the user has acknowledged it.
package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notice.
type Kind string

const (
	KindIllegalConnection Kind = "illegal_connection"
)

// Notice is one message for the user.
type Notice struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// New stamps a notice with a fresh id and the current time.
func New(kind Kind, msg string) Notice {
	return Notice{ID: uuid.New().String(), Kind: kind, Message: msg, At: time.Now()}
}

// Notifier receives notices.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Hub fans notices out to any number of subscribers. Delivery never blocks:
// a subscriber whose buffer is full misses the notice.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Notice]struct{}
	buf  int
}

// NewHub creates a Hub whose subscriber channels hold buf notices.
func NewHub(buf int) *Hub {
	if buf <= 0 {
		buf = 16
	}
	return &Hub{subs: make(map[chan Notice]struct{}), buf: buf}
}

// Subscribe returns a channel of notices and a function that unsubscribes and
// closes it.
func (h *Hub) Subscribe() (<-chan Notice, func()) {
	ch := make(chan Notice, h.buf)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Notify(n Notice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Close unsubscribes everyone.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification is a short human-readable message about something that
// happened in the park.
type Notification struct {
	Seq     uint64    `json:"seq"`
	Day     int       `json:"day"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Notifier keeps the most recent notifications and fans new ones out to
// subscribers. Slow subscribers miss messages rather than block the park.
type Notifier struct {
	mu     sync.Mutex
	recent []Notification
	limit  int
	seq    uint64
	subs   map[uuid.UUID]chan Notification
}

// NewNotifier keeps up to limit notifications.
func NewNotifier(limit int) *Notifier {
	if limit <= 0 {
		limit = 100
	}
	return &Notifier{limit: limit, subs: make(map[uuid.UUID]chan Notification)}
}

// Publish records msg and delivers it to every subscriber.
func (n *Notifier) Publish(day int, msg string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	note := Notification{Seq: n.seq, Day: day, Time: time.Now().UTC(), Message: msg}
	n.recent = append(n.recent, note)
	if len(n.recent) > n.limit {
		n.recent = n.recent[len(n.recent)-n.limit:]
	}
	for _, ch := range n.subs {
		select {
		case ch <- note:
		default:
		}
	}
	return note
}

// Since returns retained notifications with Seq greater than seq, oldest
// first.
func (n *Notifier) Since(seq uint64) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Notification
	for _, note := range n.recent {
		if note.Seq > seq {
			out = append(out, note)
		}
	}
	return out
}

// Subscribe registers a buffered channel for new notifications.
func (n *Notifier) Subscribe(buffer int) (uuid.UUID, <-chan Notification) {
	id := uuid.New()
	ch := make(chan Notification, buffer)
	n.mu.Lock()
	n.subs[id] = ch
	n.mu.Unlock()
	return id, ch
}

// Unsubscribe removes and closes a subscription.
func (n *Notifier) Unsubscribe(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if ch, ok := n.subs[id]; ok {
		delete(n.subs, id)
		close(ch)
	}
}

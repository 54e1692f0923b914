// Package broadcast implements fan-out delivery of clock and alarm messages
// to any number of connected subscribers.
package broadcast

import (
	"sync"

	"github.com/google/uuid"

	"github.com/clockrobustus/clockd/internal/log"
	"github.com/clockrobustus/clockd/internal/types"
)

// Per-subscriber buffer. A subscriber that falls further behind than this
// loses messages rather than stalling the tick loop.
const subscriberBufferSize = 10

// Broadcaster delivers every published message to all current subscribers.
// Publish never blocks: when a subscriber's buffer is full the message is
// dropped for that subscriber (at-most-once, best-effort delivery). There is
// no replay for late subscribers.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber
}

// New creates a Broadcaster with no subscribers.
func New() *Broadcaster {
	return &Broadcaster{
		subs: make(map[string]*Subscriber),
	}
}

// Subscriber is one consumer's view of the broadcast channel.
type Subscriber struct {
	id string
	b  *Broadcaster

	c    chan types.Message
	once sync.Once
}

// Subscribe registers a new subscriber. It receives every message published
// after this call until Close.
func (b *Broadcaster) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: uuid.New().String(),
		b:  b,
		c:  make(chan types.Message, subscriberBufferSize),
	}

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.mu.Unlock()

	return sub
}

// Publish sends msg to every subscriber without blocking the caller.
func (b *Broadcaster) Publish(msg types.Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		select {
		case sub.c <- msg:
		default:
			// Subscriber can't keep up; drop this message for it.
			log.Debugf("dropping %s message for slow subscriber [%s]", msg.MessageKind(), sub.id)
		}
	}
}

// SubscriberCount returns the number of registered subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// ID returns the subscriber's connection id.
func (s *Subscriber) ID() string {
	return s.id
}

// C returns the subscriber's message channel. The channel is closed when the
// subscription is closed.
func (s *Subscriber) C() <-chan types.Message {
	return s.c
}

// Close deregisters the subscriber and closes its channel. Safe to call more
// than once.
func (s *Subscriber) Close() {
	s.b.mu.Lock()
	delete(s.b.subs, s.id)
	s.b.mu.Unlock()

	s.once.Do(func() { close(s.c) })
}

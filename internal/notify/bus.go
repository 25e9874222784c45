// Package notify carries transient user feedback: alerts shown in a tray and
// confirmation dialogs that block a flow until the user decides.
//
// Producers and presenters never reference each other. They meet on a Bus,
// which is created by the caller and passed in explicitly.
package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/uuid"
)

// Topic names a stream of messages on a Bus.
type Topic string

const (
	TopicAlert           Topic = "alert"
	TopicConfirm         Topic = "confirm"
	TopicConfirmResolved Topic = "confirm.resolved"
)

// Message is one publication. Payload is an Alert, ConfirmRequest or
// Resolution depending on Topic.
type Message struct {
	ID          string
	Topic       Topic
	Payload     any
	PublishedAt time.Time
}

// Handler receives messages for a topic. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(Message)

// Bus is an in-process publish/subscribe hub. It is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[Topic]map[int]Handler
	now  func() time.Time
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[int]Handler), now: time.Now}
}

// Subscribe registers fn for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
		})
	}
}

// Publish delivers payload to every current subscriber of topic, in
// subscription order, and returns the published message.
func (b *Bus) Publish(topic Topic, payload any) Message {
	return b.publish(uuid.New(), topic, payload)
}

func (b *Bus) publish(id string, topic Topic, payload any) Message {
	msg := Message{ID: id, Topic: topic, Payload: payload, PublishedAt: b.now()}

	b.mu.RLock()
	ids := make([]int, 0, len(b.subs[topic]))
	for sid := range b.subs[topic] {
		ids = append(ids, sid)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, sid := range ids {
		handlers = append(handlers, b.subs[topic][sid])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
	return msg
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

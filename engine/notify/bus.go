// Package notify is a synchronous publish/subscribe bus used to sequence
// backend lifecycle events between components that never reference each
// other directly.
//
// Delivery happens on the publisher's stack, in subscription order, before
// Publish returns. Nothing is queued. A handler must not publish on the topic
// it is handling.
package notify

import (
	"fmt"

	"github.com/hubastard/grove2d/engine/logging"
)

// Topic is a typed notification channel. Topics are compared by name.
type Topic[T any] struct {
	name string
}

// NewTopic declares a data channel carrying values of type T.
func NewTopic[T any](name string) Topic[T] { return Topic[T]{name: name} }

func (t Topic[T]) Name() string { return t.name }

// Lifecycle topics.
var (
	BackendReady     = NewTopic[struct{}]("backend-ready")
	BatchSizeChanged = NewTopic[int]("batch-size-changed")
	ShuttingDown     = NewTopic[struct{}]("shutting-down")
)

type entry struct {
	sub     *Subscription
	deliver func(any) error
}

// Bus holds subscriptions. It is not safe for concurrent use; it belongs to
// the render thread like everything it notifies.
type Bus struct {
	nextID     uint64
	subs       map[string][]entry
	publishing map[string]bool
}

func New() *Bus {
	return &Bus{
		subs:       make(map[string][]entry),
		publishing: make(map[string]bool),
	}
}

// Subscribe registers h on topic. name is only used for diagnostics and may be empty.
func Subscribe[T any](b *Bus, topic Topic[T], name string, h func(T) error) *Subscription {
	b.nextID++
	s := &Subscription{id: b.nextID, name: name, topic: topic.name, bus: b}
	b.subs[topic.name] = append(b.subs[topic.name], entry{
		sub: s,
		deliver: func(v any) error {
			return h(v.(T))
		},
	})
	logging.For("notify").Debug("subscribe", "topic", topic.name, "id", s.id, "name", name)
	return s
}

// Publish delivers v to every current subscriber of topic. The first handler
// error stops delivery and is returned.
func Publish[T any](b *Bus, topic Topic[T], v T) error {
	if b.publishing[topic.name] {
		panic(fmt.Sprintf("notify: re-entrant publish on %q", topic.name))
	}
	b.publishing[topic.name] = true
	defer delete(b.publishing, topic.name)

	// Handlers may dispose subscriptions while we iterate.
	snapshot := append([]entry(nil), b.subs[topic.name]...)
	for _, e := range snapshot {
		if e.sub.disposed {
			continue
		}
		if err := e.deliver(v); err != nil {
			return fmt.Errorf("%s: subscriber %d %q: %w", topic.name, e.sub.id, e.sub.name, err)
		}
	}
	return nil
}

// Count reports the live subscriptions on the topic with the given name.
func (b *Bus) Count(topic string) int { return len(b.subs[topic]) }

func (b *Bus) remove(s *Subscription) {
	list := b.subs[s.topic]
	for i, e := range list {
		if e.sub == s {
			b.subs[s.topic] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[s.topic]) == 0 {
		delete(b.subs, s.topic)
	}
}

package events

import (
	"sync"
)

const defaultBufSize = 256

// subscriber is one buffered channel. An empty topic receives every event.
type subscriber struct {
	topic string
	ch    chan Event
}

// EventBus is a channel-based pub-sub event bus. Events are routed by
// their Topic; SubscribeAll receives every topic.
type EventBus struct {
	mu     sync.RWMutex
	subs   []subscriber
	closed bool
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe returns a channel receiving events published on topic.
// bufSize defaults to 256 if <= 0.
func (b *EventBus) Subscribe(topic string, bufSize int) <-chan Event {
	return b.add(topic, bufSize)
}

// SubscribeAll returns a channel receiving events from every topic.
// bufSize defaults to 256 if <= 0.
func (b *EventBus) SubscribeAll(bufSize int) <-chan Event {
	return b.add("", bufSize)
}

func (b *EventBus) add(topic string, bufSize int) <-chan Event {
	if bufSize <= 0 {
		bufSize = defaultBufSize
	}
	ch := make(chan Event, bufSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, subscriber{topic: topic, ch: ch})
	return ch
}

// Publish delivers event to every subscriber of its topic and to every
// SubscribeAll channel. It never blocks: a full subscriber misses the event.
// It returns the number of subscribers that missed it.
func (b *EventBus) Publish(event Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0
	}

	dropped := 0
	topic := event.Topic()
	for _, s := range b.subs {
		if s.topic != "" && s.topic != topic {
			continue
		}
		select {
		case s.ch <- event:
		default:
			dropped++
		}
	}
	return dropped
}

// Close closes the bus and all subscriber channels.
// Safe to call multiple times.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, s := range b.subs {
		close(s.ch)
	}
}

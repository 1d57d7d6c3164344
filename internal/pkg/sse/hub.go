package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Event is a single server-sent event.
type Event struct {
	ID   string
	Type string
	Data interface{}
}

// WriteTo encodes the event in text/event-stream framing.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to encode event data: %w", err)
	}

	var n int
	if e.ID != "" {
		n, err = fmt.Fprintf(w, "id: %s\n", e.ID)
		if err != nil {
			return int64(n), err
		}
	}
	m, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, payload)
	return int64(n + m), err
}

// Hub fans events out to subscribers keyed by topic. A topic is a user id
// or a shared channel such as "attendance".
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  16,
	}
}

// Subscribe registers one channel on every given topic. The returned func
// unregisters it and closes the channel.
func (h *Hub) Subscribe(topics ...string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)
	for _, topic := range topics {
		if h.subscribers[topic] == nil {
			h.subscribers[topic] = make(map[chan Event]struct{})
		}
		h.subscribers[topic][ch] = struct{}{}
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, topic := range topics {
				delete(h.subscribers[topic], ch)
				if len(h.subscribers[topic]) == 0 {
					delete(h.subscribers, topic)
				}
			}
			close(ch)
		})
	}

	return ch, cancel
}

// Publish delivers without blocking. Slow subscribers drop events.
func (h *Hub) Publish(topic string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[topic] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

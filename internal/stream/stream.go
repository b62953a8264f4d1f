// Package stream fan-outs tool execution events to live subscribers
// (the admin activity feed over SSE).
package stream

import (
	"context"
	"sync"
	"time"
)

// ToolEvent describes one tool execution for the activity feed.
type ToolEvent struct {
	Tool      string    `json:"tool"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id,omitempty"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Stream fan-outs tool events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan ToolEvent
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]chan ToolEvent)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan ToolEvent {
	ch := make(chan ToolEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (s *Stream) Publish(evt ToolEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

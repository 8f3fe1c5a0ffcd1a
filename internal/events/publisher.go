package events

import (
	"context"
	"sync"
)

// Publisher delivers envelopes to a topic. Implementations must not block the
// caller on broker I/O.
type Publisher interface {
	Publish(ctx context.Context, topic string, env Envelope) error
}

// Nop drops every event. Used when EVENTS=none.
type Nop struct{}

func (Nop) Publish(context.Context, string, Envelope) error { return nil }

// Recorder keeps published envelopes in memory.
type Recorder struct {
	mu     sync.Mutex
	Topics []string
	Events []Envelope
}

func (r *Recorder) Publish(_ context.Context, topic string, env Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Topics = append(r.Topics, topic)
	r.Events = append(r.Events, env)
	return nil
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Events)
}

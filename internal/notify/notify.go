package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind tags what produced a notification
type Kind string

const (
	KindReminder Kind = "reminder"
	KindRecap    Kind = "recap"
)

// Notification is a text message headed for the team channel
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Subject   string    `json:"subject,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds a notification with a fresh id
func New(kind Kind, subject, text string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Subject:   subject,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// Sink delivers notifications
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, n Notification) error

// Send calls f
func (f SinkFunc) Send(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Multi fans a notification out to every sink. All sinks are attempted; errors are joined.
type Multi []Sink

// Send delivers to each sink in order
func (m Multi) Send(ctx context.Context, n Notification) error {
	var errs []error
	for i, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every notification in memory. Useful as a sink in tests and dry runs.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Send records n
func (r *Recorder) Send(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

// Sent returns a copy of the recorded notifications
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

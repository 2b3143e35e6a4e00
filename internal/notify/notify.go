// Package notify implements the notification-sink collaborator: a
// fan-out dispatcher over heterogeneous sinks (webhook, MQTT, in-memory
// test double), tolerant of any single sink's failure.
package notify

import (
	"context"
	"log/slog"

	"github.com/icad-go/tonedetect/internal/types"
)

// Sink delivers one segment to an external collaborator (email, push,
// webhook, social, MQTT, transcription, ...). Concrete implementations
// are out of scope for the core; the dispatcher only needs this
// interface.
type Sink interface {
	Notify(ctx context.Context, segment types.Segment) error
}

// Dispatcher fans a segment out to every registered sink, tolerating
// per-sink failure (a sink failure is logged and does not stop the others).
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher returns a Dispatcher fanning out to sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// Dispatch delivers segment to every sink, in order. Sinks have no
// dependencies on each other.
func (d *Dispatcher) Dispatch(ctx context.Context, segment types.Segment) {
	for _, sink := range d.sinks {
		if err := sink.Notify(ctx, segment); err != nil {
			slog.Warn("notification sink failed", "error", err)
		}
	}
}

// Package events provides a composable notification channel invoked after
// state-changing operations. Channels are immutable and side-effect-free to
// construct; only Emit has effects. Emission is best-effort: it runs after
// the write succeeds and can never roll it back.
package events

import (
	"context"
	"log/slog"
)

// Event is a domain notification. Keep it transport-agnostic so sinks can
// fan out without knowing the payload shape.
type Event interface {
	Name() string
}

// Events is the channel contract. AndThen composes: the result emits to the
// receiver first, then to other.
type Events interface {
	Emit(ctx context.Context, event Event)
	AndThen(other Events) Events
}

// Logging records each event's name and full payload to a structured log
// sink.
type Logging struct {
	logger *slog.Logger
}

// NewLogging constructs a channel over the given sink.
func NewLogging(logger *slog.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) Emit(ctx context.Context, event Event) {
	l.logger.InfoContext(ctx, "event emitted",
		"name", event.Name(),
		"payload", event,
	)
}

func (l *Logging) AndThen(other Events) Events {
	return composite{first: l, second: other}
}

// Silent discards every event.
type Silent struct{}

func (Silent) Emit(context.Context, Event) {}

// AndThen returns other directly rather than wrapping a no-op.
func (Silent) AndThen(other Events) Events {
	return other
}

type composite struct {
	first  Events
	second Events
}

func (c composite) Emit(ctx context.Context, event Event) {
	c.first.Emit(ctx, event)
	c.second.Emit(ctx, event)
}

func (c composite) AndThen(other Events) Events {
	return composite{first: c, second: other}
}

// Package analytics forwards usage events to an external collector.
// Tracking is best-effort: a Tracker must never block or fail its caller.
package analytics

import (
	"context"
	"log/slog"
	"maps"
	"sync"
)

const (
	EventCalculatorUsed = "calculadora_usada"
	EventCaptureOpened  = "modal_consultoria_aberto"
	EventLeadSubmitted  = "formulario_consultoria_enviado"
)

type Tracker interface {
	Track(ctx context.Context, event string, props map[string]any)
}

type Noop struct{}

func (Noop) Track(context.Context, string, map[string]any) {}

// OrNoop returns t, or Noop when t is nil.
func OrNoop(t Tracker) Tracker {
	if t == nil {
		return Noop{}
	}
	return t
}

// Emit calls t.Track and swallows any panic coming out of it.
func Emit(ctx context.Context, t Tracker, event string, props map[string]any) {
	if t == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("analytics tracker panicked", "event", event, "panic", r)
		}
	}()
	t.Track(ctx, event, props)
}

type LogTracker struct {
	logger *slog.Logger
}

func NewLogTracker(logger *slog.Logger) *LogTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTracker{logger: logger}
}

func (t *LogTracker) Track(ctx context.Context, event string, props map[string]any) {
	t.logger.InfoContext(ctx, "analytics event", "event", event, "props", props)
}

type Event struct {
	Name  string
	Props map[string]any
}

// Recorder keeps every event in memory. Used by tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Track(_ context.Context, event string, props map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: event, Props: maps.Clone(props)})
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Named returns the recorded events with the given name.
func (r *Recorder) Named(name string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

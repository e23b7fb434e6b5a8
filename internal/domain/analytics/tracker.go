package analytics

import (
	"context"
	"errors"
	"sync"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// NopTracker discards every event.
type NopTracker struct{}

func (NopTracker) Track(context.Context, Event) error { return nil }

func (NopTracker) Params(context.Context, string, map[string]interface{}) error { return nil }

// LogTracker writes events to a Logger at info level.
type LogTracker struct {
	logger logging.Logger
}

// NewLogTracker creates a LogTracker.
func NewLogTracker(logger logging.Logger) *LogTracker {
	return &LogTracker{logger: logger.Named("analytics")}
}

func (t *LogTracker) Track(_ context.Context, e Event) error {
	fields := []logging.Field{
		logging.String("action", e.Action),
		logging.String("category", e.Category),
		logging.String("label", e.Label),
		logging.String("visitor_id", e.VisitorID),
	}
	if len(e.Params) > 0 {
		fields = append(fields, logging.Any("params", e.Params))
	}
	t.logger.Info("analytics event", fields...)
	return nil
}

func (t *LogTracker) Params(_ context.Context, visitorID string, params map[string]interface{}) error {
	t.logger.Info("analytics params",
		logging.String("visitor_id", visitorID),
		logging.Any("params", params),
	)
	return nil
}

// Multi fans one event out to several trackers.  Every tracker is called even
// when an earlier one fails; the errors are joined.
type Multi []Tracker

func (m Multi) Track(ctx context.Context, e Event) error {
	var errs []error
	for _, t := range m {
		if t == nil {
			continue
		}
		if err := t.Track(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiParams fans aggregate params out to several sinks.
type MultiParams []ParamsSink

func (m MultiParams) Params(ctx context.Context, visitorID string, params map[string]interface{}) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Params(ctx, visitorID, params); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every event in memory.  The developer console and tests use
// it to inspect what a page load reported.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	params []map[string]interface{}
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Track(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Params(_ context.Context, _ string, params map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params = append(r.params, params)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ParamCalls returns a copy of the recorded aggregate payloads.
func (r *Recorder) ParamCalls() []map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]map[string]interface{}, len(r.params))
	copy(out, r.params)
	return out
}

// EventsWithAction filters recorded events by action.
func (r *Recorder) EventsWithAction(action string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

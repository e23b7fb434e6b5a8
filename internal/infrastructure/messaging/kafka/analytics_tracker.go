package kafka

import (
	"context"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/analytics"
)

// MessagePublisher is satisfied by *Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// ParamsPayload is the body of an analytics.params envelope.
type ParamsPayload struct {
	VisitorID string                 `json:"visitor_id"`
	Params    map[string]interface{} `json:"params"`
	At        time.Time              `json:"at"`
}

// AnalyticsTracker forwards analytics events and visitor params to a topic.
// Messages are keyed by visitor so one visitor's events stay ordered.
type AnalyticsTracker struct {
	pub    MessagePublisher
	topic  string
	source string
}

// NewAnalyticsTracker creates an AnalyticsTracker.  An empty topic selects
// TopicAnalyticsEvents.
func NewAnalyticsTracker(pub MessagePublisher, topic, source string) *AnalyticsTracker {
	if topic == "" {
		topic = TopicAnalyticsEvents
	}
	return &AnalyticsTracker{pub: pub, topic: topic, source: source}
}

func (t *AnalyticsTracker) Track(ctx context.Context, e analytics.Event) error {
	return t.publish(ctx, EventTypeAnalyticsEvent, e.VisitorID, e.Normalize())
}

func (t *AnalyticsTracker) Params(ctx context.Context, visitorID string, params map[string]interface{}) error {
	return t.publish(ctx, EventTypeAnalyticsParams, visitorID, ParamsPayload{
		VisitorID: visitorID,
		Params:    params,
		At:        time.Now().UTC(),
	})
}

func (t *AnalyticsTracker) publish(ctx context.Context, eventType, key string, payload interface{}) error {
	env, err := NewEventEnvelope(eventType, t.source, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(t.topic, key)
	if err != nil {
		return err
	}
	return t.pub.Publish(ctx, msg)
}

//Personal.AI order the ending

package kafka

import (
	"context"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// LeadPublisher hands leads to the worker through a topic.
type LeadPublisher struct {
	pub    MessagePublisher
	topic  string
	source string
}

// NewLeadPublisher creates a LeadPublisher.  An empty topic selects
// TopicLeadsSubmitted.
func NewLeadPublisher(pub MessagePublisher, topic, source string) *LeadPublisher {
	if topic == "" {
		topic = TopicLeadsSubmitted
	}
	return &LeadPublisher{pub: pub, topic: topic, source: source}
}

// PublishLead publishes l keyed by its id.
func (p *LeadPublisher) PublishLead(ctx context.Context, l *lead.Lead) error {
	env, err := NewEventEnvelope(EventTypeLeadSubmitted, p.source, l)
	if err != nil {
		return err
	}
	env.Metadata = map[string]string{"lead_source": string(l.Source)}
	msg, err := env.ToMessage(p.topic, l.ID)
	if err != nil {
		return err
	}
	return p.pub.Publish(ctx, msg)
}

// DecodeLead extracts the lead of a lead.submitted message.
func DecodeLead(msg *Message) (*lead.Lead, error) {
	env, err := MessageToEventEnvelope(msg)
	if err != nil {
		return nil, err
	}
	if env.EventType != EventTypeLeadSubmitted {
		return nil, errors.Newf(errors.ErrCodeValidation, "unexpected event type %q", env.EventType)
	}
	var l lead.Lead
	if err := env.DecodePayload(&l); err != nil {
		return nil, err
	}
	if l.ID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "lead without id").WithDetail(env.EventID)
	}
	return &l, nil
}

// LeadHandler adapts a delivery function to a MessageHandler.  Malformed
// messages are dropped rather than retried.
func LeadHandler(deliver func(ctx context.Context, l *lead.Lead) error, onMalformed func(msg *Message, err error)) MessageHandler {
	return func(ctx context.Context, msg *Message) error {
		l, err := DecodeLead(msg)
		if err != nil {
			if onMalformed != nil {
				onMalformed(msg, err)
			}
			return nil
		}
		return deliver(ctx, l)
	}
}

//Personal.AI order the ending

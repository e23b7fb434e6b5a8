// Package lead collects prospect contacts from the landing page, either
// through the contact form or the chat qualification flow, and dispatches
// them to notification channels and storage.
package lead

import (
	"context"
	"time"
)

// Source tells where a lead came from.
type Source string

const (
	SourceContactForm Source = "contact_form"
	SourceChatWidget  Source = "chat_widget"
)

// DefaultPackage is recorded when no pricing package was selected.
const DefaultPackage = "not-selected"

// DefaultUTMSource is recorded when the page URL carries no utm_source.
const DefaultUTMSource = "direct"

// Lead is one prospect.
type Lead struct {
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	VisitorID string    `json:"visitor_id,omitempty"`
	CreatedAt time.Time `json:"timestamp"`

	Name    string `json:"name,omitempty"`
	Contact string `json:"contact"`
	Task    string `json:"task,omitempty"`
	Package string `json:"package,omitempty"`

	TaskType         string `json:"task_type,omitempty"`
	HoursPerWeek     string `json:"hours_per_week,omitempty"`
	Timeline         string `json:"timeline,omitempty"`
	EstimatedSavings int64  `json:"estimated_savings,omitempty"`

	PageURL   string `json:"page_url,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	UTMSource string `json:"utm_source,omitempty"`

	Assignments map[string]string `json:"ab_tests,omitempty"`
}

// Notifier delivers a lead to a human-facing channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, l *Lead) error
}

// Repository persists leads.
type Repository interface {
	Save(ctx context.Context, l *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	ListRecent(ctx context.Context, limit int) ([]*Lead, error)
}

// Archive keeps a raw copy of each lead.
type Archive interface {
	Put(ctx context.Context, l *Lead) error
}

// Publisher hands a lead to asynchronous delivery.
type Publisher interface {
	PublishLead(ctx context.Context, l *Lead) error
}

//Personal.AI order the ending

// Package analytics defines the event model forwarded to analytics sinks and
// the two collaborator contracts the landing features report through: an
// event Tracker (one named event with a free-form label) and a ParamsSink
// (one aggregate key/value payload per visitor).
package analytics

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Well-known actions and categories emitted by the landing features.
const (
	ActionABTestAssignment    = "ab_test_assignment"
	ActionExitPopupShown      = "exit_popup_shown"
	ActionCalculatorCalculate = "calculator_calculate"
	ActionFormSubmit          = "form_submit"
	ActionChatStarted         = "chat_started"
	ActionChatCompleted       = "chat_completed"
	ActionFAQExpand           = "faq_expand"
	ActionPackageSelect       = "package_select"

	CategoryABTest     = "ab_test"
	CategoryCalculator = "calculator"
	CategoryContact    = "contact"
	CategoryChat       = "chat"
	CategoryFAQ        = "faq"
	CategoryPricing    = "pricing"
)

// clientActions are the actions a browser may report through the public
// events endpoint, keyed to the category they are filed under.  Everything
// else is emitted by the server itself.
var clientActions = map[string]string{
	ActionFAQExpand:     CategoryFAQ,
	ActionPackageSelect: CategoryPricing,
}

// ClientCategory returns the category a browser-reported action is filed
// under, and false when the action is not one a browser may report.
func ClientCategory(action string) (string, bool) {
	c, ok := clientActions[action]
	return c, ok
}

// KnownAction reports whether action is one of the well-known actions.
func KnownAction(action string) bool {
	switch action {
	case ActionABTestAssignment, ActionExitPopupShown, ActionCalculatorCalculate,
		ActionFormSubmit, ActionChatStarted, ActionChatCompleted,
		ActionFAQExpand, ActionPackageSelect:
		return true
	}
	return false
}

// KnownCategory reports whether category is one of the well-known categories.
func KnownCategory(category string) bool {
	switch category {
	case CategoryABTest, CategoryCalculator, CategoryContact, CategoryChat, CategoryFAQ, CategoryPricing:
		return true
	}
	return false
}

// MaxFAQLabelLength bounds faq_expand labels, which carry the question text.
const MaxFAQLabelLength = 50

// Event is a single analytics event.
type Event struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Category  string            `json:"category,omitempty"`
	Label     string            `json:"label,omitempty"`
	Value     float64           `json:"value,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	VisitorID string            `json:"visitor_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewEvent builds an Event stamped with a fresh id and the current time.
func NewEvent(action, category, label string) Event {
	return Event{
		ID:        uuid.NewString(),
		Action:    action,
		Category:  category,
		Label:     label,
		Timestamp: time.Now().UTC(),
	}
}

// WithParam returns a copy of e with one extra param.
func (e Event) WithParam(key, value string) Event {
	params := make(map[string]string, len(e.Params)+1)
	for k, v := range e.Params {
		params[k] = v
	}
	params[key] = value
	e.Params = params
	return e
}

// Normalize trims the action and applies per-action label rules.
func (e Event) Normalize() Event {
	e.Action = strings.TrimSpace(e.Action)
	e.Category = strings.TrimSpace(e.Category)
	if e.Action == ActionFAQExpand {
		e.Label = Truncate(e.Label, MaxFAQLabelLength)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return e
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// Tracker receives named events.
type Tracker interface {
	Track(ctx context.Context, e Event) error
}

// ParamsSink receives one aggregate payload per visitor, the analogue of a
// metrics counter's "visit params".
type ParamsSink interface {
	Params(ctx context.Context, visitorID string, params map[string]interface{}) error
}

//Personal.AI order the ending

package lead

import (
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/landing-ab/internal/domain/roi"
	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

// Option is one answer button.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is one qualification step.
type Question struct {
	Field   string   `json:"field"`
	Message string   `json:"message"`
	Options []Option `json:"options"`
}

// Qualification fields.
const (
	FieldTaskType     = "task_type"
	FieldHoursPerWeek = "hours_per_week"
	FieldTimeline     = "timeline"
)

// Questions is the scripted qualification flow.
var Questions = []Question{
	{
		Field:   FieldTaskType,
		Message: "Какую задачу хотите автоматизировать?",
		Options: []Option{
			{Value: "email", Label: "Email и письма"},
			{Value: "crm", Label: "CRM и продажи"},
			{Value: "support", Label: "Клиентский сервис"},
			{Value: "hr", Label: "HR и найм"},
			{Value: "other", Label: "Другое"},
		},
	},
	{
		Field:   FieldHoursPerWeek,
		Message: "Сколько часов в неделю уходит на эту задачу?",
		Options: []Option{
			{Value: "1-5", Label: "1-5 часов"},
			{Value: "5-10", Label: "5-10 часов"},
			{Value: "10-20", Label: "10-20 часов"},
			{Value: "20+", Label: "Более 20 часов"},
		},
	},
	{
		Field:   FieldTimeline,
		Message: "Когда планируете внедрение?",
		Options: []Option{
			{Value: "asap", Label: "Как можно скорее"},
			{Value: "month", Label: "В течение месяца"},
			{Value: "quarter", Label: "В этом квартале"},
			{Value: "research", Label: "Пока изучаю"},
		},
	},
}

// Bot replies outside the scripted questions.
const (
	MessageContactRequest = "Оставьте контакт, и я пришлю персональный расчёт с roadmap внедрения:"
	MessageContactHint    = "Telegram (@username) или телефон"
	MessageThanks         = "Спасибо! Свяжусь с вами в течение 2 часов. А пока можете посмотреть наши кейсы."
	MessageChooseOption   = "Понял! Выберите один из вариантов выше, чтобы я мог точнее рассчитать вашу экономию."
)

// Savings estimate parameters.
const (
	savingsWeeksPerMonth = 4
	savingsHourlyRate    = 1500
	savingsRate          = 0.7
	defaultWeeklyHours   = 10
)

var weeklyHours = map[string]float64{"1-5": 3, "5-10": 7.5, "10-20": 15, "20+": 25}

// EstimateSavings returns the monthly savings in rubles for an hours bucket.
func EstimateSavings(hoursBucket string) int64 {
	hours, ok := weeklyHours[hoursBucket]
	if !ok {
		hours = defaultWeeklyHours
	}
	return int64(math.Floor(hours*savingsWeeksPerMonth*savingsHourlyRate*savingsRate + 0.5))
}

// SavingsMessage is the bot line announcing the estimate.
func SavingsMessage(savings int64) string {
	return fmt.Sprintf("Отлично! По вашим данным, потенциальная экономия — %s ₽/мес", roi.GroupDigits(savings))
}

// Label returns the option label of value for field, or value itself.
func Label(field, value string) string {
	for _, q := range Questions {
		if q.Field != field {
			continue
		}
		for _, o := range q.Options {
			if o.Value == value {
				return o.Label
			}
		}
	}
	return value
}

// UTMSource extracts utm_source from a page URL.
func UTMSource(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return DefaultUTMSource
	}
	if s := u.Query().Get("utm_source"); s != "" {
		return s
	}
	return DefaultUTMSource
}

// Conversation is one visitor's progress through the chat flow.
type Conversation struct {
	ID             string            `json:"id"`
	VisitorID      string            `json:"visitor_id"`
	Step           int               `json:"step"`
	Answers        map[string]string `json:"answers"`
	WaitingContact bool              `json:"waiting_contact"`
	Contact        string            `json:"contact,omitempty"`
	Savings        int64             `json:"savings,omitempty"`
	PageURL        string            `json:"page_url"`
	UTMSource      string            `json:"utm_source"`
	StartedAt      time.Time         `json:"started_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}

// Reply is what the bot answers.
type Reply struct {
	Messages       []string `json:"messages"`
	Options        []Option `json:"options,omitempty"`
	WaitingContact bool     `json:"waiting_contact"`
	Placeholder    string   `json:"placeholder,omitempty"`
	Completed      bool     `json:"completed"`
}

// NewConversation starts a conversation at the first question.
func NewConversation(visitorID, pageURL string, now time.Time) *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		VisitorID: visitorID,
		Answers:   map[string]string{},
		PageURL:   pageURL,
		UTMSource: UTMSource(pageURL),
		StartedAt: now.UTC(),
	}
}

// Completed reports whether a contact was collected.
func (c *Conversation) Completed() bool { return c.CompletedAt != nil }

// Current returns the pending question, if any.
func (c *Conversation) Current() (Question, bool) {
	if c.Step < 0 || c.Step >= len(Questions) {
		return Question{}, false
	}
	return Questions[c.Step], true
}

// Opening returns the first bot reply.
func (c *Conversation) Opening() Reply {
	q := Questions[0]
	return Reply{Messages: []string{q.Message}, Options: q.Options}
}

// Answer records an option of the pending question and advances.  After the
// last question the bot announces the estimate and asks for a contact.
func (c *Conversation) Answer(value string) (Reply, error) {
	q, ok := c.Current()
	if !ok {
		return Reply{}, apperrors.New(apperrors.ErrCodeConversationState, "no pending question").WithDetail(c.ID)
	}
	valid := false
	for _, o := range q.Options {
		if o.Value == value {
			valid = true
			break
		}
	}
	if !valid {
		return Reply{}, apperrors.Newf(apperrors.ErrCodeAnswerInvalid, "unknown option %q for %s", value, q.Field)
	}
	c.Answers[q.Field] = value
	c.Step++

	if next, ok := c.Current(); ok {
		return Reply{Messages: []string{next.Message}, Options: next.Options}, nil
	}
	c.Savings = EstimateSavings(c.Answers[FieldHoursPerWeek])
	c.WaitingContact = true
	return Reply{
		Messages:       []string{SavingsMessage(c.Savings), MessageContactRequest},
		WaitingContact: true,
		Placeholder:    MessageContactHint,
	}, nil
}

// Message handles free text.  While a contact is awaited the text is taken
// as the contact and the conversation completes; otherwise the bot nudges the
// visitor back to the options.  The returned lead is non-nil on completion.
func (c *Conversation) Message(text string, now time.Time) (Reply, *Lead, error) {
	text = cleanText(text)
	if text == "" {
		return Reply{}, nil, apperrors.New(apperrors.ErrCodeAnswerInvalid, "empty message")
	}
	if !c.WaitingContact {
		reply := Reply{Messages: []string{MessageChooseOption}}
		if q, ok := c.Current(); ok {
			reply.Options = q.Options
		}
		return reply, nil, nil
	}
	c.Contact = text
	c.WaitingContact = false
	done := now.UTC()
	c.CompletedAt = &done

	l := &Lead{
		ID:               uuid.NewString(),
		Source:           SourceChatWidget,
		VisitorID:        c.VisitorID,
		CreatedAt:        done,
		Contact:          text,
		TaskType:         c.Answers[FieldTaskType],
		HoursPerWeek:     c.Answers[FieldHoursPerWeek],
		Timeline:         c.Answers[FieldTimeline],
		EstimatedSavings: c.Savings,
		PageURL:          c.PageURL,
		UTMSource:        c.UTMSource,
	}
	return Reply{Messages: []string{MessageThanks}, Completed: true}, l, nil
}

//Personal.AI order the ending

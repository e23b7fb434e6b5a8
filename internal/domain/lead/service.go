package lead

import (
	"context"
	"errors"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/domain/page"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

// ServiceConfig wires the collaborators of a Service.  Every collaborator is
// optional.  With Async set and a Publisher present, dispatch only publishes
// and notifiers run in the worker.
type ServiceConfig struct {
	Notifiers     []Notifier
	Repository    Repository
	Archive       Archive
	Publisher     Publisher
	Async         bool
	Conversations ConversationStore
	Claims        Claimer
	ClaimTTL      time.Duration
	Tracker       analytics.Tracker
	Logger        logging.Logger
	Now           func() time.Time
}

// Claimer grants at-most-once completion of a conversation, across replicas
// when backed by a shared store.
type Claimer interface {
	Claim(ctx context.Context, name string, ttl time.Duration) (bool, error)
}

// Service accepts leads and drives chat conversations.
type Service struct {
	cfg    ServiceConfig
	logger logging.Logger
	now    func() time.Time
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Conversations == nil {
		cfg.Conversations = NewMemoryConversationStore(24 * time.Hour)
	}
	if cfg.ClaimTTL <= 0 {
		cfg.ClaimTTL = 24 * time.Hour
	}
	if cfg.Claims == nil {
		cfg.Claims = NewMemoryClaims()
	}
	return &Service{cfg: cfg, logger: cfg.Logger.Named("lead"), now: cfg.Now}
}

// SubmitResult is the outcome of a form submission.
type SubmitResult struct {
	Lead   *Lead       `json:"lead,omitempty"`
	Errors FieldErrors `json:"errors,omitempty"`
	Toast  *page.Toast `json:"toast,omitempty"`
}

// SubmitForm validates and dispatches a contact form.  Field errors are
// returned in the result together with a validation error; delivery failures
// carry an error toast.
func (s *Service) SubmitForm(ctx context.Context, visitorID string, form ContactForm, assignments map[string]string) (*SubmitResult, error) {
	if errs := form.Validate(); errs != nil {
		return &SubmitResult{Errors: errs}, apperrors.New(apperrors.ErrCodeLeadInvalid, "contact form is invalid")
	}
	l := form.ToLead(visitorID, s.now())
	l.Assignments = assignments

	if err := s.Dispatch(ctx, l); err != nil {
		toast := page.NewToast(page.ToastError, MessageSubmitFailed)
		return &SubmitResult{Toast: &toast}, err
	}
	s.track(ctx, visitorID, analytics.ActionFormSubmit, analytics.CategoryContact, l.Package)
	toast := page.NewToast(page.ToastSuccess, MessageSubmitted)
	return &SubmitResult{Lead: l, Toast: &toast}, nil
}

// Dispatch stores l and delivers it.  Storage failures are logged; delivery
// fails only when every delivery channel failed.
func (s *Service) Dispatch(ctx context.Context, l *Lead) error {
	log := s.logger.With(logging.String("lead_id", l.ID), logging.String("source", string(l.Source)))

	if s.cfg.Repository != nil {
		if err := s.cfg.Repository.Save(ctx, l); err != nil {
			log.Error("lead not persisted", logging.Err(err))
		}
	}
	if s.cfg.Archive != nil {
		if err := s.cfg.Archive.Put(ctx, l); err != nil {
			log.Warn("lead not archived", logging.Err(err))
		}
	}

	if s.cfg.Async && s.cfg.Publisher != nil {
		if err := s.cfg.Publisher.PublishLead(ctx, l); err != nil {
			log.Error("lead not published", logging.Err(err))
			return apperrors.Wrap(err, apperrors.ErrCodeLeadDeliveryFailed, "publish lead")
		}
		log.Info("lead queued")
		return nil
	}
	return s.Deliver(ctx, l)
}

// Deliver runs every notifier.  With no notifiers configured the lead is
// only logged.
func (s *Service) Deliver(ctx context.Context, l *Lead) error {
	log := s.logger.With(logging.String("lead_id", l.ID))
	if len(s.cfg.Notifiers) == 0 {
		log.Info("lead received without notifiers", logging.Any("lead", l))
		return nil
	}
	var errs []error
	for _, n := range s.cfg.Notifiers {
		if err := n.Notify(ctx, l); err != nil {
			log.Error("notifier failed", logging.String("notifier", n.Name()), logging.Err(err))
			errs = append(errs, err)
			continue
		}
		log.Debug("lead delivered", logging.String("notifier", n.Name()))
	}
	if len(errs) == len(s.cfg.Notifiers) {
		return apperrors.Wrap(errors.Join(errs...), apperrors.ErrCodeLeadDeliveryFailed, "deliver lead")
	}
	return nil
}

// ── Chat ────────────────────────────────────────────────────────────────────

// ChatState is a conversation and the bot's latest reply.
type ChatState struct {
	Conversation *Conversation `json:"conversation"`
	Reply        Reply         `json:"reply"`
}

// StartChat opens a conversation.
func (s *Service) StartChat(ctx context.Context, visitorID, pageURL string) (*ChatState, error) {
	c := NewConversation(visitorID, pageURL, s.now())
	if err := s.cfg.Conversations.Save(ctx, c); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "save conversation")
	}
	s.track(ctx, visitorID, analytics.ActionChatStarted, analytics.CategoryChat, c.UTMSource)
	return &ChatState{Conversation: c, Reply: c.Opening()}, nil
}

// AnswerChat records an option of the pending question.
func (s *Service) AnswerChat(ctx context.Context, id, value string) (*ChatState, error) {
	c, err := s.cfg.Conversations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	reply, err := c.Answer(value)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.Conversations.Save(ctx, c); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "save conversation")
	}
	return &ChatState{Conversation: c, Reply: reply}, nil
}

// MessageChat handles free text, completing the conversation when it carries
// the awaited contact.  Completion is claimed per conversation so concurrent
// messages produce one lead; the losers get ErrCodeConversationState.
// Delivery of the resulting lead is best effort; the visitor is thanked
// either way.
func (s *Service) MessageChat(ctx context.Context, id, text string) (*ChatState, error) {
	c, err := s.cfg.Conversations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Completed() {
		return nil, apperrors.New(apperrors.ErrCodeConversationState, "conversation already completed").WithDetail(id)
	}
	reply, l, err := c.Message(text, s.now())
	if err != nil {
		return nil, err
	}
	if l != nil {
		ok, err := s.cfg.Claims.Claim(ctx, "chat-complete:"+id, s.cfg.ClaimTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeConversationState, "conversation already completed").WithDetail(id)
		}
	}
	if err := s.cfg.Conversations.Save(ctx, c); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "save conversation")
	}
	if l != nil {
		if err := s.Dispatch(ctx, l); err != nil {
			s.logger.Error("chat lead not delivered", logging.String("conversation_id", id), logging.Err(err))
		}
		s.track(ctx, c.VisitorID, analytics.ActionChatCompleted, analytics.CategoryChat, l.TaskType)
	}
	return &ChatState{Conversation: c, Reply: reply}, nil
}

func (s *Service) track(ctx context.Context, visitorID, action, category, label string) {
	if s.cfg.Tracker == nil {
		return
	}
	e := analytics.NewEvent(action, category, label)
	e.VisitorID = visitorID
	if err := s.cfg.Tracker.Track(ctx, e); err != nil {
		s.logger.Warn("event dropped", logging.String("action", action), logging.Err(err))
	}
}

//Personal.AI order the ending

package landing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/domain/exitintent"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// Browser-forwarded page view events.
const (
	EventPointerExit = "pointer_exit"
	EventActivity    = "activity"
	EventResize      = "resize"
	EventDismiss     = "dismiss"
)

// PageViewEvent is one input forwarded by the browser glue.
type PageViewEvent struct {
	Type          string  `json:"type"`
	ClientY       float64 `json:"client_y,omitempty"`
	RelatedTarget bool    `json:"related_target,omitempty"`
	Width         int     `json:"width,omitempty"`
}

// PageViewState is returned after each event.  Popup is set on the response
// that first observes the popup being shown; Dismissed stays set once the
// visitor has closed it.
type PageViewState struct {
	ID        string            `json:"id"`
	State     exitintent.State  `json:"state"`
	Popup     *exitintent.Popup `json:"popup,omitempty"`
	ShownAt   *time.Time        `json:"shown_at,omitempty"`
	Dismissed bool              `json:"dismissed"`
}

type pageView struct {
	machine  *exitintent.Machine
	capture  *exitintent.Capture
	visitor  string
	lastSeen time.Time
}

// PageViewsConfig configures PageViews.
type PageViewsConfig struct {
	Exit          exitintent.Config
	TTL           time.Duration
	SweepSchedule string
	Scheduler     exitintent.Scheduler
	Tracker       analytics.Tracker
	Metrics       *prometheus.LandingMetrics
	Logger        logging.Logger
	Now           func() time.Time
}

// PageViews holds the exit-intent machine of every live page view.  Views
// idle for longer than TTL are dropped by a cron sweep.
type PageViews struct {
	mu    sync.Mutex
	views map[string]*pageView
	cfg   PageViewsConfig
	cron  *cron.Cron
	log   logging.Logger
}

var cronParser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// NewPageViews creates the registry.  Call Start to enable sweeping.
func NewPageViews(cfg PageViewsConfig) *PageViews {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "@every 1m"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	return &PageViews{
		views: make(map[string]*pageView),
		cfg:   cfg,
		log:   cfg.Logger.Named("pageviews"),
	}
}

// Open arms a machine for a freshly rendered page.  It returns "" when the
// variant shows no popup.
func (p *PageViews) Open(visitorID, variant string, width int) string {
	capture := &exitintent.Capture{}
	m := exitintent.New(variant, width, p.cfg.Exit, exitintent.Deps{
		Scheduler: p.cfg.Scheduler,
		Presenter: capture,
		Tracker:   p.cfg.Tracker,
		Logger:    p.log,
		VisitorID: visitorID,
	})
	if m == nil {
		return ""
	}
	id := uuid.NewString()
	p.mu.Lock()
	p.views[id] = &pageView{machine: m, capture: capture, visitor: visitorID, lastSeen: p.cfg.Now()}
	n := len(p.views)
	p.mu.Unlock()
	p.setGauge(n)
	return id
}

// Handle applies ev to the page view id.
func (p *PageViews) Handle(ctx context.Context, id string, ev PageViewEvent) (*PageViewState, error) {
	p.mu.Lock()
	v, ok := p.views[id]
	if ok {
		v.lastSeen = p.cfg.Now()
	}
	p.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.ErrCodePageViewNotFound, "page view not found").WithDetail(id)
	}

	switch ev.Type {
	case EventPointerExit:
		v.machine.PointerExit(ctx, ev.ClientY, ev.RelatedTarget)
	case EventActivity:
		v.machine.Activity()
	case EventResize:
		v.machine.Resize(ev.Width)
	case EventDismiss:
		v.machine.Dismiss()
	default:
		return nil, errors.Newf(errors.ErrCodeValidation, "unknown page view event %q", ev.Type)
	}
	return p.state(id, v), nil
}

// Poll reports the state of id, delivering a popup shown by the inactivity
// timer since the last call.
func (p *PageViews) Poll(id string) (*PageViewState, error) {
	p.mu.Lock()
	v, ok := p.views[id]
	p.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.ErrCodePageViewNotFound, "page view not found").WithDetail(id)
	}
	return p.state(id, v), nil
}

func (p *PageViews) state(id string, v *pageView) *PageViewState {
	st := &PageViewState{
		ID:        id,
		State:     v.machine.State(),
		Popup:     v.capture.Take(),
		Dismissed: v.capture.Hidden(),
	}
	if at := v.machine.ShownAt(); !at.IsZero() {
		st.ShownAt = &at
	}
	return st
}

// Close stops and forgets id.
func (p *PageViews) Close(id string) {
	p.mu.Lock()
	v, ok := p.views[id]
	delete(p.views, id)
	n := len(p.views)
	p.mu.Unlock()
	if ok {
		v.machine.Stop()
		p.setGauge(n)
	}
}

// Len returns the number of live views.
func (p *PageViews) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.views)
}

// Sweep drops views idle for longer than the TTL and returns how many.
func (p *PageViews) Sweep() int {
	cutoff := p.cfg.Now().Add(-p.cfg.TTL)
	var expired []*pageView
	p.mu.Lock()
	for id, v := range p.views {
		if v.lastSeen.Before(cutoff) {
			expired = append(expired, v)
			delete(p.views, id)
		}
	}
	n := len(p.views)
	p.mu.Unlock()

	for _, v := range expired {
		v.machine.Stop()
	}
	if len(expired) > 0 {
		p.log.Debug("page views swept", logging.Int("expired", len(expired)), logging.Int("live", n))
		p.setGauge(n)
	}
	return len(expired)
}

// Start schedules Sweep.
func (p *PageViews) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cron != nil {
		return nil
	}
	c := cron.New(cron.WithParser(cronParser))
	if _, err := c.AddFunc(p.cfg.SweepSchedule, func() { p.Sweep() }); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidConfig, "invalid sweep schedule").WithDetail(p.cfg.SweepSchedule)
	}
	c.Start()
	p.cron = c
	return nil
}

// Stop halts sweeping and every machine.
func (p *PageViews) Stop() {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	views := p.views
	p.views = make(map[string]*pageView)
	p.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	for _, v := range views {
		v.machine.Stop()
	}
	p.setGauge(0)
}

func (p *PageViews) setGauge(n int) {
	if p.cfg.Metrics == nil {
		return
	}
	p.cfg.Metrics.ActivePageViews.WithLabelValues().Set(float64(n))
}

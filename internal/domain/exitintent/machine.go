// Package exitintent implements the exit-intent popup: a one-shot state
// machine armed on page load that shows a popup the first time the pointer
// leaves through the top edge of the viewport, or after a period of
// inactivity on small screens.
package exitintent

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// State of a Machine.
type State string

const (
	StateArmed State = "armed"
	StateShown State = "shown"
)

// Defaults of Config.
const (
	DefaultEdgeThreshold     = 10.0
	DefaultInactivityTimeout = 30 * time.Second
	DefaultMobileMaxWidth    = 768
)

// Config tunes the triggers.
type Config struct {
	// EdgeThreshold is the clientY below which a pointer exit counts.
	EdgeThreshold float64
	// InactivityTimeout fires the popup on mobile-class viewports.
	InactivityTimeout time.Duration
	// MobileMaxWidth is the exclusive viewport width bound of mobile-class
	// devices.
	MobileMaxWidth int
}

func (c Config) withDefaults() Config {
	if c.EdgeThreshold <= 0 {
		c.EdgeThreshold = DefaultEdgeThreshold
	}
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = DefaultInactivityTimeout
	}
	if c.MobileMaxWidth <= 0 {
		c.MobileMaxWidth = DefaultMobileMaxWidth
	}
	return c
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler creates Timers.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules with time.AfterFunc.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Presenter mounts and unmounts the popup.
type Presenter interface {
	Show(p Popup)
	Hide()
}

// PresenterFunc adapts a show function to Presenter; Hide is a no-op.
type PresenterFunc func(p Popup)

func (f PresenterFunc) Show(p Popup) { f(p) }
func (PresenterFunc) Hide()           {}

// Deps are the collaborators of a Machine.  Scheduler defaults to
// RealScheduler; Tracker and Logger are optional.
type Deps struct {
	Scheduler Scheduler
	Presenter Presenter
	Tracker   analytics.Tracker
	Logger    logging.Logger
	VisitorID string
}

// Machine is the exit-intent state machine of one page view.
type Machine struct {
	mu        sync.Mutex
	popup     Popup
	cfg       Config
	width     int
	deps      Deps
	state     State
	timer     Timer
	stopped   bool
	dismissed bool
	shownAt   time.Time
}

// New arms a machine for variant on a viewport width pixels wide.  It returns
// nil when the variant has no popup (no-popup or unknown), in which case the
// feature is simply not initialised.
func New(variant string, width int, cfg Config, deps Deps) *Machine {
	popup, ok := PopupFor(variant)
	if !ok {
		return nil
	}
	if deps.Scheduler == nil {
		deps.Scheduler = RealScheduler{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	m := &Machine{
		popup: popup,
		cfg:   cfg.withDefaults(),
		width: width,
		deps:  deps,
		state: StateArmed,
	}
	m.mu.Lock()
	m.rearmLocked()
	m.mu.Unlock()
	return m
}

// Variant returns the popup variant the machine shows.
func (m *Machine) Variant() string { return m.popup.Variant }

// Popup returns the popup content.
func (m *Machine) Popup() Popup { return m.popup }

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dismissed reports whether the visitor closed the popup.
func (m *Machine) Dismissed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dismissed
}

// ShownAt returns when the popup was shown, or the zero time.
func (m *Machine) ShownAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shownAt
}

// PointerExit handles the pointer leaving the document.  It shows the popup
// when the exit happened through the top edge (clientY under the threshold)
// and not into another element.  It reports whether this call showed it.
func (m *Machine) PointerExit(ctx context.Context, clientY float64, hasRelatedTarget bool) bool {
	if hasRelatedTarget || clientY >= m.cfg.EdgeThreshold {
		return false
	}
	return m.trigger(ctx, "pointer_exit")
}

// Activity restarts the inactivity countdown.
func (m *Machine) Activity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateArmed || m.stopped {
		return
	}
	m.rearmLocked()
}

// Resize records a new viewport width; it is read when the countdown expires.
func (m *Machine) Resize(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width = width
}

// Dismiss removes a shown popup.  The machine does not re-arm.
func (m *Machine) Dismiss() {
	m.mu.Lock()
	if m.state != StateShown || m.dismissed {
		m.mu.Unlock()
		return
	}
	m.dismissed = true
	m.mu.Unlock()
	m.deps.Presenter.Hide()
}

// Stop cancels the pending countdown; later inputs are ignored.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) rearmLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = m.deps.Scheduler.AfterFunc(m.cfg.InactivityTimeout, m.expire)
}

func (m *Machine) expire() {
	m.mu.Lock()
	mobile := m.width < m.cfg.MobileMaxWidth
	m.mu.Unlock()
	if !mobile {
		return
	}
	m.trigger(context.Background(), "inactivity")
}

func (m *Machine) trigger(ctx context.Context, cause string) bool {
	m.mu.Lock()
	if m.state != StateArmed || m.stopped {
		m.mu.Unlock()
		return false
	}
	m.state = StateShown
	m.shownAt = time.Now()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	m.deps.Presenter.Show(m.popup)
	m.deps.Logger.Debug("exit popup shown",
		logging.String("variant", m.popup.Variant),
		logging.String("cause", cause))
	if m.deps.Tracker != nil {
		e := analytics.NewEvent(analytics.ActionExitPopupShown, analytics.CategoryABTest, m.popup.Variant).
			WithParam("cause", cause)
		e.VisitorID = m.deps.VisitorID
		if err := m.deps.Tracker.Track(ctx, e); err != nil {
			m.deps.Logger.Warn("exit popup event dropped", logging.Err(err))
		}
	}
	return true
}

//Personal.AI order the ending

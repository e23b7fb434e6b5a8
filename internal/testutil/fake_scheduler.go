package testutil

import (
	"sync"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/exitintent"
)

var _ exitintent.Scheduler = (*FakeScheduler)(nil)

// FakeScheduler collects timers instead of running them.  Tests fire them
// explicitly with Fire or FireAll.
type FakeScheduler struct {
	mu     sync.Mutex
	timers []*FakeTimer
}

// FakeTimer is a timer created by FakeScheduler.
type FakeTimer struct {
	Delay   time.Duration
	f       func()
	stopped bool
	fired   bool
	mu      *sync.Mutex
}

// NewFakeScheduler returns an empty FakeScheduler.
func NewFakeScheduler() *FakeScheduler { return &FakeScheduler{} }

func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) exitintent.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &FakeTimer{Delay: d, f: f, mu: &s.mu}
	s.timers = append(s.timers, t)
	return t
}

func (t *FakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Created returns how many timers were scheduled.
func (s *FakeScheduler) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Pending returns the timers neither stopped nor fired.
func (s *FakeScheduler) Pending() []*FakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*FakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// FireAll runs every pending timer and returns how many ran.
func (s *FakeScheduler) FireAll() int {
	pending := s.Pending()
	for _, t := range pending {
		s.Fire(t)
	}
	return len(pending)
}

// Fire runs t unless it was stopped.
func (s *FakeScheduler) Fire(t *FakeTimer) bool {
	s.mu.Lock()
	if t.stopped || t.fired {
		s.mu.Unlock()
		return false
	}
	t.fired = true
	s.mu.Unlock()
	t.f()
	return true
}

// Package notify holds lead notification channels and the decorators shared
// by them.
package notify

import (
	"context"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
)

// Instrumented records the outcome and latency of every Notify call.
type Instrumented struct {
	next    lead.Notifier
	metrics *prometheus.LandingMetrics
	now     func() time.Time
}

// Instrument wraps next.  A nil metrics set returns next unchanged.
func Instrument(next lead.Notifier, metrics *prometheus.LandingMetrics) lead.Notifier {
	if metrics == nil {
		return next
	}
	return &Instrumented{next: next, metrics: metrics, now: time.Now}
}

func (i *Instrumented) Name() string { return i.next.Name() }

func (i *Instrumented) Notify(ctx context.Context, l *lead.Lead) error {
	start := i.now()
	err := i.next.Notify(ctx, l)
	i.metrics.RecordLeadDelivery(i.next.Name(), err, i.now().Sub(start))
	if err != nil {
		i.metrics.RecordError("notify."+i.next.Name(), "delivery_failed")
	}
	return err
}

// Collect drops unconfigured channels and instruments the rest.
func Collect(metrics *prometheus.LandingMetrics, notifiers ...lead.Notifier) []lead.Notifier {
	out := make([]lead.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		out = append(out, Instrument(n, metrics))
	}
	return out
}

//Personal.AI order the ending

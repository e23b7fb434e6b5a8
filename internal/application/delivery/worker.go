// Package delivery notifies leads handed over by the apiserver through the
// leads topic.  Each lead is notified at most once across worker replicas.
package delivery

import (
	"context"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
)

// DefaultClaimTTL bounds how long a delivered lead stays deduplicated.
const DefaultClaimTTL = 24 * time.Hour

// Claimer grants at-most-once processing of a named unit of work.
type Claimer interface {
	Claim(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// Deliverer runs the notifiers of one lead.
type Deliverer interface {
	Deliver(ctx context.Context, l *lead.Lead) error
}

// Config wires a Worker.
type Config struct {
	Deliverer Deliverer
	// Claims is optional; without it redelivered messages notify again.
	Claims   Claimer
	ClaimTTL time.Duration
	Metrics  *prometheus.LandingMetrics
	Logger   logging.Logger
}

// Worker consumes lead.submitted messages.
type Worker struct {
	cfg    Config
	logger logging.Logger
}

// NewWorker creates a Worker.
func NewWorker(cfg Config) *Worker {
	if cfg.ClaimTTL <= 0 {
		cfg.ClaimTTL = DefaultClaimTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	return &Worker{cfg: cfg, logger: cfg.Logger.Named("delivery")}
}

// Handler returns the consumer handler of the leads topic.
func (w *Worker) Handler() kafka.MessageHandler {
	return kafka.LeadHandler(w.Deliver, func(msg *kafka.Message, err error) {
		w.logger.Warn("dropping malformed lead message",
			logging.String("topic", msg.Topic),
			logging.Int64("offset", msg.Offset),
			logging.Err(err))
		w.observe(msg.Topic, "malformed", 0)
	})
}

// Deliver notifies l unless another delivery already claimed it.  A failed
// delivery releases the claim so the consumer retry can run it again.
func (w *Worker) Deliver(ctx context.Context, l *lead.Lead) error {
	start := time.Now()
	name := "lead:" + l.ID
	log := w.logger.With(logging.String("lead_id", l.ID))

	if w.cfg.Claims != nil {
		ok, err := w.cfg.Claims.Claim(ctx, name, w.cfg.ClaimTTL)
		if err != nil {
			// Redis trouble must not block notification.
			log.Warn("claim failed, delivering anyway", logging.Err(err))
		} else if !ok {
			log.Info("lead already delivered")
			w.observe(kafka.TopicLeadsSubmitted, "duplicate", time.Since(start))
			return nil
		}
	}

	if err := w.cfg.Deliverer.Deliver(ctx, l); err != nil {
		if w.cfg.Claims != nil {
			if rerr := w.cfg.Claims.Release(ctx, name); rerr != nil {
				log.Warn("claim release failed", logging.Err(rerr))
			}
		}
		w.observe(kafka.TopicLeadsSubmitted, "error", time.Since(start))
		return err
	}
	log.Info("lead delivered", logging.String("source", string(l.Source)))
	w.observe(kafka.TopicLeadsSubmitted, "ok", time.Since(start))
	return nil
}

func (w *Worker) observe(topic, status string, d time.Duration) {
	if w.cfg.Metrics == nil {
		return
	}
	w.cfg.Metrics.MessageProcessingTime.WithLabelValues(topic, status).Observe(d.Seconds())
}

//Personal.AI order the ending

package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
)

// HealthChecker probes one backend.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckFunc adapts a probe function such as a client's Ping.
func CheckFunc(name string, probe func(context.Context) error) HealthChecker {
	return funcChecker{name: name, probe: probe}
}

type funcChecker struct {
	name  string
	probe func(context.Context) error
}

func (f funcChecker) Name() string                    { return f.name }
func (f funcChecker) Check(ctx context.Context) error { return f.probe(ctx) }

// Optional marks c as non-critical: its failure degrades /healthz/detail but
// keeps /readyz at 200.
func Optional(c HealthChecker) HealthChecker { return optionalChecker{c} }

type optionalChecker struct{ HealthChecker }

func isOptional(c HealthChecker) bool {
	_, ok := c.(optionalChecker)
	return ok
}

// Component status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

const (
	readinessTimeout = 5 * time.Second
	detailTimeout    = 10 * time.Second
)

// HealthHandler serves the probes.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
	metrics  *prometheus.LandingMetrics
}

// NewHealthHandler creates a HealthHandler.  Checkers are critical unless
// wrapped with Optional.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers, version: version, startAt: time.Now()}
}

// WithMetrics publishes every probe result as health_check_status.
func (h *HealthHandler) WithMetrics(m *prometheus.LandingMetrics) *HealthHandler {
	h.metrics = m
	return h
}

// LivenessResponse is the /healthz body.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the /readyz body.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// DetailedResponse is the /healthz/detail body.
type DetailedResponse struct {
	Status     string                    `json:"status"`
	Version    string                    `json:"version"`
	Uptime     string                    `json:"uptime"`
	Components map[string]ComponentCheck `json:"components"`
}

// ComponentCheck is the result of one checker.
type ComponentCheck struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
	Latency  string `json:"latency,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Liveness handles GET /healthz.  Backends are never probed.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{Status: "alive", Version: h.version, Uptime: h.uptime()})
}

// Readiness handles GET /readyz: 503 when a critical checker fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	components := h.checkAll(ctx)
	if criticalDown(components) {
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Components: components})
		return
	}
	writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Components: components})
}

// Detailed handles GET /healthz/detail.  Any failure reports degraded; only a
// critical one turns the status code into 503.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), detailTimeout)
	defer cancel()

	components := h.checkAll(ctx)
	resp := DetailedResponse{Status: StatusHealthy, Version: h.version, Uptime: h.uptime(), Components: components}
	for _, c := range components {
		if c.Status != StatusHealthy {
			resp.Status = "degraded"
			break
		}
	}
	code := http.StatusOK
	if criticalDown(components) {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.startAt).Truncate(time.Second).String()
}

func criticalDown(components map[string]ComponentCheck) bool {
	for _, c := range components {
		if c.Status != StatusHealthy && !c.Optional {
			return true
		}
	}
	return false
}

// checkAll probes every checker concurrently.  A failing checker never
// cancels the others.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	results := make(map[string]ComponentCheck, len(h.checkers))
	var mu sync.Mutex
	var g errgroup.Group

	for _, c := range h.checkers {
		c := c
		g.Go(func() error {
			start := time.Now()
			err := c.Check(ctx)
			cc := ComponentCheck{
				Status:   StatusHealthy,
				Optional: isOptional(c),
				Latency:  time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status, cc.Error = StatusUnhealthy, err.Error()
			}
			if h.metrics != nil {
				h.metrics.SetHealth(c.Name(), err == nil)
			}
			mu.Lock()
			results[c.Name()] = cc
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

//Personal.AI order the ending

package prometheus

import (
	"context"
	"strconv"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/analytics"
)

// LandingMetrics holds every metric the landing service exports.
type LandingMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Experiments
	AssignmentsTotal   CounterVec
	PageRendersTotal   CounterVec
	PageRenderDuration HistogramVec
	ActivePageViews    GaugeVec
	ExitPopupsShown    CounterVec

	// Analytics
	AnalyticsEventsTotal CounterVec
	VisitorParamsTotal   CounterVec

	// Leads
	LeadsTotal            CounterVec
	LeadDeliveriesTotal   CounterVec
	LeadDeliveryDuration  HistogramVec
	ChatSessionsTotal     CounterVec
	ROICalculationsTotal  CounterVec
	MessageProcessingTime HistogramVec

	// System
	ErrorsTotal       CounterVec
	HealthCheckStatus GaugeVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultRenderDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1}
	DefaultNotifyDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}
)

// NewLandingMetrics registers all metrics on collector.
func NewLandingMetrics(collector MetricsCollector) *LandingMetrics {
	m := &LandingMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests")

	m.AssignmentsTotal = collector.RegisterCounter("ab_assignments_total", "Reported test assignments per variant", "test", "variant")
	m.PageRendersTotal = collector.RegisterCounter("page_renders_total", "Landing page renders", "status")
	m.PageRenderDuration = collector.RegisterHistogram("page_render_duration_seconds", "Landing page parse+apply+serialise time", DefaultRenderDurationBuckets)
	m.ActivePageViews = collector.RegisterGauge("page_views_active", "Page views holding an exit-intent machine")
	m.ExitPopupsShown = collector.RegisterCounter("exit_popups_shown_total", "Exit-intent popups shown", "variant", "cause")

	m.AnalyticsEventsTotal = collector.RegisterCounter("analytics_events_total", "Analytics events tracked", "action", "category")
	m.VisitorParamsTotal = collector.RegisterCounter("analytics_visitor_params_total", "Aggregate visitor param payloads")

	m.LeadsTotal = collector.RegisterCounter("leads_total", "Leads accepted", "source")
	m.LeadDeliveriesTotal = collector.RegisterCounter("lead_deliveries_total", "Lead notifier outcomes", "notifier", "status")
	m.LeadDeliveryDuration = collector.RegisterHistogram("lead_delivery_duration_seconds", "Lead notifier latency", DefaultNotifyDurationBuckets, "notifier")
	m.ChatSessionsTotal = collector.RegisterCounter("chat_sessions_total", "Chat qualification sessions", "stage")
	m.ROICalculationsTotal = collector.RegisterCounter("roi_calculations_total", "ROI calculations", "task_type")
	m.MessageProcessingTime = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultNotifyDurationBuckets, "topic", "status")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component", "component", "code")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// RecordHTTPRequest records one finished request.
func (m *LandingMetrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLeadDelivery records one notifier outcome.
func (m *LandingMetrics) RecordLeadDelivery(notifier string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LeadDeliveriesTotal.WithLabelValues(notifier, status).Inc()
	m.LeadDeliveryDuration.WithLabelValues(notifier).Observe(duration.Seconds())
}

// RecordError counts an error of a component.
func (m *LandingMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

// SetHealth publishes a component health probe result.
func (m *LandingMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// AnalyticsTracker turns analytics events into counters.  It never fails.
type AnalyticsTracker struct {
	m *LandingMetrics
}

// NewAnalyticsTracker creates an AnalyticsTracker over m.
func NewAnalyticsTracker(m *LandingMetrics) *AnalyticsTracker {
	return &AnalyticsTracker{m: m}
}

func (t *AnalyticsTracker) Track(_ context.Context, e analytics.Event) error {
	t.m.AnalyticsEventsTotal.WithLabelValues(actionLabel(e.Action), categoryLabel(e.Category)).Inc()
	switch e.Action {
	case analytics.ActionABTestAssignment:
		t.m.AssignmentsTotal.WithLabelValues(e.Params["test_name"], e.Params["variant"]).Inc()
	case analytics.ActionExitPopupShown:
		t.m.ExitPopupsShown.WithLabelValues(e.Label, e.Params["cause"]).Inc()
	case analytics.ActionFormSubmit:
		t.m.LeadsTotal.WithLabelValues("contact_form").Inc()
	case analytics.ActionChatStarted:
		t.m.ChatSessionsTotal.WithLabelValues("started").Inc()
	case analytics.ActionChatCompleted:
		t.m.ChatSessionsTotal.WithLabelValues("completed").Inc()
		t.m.LeadsTotal.WithLabelValues("chat_widget").Inc()
	case analytics.ActionCalculatorCalculate:
		t.m.ROICalculationsTotal.WithLabelValues(taskTypeLabel(e.Label)).Inc()
	}
	return nil
}

func (t *AnalyticsTracker) Params(context.Context, string, map[string]interface{}) error {
	t.m.VisitorParamsTotal.WithLabelValues().Inc()
	return nil
}

// actionLabel bounds label cardinality to the well-known actions.
func actionLabel(action string) string {
	if analytics.KnownAction(action) {
		return action
	}
	return "other"
}

// categoryLabel bounds label cardinality to the well-known categories.
func categoryLabel(category string) string {
	if analytics.KnownCategory(category) {
		return category
	}
	return "other"
}

// taskTypeLabel bounds label cardinality to the calculator's known task types.
func taskTypeLabel(taskType string) string {
	switch taskType {
	case "email", "crm", "hr", "support", "analytics":
		return taskType
	}
	return "other"
}

//Personal.AI order the ending

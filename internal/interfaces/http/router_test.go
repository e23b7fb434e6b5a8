package http

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/landing-ab/internal/application/landing"
	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/domain/experiment"
	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/domain/roi"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/landing-ab/internal/infrastructure/render/htmldoc"
	"github.com/turtacn/landing-ab/internal/interfaces/http/handlers"
	"github.com/turtacn/landing-ab/internal/interfaces/http/middleware"
	"github.com/turtacn/landing-ab/internal/testutil"
)

const consoleToken = "dev-token"

func newTestRouter(t *testing.T, mutate func(*RouterConfig)) http.Handler {
	t.Helper()
	recorder := analytics.NewRecorder()
	catalog := experiment.DefaultCatalog()
	views := landing.NewPageViews(landing.PageViewsConfig{Scheduler: testutil.NewFakeScheduler(), Tracker: recorder})
	svc, err := landing.NewService(landing.Config{
		Source:    htmldoc.NewEmbeddedSource(),
		Catalog:   catalog,
		Selector:  experiment.NewSelector(experiment.NewRandomSource(1)),
		Reporter:  experiment.NewReporter(recorder, recorder, catalog, nil),
		PageViews: views,
	})
	require.NoError(t, err)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "router"}, nil)
	require.NoError(t, err)

	storage := handlers.CookieResolver{}
	cfg := RouterConfig{
		PageHandler:       handlers.NewPageHandler(svc, storage, nil),
		ExperimentHandler: handlers.NewExperimentHandler(svc, landing.NewConsole(svc, false), storage, nil, nil),
		LeadHandler:       handlers.NewLeadHandler(lead.NewService(lead.ServiceConfig{}), svc, storage, nil),
		ROIHandler:        handlers.NewROIHandler(roi.NewCalculator(recorder, nil), nil),
		EventHandler:      handlers.NewEventHandler(recorder, recorder, nil),
		PageViewHandler:   handlers.NewPageViewHandler(views, nil),
		HealthHandler:     handlers.NewHealthHandler("test"),
		Logging:           middleware.DefaultLoggingConfig(),
		ConsoleToken:      consoleToken,
		Metrics:           prometheus.NewLandingMetrics(collector),
		MetricsCollector:  collector,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRouter(cfg)
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNewRouter_PageIssuesVisitorAndAssignment(t *testing.T) {
	h := newTestRouter(t, nil)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	visitor := cookieNamed(w, middleware.DefaultVisitorCookie)
	assignment := cookieNamed(w, experiment.StorageKey)
	require.NotNil(t, visitor)
	require.NotNil(t, assignment)
	first := w.Body.String()

	// Same cookies give the same page.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(visitor)
	r.AddCookie(assignment)
	w = serve(h, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, cookieNamed(w, middleware.DefaultVisitorCookie))
	refreshed := cookieNamed(w, experiment.StorageKey)
	require.NotNil(t, refreshed, "reads extend the assignment cookie")
	assert.Equal(t, assignment.Value, refreshed.Value)
	assert.Equal(t, stripPageView(first), stripPageView(w.Body.String()))
}

var pageViewAttr = regexp.MustCompile(`\s` + landing.PageViewAttribute + `="[^"]*"`)

// stripPageView drops the per-render page view id.
func stripPageView(html string) string {
	return pageViewAttr.ReplaceAllString(html, "")
}

func TestNewRouter_HealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, nil)

	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil)).Code)

	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	w := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "router_http_requests_total")
	assert.Contains(t, w.Body.String(), "router_page_renders_total")
}

func TestNewRouter_ConsoleRequiresToken(t *testing.T) {
	h := newTestRouter(t, nil)

	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/experiments/catalog", nil)).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/experiments/assignments", nil)).Code)

	r := httptest.NewRequest(http.MethodPut, "/api/v1/experiments/assignments/cta-text", strings.NewReader(`{"variant":"save-time"}`))
	r.Header.Set(middleware.HeaderConsoleToken, consoleToken)
	w := serve(h, r)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"cta-text":"save-time"`)
	assert.NotNil(t, cookieNamed(w, experiment.StorageKey))
}

func TestNewRouter_ConsoleDisabledWithoutToken(t *testing.T) {
	h := newTestRouter(t, func(c *RouterConfig) { c.ConsoleToken = "" })
	r := httptest.NewRequest(http.MethodDelete, "/api/v1/experiments/assignments", nil)
	r.Header.Set(middleware.HeaderConsoleToken, "anything")
	assert.Equal(t, http.StatusForbidden, serve(h, r).Code)
}

func TestNewRouter_LeadRoutesRateLimited(t *testing.T) {
	h := newTestRouter(t, func(c *RouterConfig) {
		c.RateLimiter = middleware.NewKeyedLimiter(0.001, 1, 0)
	})
	body := `{"name":"Анна","contact":"anna@example.com","task":"CRM"}`

	r := httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(body))
	assert.Equal(t, http.StatusCreated, serve(h, r).Code)

	r = httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(body))
	assert.Equal(t, http.StatusTooManyRequests, serve(h, r).Code)

	// The calculator is not limited.
	for i := 0; i < 3; i++ {
		r = httptest.NewRequest(http.MethodPost, "/api/v1/roi", strings.NewReader(`{"hours_per_week":5,"hourly_rate":500,"task_type":"email"}`))
		assert.Equal(t, http.StatusOK, serve(h, r).Code)
	}
}

func TestNewRouter_ChatAndPageViewRoutes(t *testing.T) {
	h := newTestRouter(t, nil)

	w := serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/chat/sessions", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/chat/sessions/nope/answers", strings.NewReader(`{"value":"crm"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/pageviews/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(`{"action":"faq_expand","label":"q"}`)))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestNewRouter_CORS(t *testing.T) {
	h := newTestRouter(t, func(c *RouterConfig) {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = []string{"https://example.com"}
		c.CORS = &cors
	})
	r := httptest.NewRequest(http.MethodOptions, "/api/v1/roi", nil)
	r.Header.Set("Origin", "https://example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(h, r)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_NilHandlers_NoPanic(t *testing.T) {
	h := NewRouter(RouterConfig{})
	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/leads", nil)).Code)
}

//Personal.AI order the ending

package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/landing-ab/internal/application/landing"
	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/domain/experiment"
	"github.com/turtacn/landing-ab/internal/domain/exitintent"
	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/domain/roi"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/infrastructure/render/htmldoc"
	"github.com/turtacn/landing-ab/internal/interfaces/http/middleware"
	"github.com/turtacn/landing-ab/internal/testutil"
	"github.com/turtacn/landing-ab/pkg/errors"
)

const testVisitor = "9b2d8f7e-0c1a-4e52-8a77-2f6c1d3b4a55"

type env struct {
	landing    *landing.Service
	views      *landing.PageViews
	recorder   *analytics.Recorder
	namespaces *experiment.MemoryNamespaces
	storage    StorageResolver
	sched      *testutil.FakeScheduler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		recorder:   analytics.NewRecorder(),
		namespaces: experiment.NewMemoryNamespaces(),
		sched:      testutil.NewFakeScheduler(),
	}
	e.storage = NamespaceResolver{Namespaces: e.namespaces}
	e.views = landing.NewPageViews(landing.PageViewsConfig{Scheduler: e.sched, Tracker: e.recorder})
	catalog := experiment.DefaultCatalog()
	svc, err := landing.NewService(landing.Config{
		Source:    htmldoc.NewEmbeddedSource(),
		Catalog:   catalog,
		Selector:  experiment.NewSelector(experiment.SourceFunc(func() float64 { return 0 })),
		Reporter:  experiment.NewReporter(e.recorder, e.recorder, catalog, nil),
		PageViews: e.views,
	})
	require.NoError(t, err)
	e.landing = svc
	return e
}

func request(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	return r.WithContext(middleware.WithVisitorID(r.Context(), testVisitor))
}

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// ── common ──────────────────────────────────────────────────────────────────

func TestWriteAppError(t *testing.T) {
	r := request(http.MethodGet, "/", "")
	w := httptest.NewRecorder()
	writeAppError(w, r, nil, errors.New(errors.ErrCodeTestNotFound, "no such test").WithDetail("hero"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "EXP_001", body.Code)
	assert.Equal(t, "no such test", body.Message)
	assert.Equal(t, "hero", body.Detail)

	logger := testutil.NewMockLogger()
	w = httptest.NewRecorder()
	writeAppError(w, r, logger, errors.Wrap(assert.AnError, errors.ErrCodeDatabaseError, "select lead"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "COMMON_012", body.Code)
	assert.NotContains(t, w.Body.String(), "select lead")
	assert.True(t, logger.HasMessage("error", "request failed"))

	w = httptest.NewRecorder()
	writeAppError(w, r, nil, assert.AnError)
	decode(t, w, &body)
	assert.Equal(t, "COMMON_001", body.Code)
}

func TestWriteAppError_PrefersRequestLogger(t *testing.T) {
	fallback, scoped := testutil.NewMockLogger(), testutil.NewMockLogger()
	r := request(http.MethodGet, "/", "")
	r = r.WithContext(logging.NewContext(r.Context(), scoped))

	writeAppError(httptest.NewRecorder(), r, fallback, errors.New(errors.ErrCodeInternal, "boom"))
	assert.True(t, scoped.HasMessage("error", "request failed"))
	assert.False(t, fallback.HasMessage("error", "request failed"))
}

func TestDecodeJSON_RejectsGarbage(t *testing.T) {
	var v map[string]string
	w := httptest.NewRecorder()
	err := decodeJSON(w, request(http.MethodPost, "/", "{not json"), &v)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
	assert.NoError(t, decodeJSON(w, request(http.MethodPost, "/", ""), &v))
}

// ── storage ─────────────────────────────────────────────────────────────────

func TestCookieStorage_ReadRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	resolver := CookieResolver{MaxAge: 24 * time.Hour}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: experiment.StorageKey, Value: base64.RawURLEncoding.EncodeToString([]byte(`{"faq":"with-faq"}`))})
	w := httptest.NewRecorder()
	s := resolver.Resolve(w, r)

	for i := 0; i < 2; i++ {
		got, found, err := s.Get(ctx, experiment.StorageKey)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, `{"faq":"with-faq"}`, got)
	}

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1, "one refresh per request")
	assert.Equal(t, 86400, cookies[0].MaxAge)
	assert.Equal(t, r.Cookies()[0].Value, cookies[0].Value)
}

func TestCookieStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	resolver := CookieResolver{Secure: true}

	w := httptest.NewRecorder()
	s := resolver.Resolve(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, found, err := s.Get(ctx, experiment.StorageKey)
	require.NoError(t, err)
	assert.False(t, found)

	value := `{"cta-text":"save-time","hero-headline":"control"}`
	require.NoError(t, s.Set(ctx, experiment.StorageKey, value))
	got, found, _ := s.Get(ctx, experiment.StorageKey)
	assert.True(t, found, "write visible within the request")
	assert.Equal(t, value, got)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.NotContains(t, cookies[0].Value, `"`)

	// Next request carries the cookie back.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	s = resolver.Resolve(httptest.NewRecorder(), r)
	got, found, _ = s.Get(ctx, experiment.StorageKey)
	assert.True(t, found)
	assert.Equal(t, value, got)

	require.NoError(t, s.Remove(ctx, experiment.StorageKey))
	_, found, _ = s.Get(ctx, experiment.StorageKey)
	assert.False(t, found)
}

func TestNamespaceResolver_ScopesByVisitor(t *testing.T) {
	ns := experiment.NewMemoryNamespaces()
	res := NamespaceResolver{Namespaces: ns}
	ctx := context.Background()

	a := res.Resolve(nil, request(http.MethodGet, "/", ""))
	require.NoError(t, a.Set(ctx, "k", "v"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other = other.WithContext(middleware.WithVisitorID(other.Context(), "someone-else"))
	_, found, _ := res.Resolve(nil, other).Get(ctx, "k")
	assert.False(t, found)

	v, found, _ := res.Resolve(nil, request(http.MethodGet, "/", "")).Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

// ── page ────────────────────────────────────────────────────────────────────

func TestPageHandler_Serve(t *testing.T) {
	e := newEnv(t)
	h := NewPageHandler(e.landing, e.storage, nil)

	w := httptest.NewRecorder()
	h.Serve(w, request(http.MethodGet, "/", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), `data-ab-hero-headline="control"`)
	assert.Empty(t, w.Header().Get(HeaderPageView))
}

func TestPageHandler_ArmsPageView(t *testing.T) {
	e := newEnv(t)
	console := landing.NewConsole(e.landing, true)
	storage := e.namespaces.ForVisitor(testVisitor)
	require.NoError(t, console.Set(context.Background(), storage, experiment.ExitIntent, exitintent.VariantDiscount))

	w := httptest.NewRecorder()
	r := request(http.MethodGet, "/", "")
	r.Header.Set("Sec-CH-Viewport-Width", "1440")
	NewPageHandler(e.landing, e.storage, nil).Serve(w, r)

	id := w.Header().Get(HeaderPageView)
	require.NotEmpty(t, id)
	assert.Contains(t, w.Body.String(), id)
	assert.Equal(t, 1, e.views.Len())
}

func TestViewportWidth(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, exitintent.DefaultMobileMaxWidth+1, viewportWidth(r))
	r.Header.Set("Viewport-Width", "390")
	assert.Equal(t, 390, viewportWidth(r))
	r.Header.Set("Sec-CH-Viewport-Width", "junk")
	assert.Equal(t, 390, viewportWidth(r))
}

// ── experiments ─────────────────────────────────────────────────────────────

func TestExperimentHandler_Console(t *testing.T) {
	e := newEnv(t)
	h := NewExperimentHandler(e.landing, landing.NewConsole(e.landing, true), e.storage, nil, nil)

	w := httptest.NewRecorder()
	h.GetAssignments(w, request(http.MethodGet, "/experiments/assignments", ""))
	var got AssignmentResponse
	decode(t, w, &got)
	assert.Equal(t, testVisitor, got.VisitorID)
	assert.Empty(t, got.Assignments)

	w = httptest.NewRecorder()
	h.SetVariant(w, withParam(request(http.MethodPut, "/", `{"variant":"save-time"}`), "test", "cta-text"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &got)
	assert.Equal(t, "save-time", got.Assignments["cta-text"])

	w = httptest.NewRecorder()
	h.SetVariant(w, withParam(request(http.MethodPut, "/", `{"variant":"nope"}`), "test", "cta-text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.SetVariant(w, withParam(request(http.MethodPut, "/", `{"variant":"x"}`), "test", "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ResetAssignments(w, request(http.MethodDelete, "/", ""))
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, found, _ := e.namespaces.ForVisitor(testVisitor).Get(context.Background(), experiment.StorageKey)
	assert.False(t, found)
}

func TestExperimentHandler_CatalogAndSimulate(t *testing.T) {
	e := newEnv(t)
	h := NewExperimentHandler(e.landing, landing.NewConsole(e.landing, false), e.storage,
		experiment.NewSelector(experiment.NewRandomSource(7)), nil)

	w := httptest.NewRecorder()
	h.Catalog(w, request(http.MethodGet, "/", ""))
	var cat struct {
		Tests []CatalogEntry `json:"tests"`
	}
	decode(t, w, &cat)
	assert.Len(t, cat.Tests, e.landing.Catalog().Len())
	for _, entry := range cat.Tests {
		sum := 0.0
		for _, p := range entry.Probabilities {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9, entry.Name)
	}

	w = httptest.NewRecorder()
	h.Simulate(w, withParam(request(http.MethodGet, "/?draws=2000", ""), "test", "cta-text"))
	require.Equal(t, http.StatusOK, w.Code)
	var dist experiment.Distribution
	decode(t, w, &dist)
	assert.Equal(t, 2000, dist.Draws)

	w = httptest.NewRecorder()
	h.Simulate(w, withParam(request(http.MethodGet, "/?draws=0", ""), "test", "cta-text"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ── leads and chat ──────────────────────────────────────────────────────────

type failingNotifier struct{}

func (failingNotifier) Name() string                            { return "failing" }
func (failingNotifier) Notify(context.Context, *lead.Lead) error { return assert.AnError }

type capturingNotifier struct{ leads []*lead.Lead }

func (c *capturingNotifier) Name() string { return "capture" }
func (c *capturingNotifier) Notify(_ context.Context, l *lead.Lead) error {
	c.leads = append(c.leads, l)
	return nil
}

func TestLeadHandler_SubmitForm(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.namespaces.ForVisitor(testVisitor).Set(context.Background(), experiment.StorageKey, `{"cta-text":"save-time"}`))
	sink := &capturingNotifier{}
	h := NewLeadHandler(lead.NewService(lead.ServiceConfig{Notifiers: []lead.Notifier{sink}}), e.landing, e.storage, nil)

	w := httptest.NewRecorder()
	r := request(http.MethodPost, "/leads", `{"name":"Анна","contact":"@anna_k","task":"CRM"}`)
	r.Header.Set("Referer", "https://example.com/?utm_source=vc")
	h.SubmitForm(w, r)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, sink.leads, 1)
	l := sink.leads[0]
	assert.Equal(t, testVisitor, l.VisitorID)
	assert.Equal(t, lead.DefaultPackage, l.Package)
	assert.Equal(t, "https://example.com/?utm_source=vc", l.Referrer)
	assert.Equal(t, "save-time", l.Assignments["cta-text"])
}

func TestLeadHandler_SubmitFormErrors(t *testing.T) {
	h := NewLeadHandler(lead.NewService(lead.ServiceConfig{Notifiers: []lead.Notifier{failingNotifier{}}}), nil, nil, nil)

	w := httptest.NewRecorder()
	h.SubmitForm(w, request(http.MethodPost, "/leads", `{"name":"","contact":"not a contact"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Code string            `json:"code"`
		Data lead.SubmitResult `json:"data"`
	}
	decode(t, w, &body)
	assert.Equal(t, "LEAD_001", body.Code)
	assert.Equal(t, lead.MessageRequired, body.Data.Errors["name"])
	assert.Equal(t, lead.MessageInvalidContact, body.Data.Errors["contact"])

	w = httptest.NewRecorder()
	h.SubmitForm(w, request(http.MethodPost, "/leads", `{"name":"Анна","contact":"anna@example.com","task":"CRM"}`))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	decode(t, w, &body)
	require.NotNil(t, body.Data.Toast)
	assert.Equal(t, lead.MessageSubmitFailed, body.Data.Toast.Message)
}

func TestLeadHandler_ChatFlow(t *testing.T) {
	sink := &capturingNotifier{}
	h := NewLeadHandler(lead.NewService(lead.ServiceConfig{Notifiers: []lead.Notifier{sink}}), nil, nil, nil)

	w := httptest.NewRecorder()
	h.StartChat(w, request(http.MethodPost, "/chat/sessions", `{"page_url":"https://example.com/?utm_source=tg"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var st lead.ChatState
	decode(t, w, &st)
	id := st.Conversation.ID
	assert.Equal(t, "tg", st.Conversation.UTMSource)

	for _, answer := range []string{"crm", "10-20", "month"} {
		w = httptest.NewRecorder()
		h.AnswerChat(w, withParam(request(http.MethodPost, "/", `{"value":"`+answer+`"}`), "id", id))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	decode(t, w, &st)
	assert.True(t, st.Reply.WaitingContact)

	w = httptest.NewRecorder()
	h.MessageChat(w, withParam(request(http.MethodPost, "/", `{"text":"@ivan_petrov"}`), "id", id))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &st)
	assert.True(t, st.Reply.Completed)
	require.Len(t, sink.leads, 1)
	assert.Equal(t, "@ivan_petrov", sink.leads[0].Contact)

	w = httptest.NewRecorder()
	h.MessageChat(w, withParam(request(http.MethodPost, "/", `{"text":"again"}`), "id", id))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	h.AnswerChat(w, withParam(request(http.MethodPost, "/", `{"value":"crm"}`), "id", "unknown"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ── roi ─────────────────────────────────────────────────────────────────────

func TestROIHandler(t *testing.T) {
	rec := analytics.NewRecorder()
	h := NewROIHandler(roi.NewCalculator(rec, nil), nil)

	w := httptest.NewRecorder()
	h.Calculate(w, request(http.MethodPost, "/roi", `{"hours_per_week":10,"hourly_rate":1000,"task_type":"crm"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var res roi.Result
	decode(t, w, &res)
	assert.Equal(t, "crm", res.TaskType)
	assert.Greater(t, res.MonthlySavings, 0.0)
	require.Len(t, rec.EventsWithAction(analytics.ActionCalculatorCalculate), 1)
	assert.Equal(t, testVisitor, rec.EventsWithAction(analytics.ActionCalculatorCalculate)[0].VisitorID)

	w = httptest.NewRecorder()
	h.Calculate(w, request(http.MethodPost, "/roi", `{"hours_per_week":0,"hourly_rate":1000}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), roi.MessageFillAllFields)
}

// ── events ──────────────────────────────────────────────────────────────────

func TestEventHandler_Track(t *testing.T) {
	rec := analytics.NewRecorder()
	h := NewEventHandler(rec, rec, nil)

	w := httptest.NewRecorder()
	body := `{"action":"faq_expand","category":"faq","label":"` + strings.Repeat("я", 80) + `","visitor_id":"forged"}`
	h.Track(w, request(http.MethodPost, "/events", body))
	assert.Equal(t, http.StatusAccepted, w.Code)
	events := rec.EventsWithAction(analytics.ActionFAQExpand)
	require.Len(t, events, 1)
	assert.Equal(t, testVisitor, events[0].VisitorID)
	assert.Equal(t, analytics.MaxFAQLabelLength, len([]rune(events[0].Label)))

	w = httptest.NewRecorder()
	h.Track(w, request(http.MethodPost, "/events", `{"events":[{"action":"package_select","label":"growth"},{"action":"  "}]}`))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"accepted":1,"rejected":1}`, w.Body.String())

	w = httptest.NewRecorder()
	h.Track(w, request(http.MethodPost, "/events", `{}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEventHandler_Track_RejectsServerOwnedActions(t *testing.T) {
	rec := analytics.NewRecorder()
	h := NewEventHandler(rec, rec, nil)

	events := []string{
		`{"action":"ab_test_assignment","category":"ab_test","params":{"test_name":"evil","variant":"x"}}`,
		`{"action":"exit_popup_shown","category":"ab_test","label":"discount-popup"}`,
		`{"action":"calculator_calculate","category":"calculator","label":"crm"}`,
		`{"action":"form_submit","category":"contact"}`,
		`{"action":"chat_started","category":"chat"}`,
		`{"action":"chat_completed","category":"chat"}`,
	}
	for i := 0; i < 20; i++ {
		events = append(events, fmt.Sprintf(`{"action":"junk_%d","category":"junk_%d"}`, i, i))
	}
	events = append(events, `{"action":"package_select","category":"spoofed","label":"growth","params":{"test_name":"evil"}}`)

	w := httptest.NewRecorder()
	h.Track(w, request(http.MethodPost, "/events", `{"events":[`+strings.Join(events, ",")+`]}`))
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"accepted":1,"rejected":26}`, w.Body.String())

	tracked := rec.Events()
	require.Len(t, tracked, 1)
	assert.Equal(t, analytics.ActionPackageSelect, tracked[0].Action)
	assert.Equal(t, analytics.CategoryPricing, tracked[0].Category)
	assert.Empty(t, tracked[0].Params)
}

func TestEventHandler_Params(t *testing.T) {
	rec := analytics.NewRecorder()
	w := httptest.NewRecorder()
	NewEventHandler(rec, rec, nil).Params(w, request(http.MethodPost, "/events/params", `{"ab_tests":{"cta-text":"save-time"}}`))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Len(t, rec.ParamCalls(), 1)

	w = httptest.NewRecorder()
	NewEventHandler(rec, nil, nil).Params(w, request(http.MethodPost, "/events/params", `{"a":1}`))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ── page views ──────────────────────────────────────────────────────────────

func TestPageViewHandler(t *testing.T) {
	e := newEnv(t)
	id := e.views.Open(testVisitor, exitintent.VariantDiscount, 1280)
	require.NotEmpty(t, id)
	h := NewPageViewHandler(e.views, nil)

	w := httptest.NewRecorder()
	h.Event(w, withParam(request(http.MethodPost, "/", `{"type":"pointer_exit","client_y":2}`), "id", id))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var st landing.PageViewState
	decode(t, w, &st)
	assert.Equal(t, exitintent.StateShown, st.State)
	require.NotNil(t, st.Popup)

	w = httptest.NewRecorder()
	h.Poll(w, withParam(request(http.MethodGet, "/", ""), "id", id))
	decode(t, w, &st)
	assert.Nil(t, st.Popup, "popup delivered once")

	w = httptest.NewRecorder()
	h.Event(w, withParam(request(http.MethodPost, "/", `{"type":"wobble"}`), "id", id))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	h.Close(w, withParam(request(http.MethodDelete, "/", ""), "id", id))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.Poll(w, withParam(request(http.MethodGet, "/", ""), "id", id))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ── health ──────────────────────────────────────────────────────────────────

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                  { return s.name }
func (s stubChecker) Check(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("1.2.3", stubChecker{name: "redis"})

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1.2.3")

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	h = NewHealthHandler("1.2.3", stubChecker{name: "redis"}, stubChecker{name: "postgres", err: assert.AnError})
	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp ReadinessResponse
	decode(t, w, &resp)
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["postgres"].Status)
	assert.Equal(t, "healthy", resp.Components["redis"].Status)

	w = httptest.NewRecorder()
	h.Detailed(w, httptest.NewRequest(http.MethodGet, "/healthz/detail", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestHealthHandler_OptionalFailureDegrades(t *testing.T) {
	h := NewHealthHandler("1.2.3", stubChecker{name: "redis"}, Optional(stubChecker{name: "minio", err: assert.AnError}))

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var ready ReadinessResponse
	decode(t, w, &ready)
	assert.Equal(t, "ready", ready.Status)
	assert.True(t, ready.Components["minio"].Optional)
	assert.Equal(t, StatusUnhealthy, ready.Components["minio"].Status)

	w = httptest.NewRecorder()
	h.Detailed(w, httptest.NewRequest(http.MethodGet, "/healthz/detail", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var detail DetailedResponse
	decode(t, w, &detail)
	assert.Equal(t, "degraded", detail.Status)
}

//Personal.AI order the ending

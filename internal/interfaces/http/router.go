package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/landing-ab/internal/interfaces/http/handlers"
	"github.com/turtacn/landing-ab/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.  Nil handlers leave their routes
// unregistered.
type RouterConfig struct {
	// Handlers
	PageHandler       *handlers.PageHandler
	ExperimentHandler *handlers.ExperimentHandler
	LeadHandler       *handlers.LeadHandler
	ROIHandler        *handlers.ROIHandler
	EventHandler      *handlers.EventHandler
	PageViewHandler   *handlers.PageViewHandler
	HealthHandler     *handlers.HealthHandler

	// Middleware
	CORS *middleware.CORSConfig
	// MaxBodySize caps request bodies when positive.
	MaxBodySize int64
	// Logging is used as given; its Metrics field is filled from Metrics.
	Logging middleware.LoggingConfig
	Visitor middleware.VisitorConfig
	// RateLimiter guards the lead-producing endpoints when set.
	RateLimiter middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig
	// ConsoleToken guards the developer console; empty disables it.
	ConsoleToken string

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.LandingMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Visitor.Logger == nil {
		cfg.Visitor.Logger = cfg.Logger
	}
	cfg.Logging.Metrics = cfg.Metrics

	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(cfg.MaxBodySize))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))

	// --- Probes and metrics ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	// --- Visitor-scoped surface ---
	r.Group(func(site chi.Router) {
		site.Use(middleware.Visitor(cfg.Visitor))

		if cfg.PageHandler != nil {
			site.Get("/", cfg.PageHandler.Serve)
			site.Head("/", cfg.PageHandler.Serve)
		}

		site.Route("/api/v1", func(api chi.Router) {
			registerPublicRoutes(api, cfg)
			registerLeadRoutes(api, cfg)
			registerExperimentRoutes(api, cfg)
		})
	})

	return r
}

// registerPublicRoutes mounts the calculator, analytics and page-view
// endpoints.
func registerPublicRoutes(r chi.Router, cfg RouterConfig) {
	if h := cfg.ROIHandler; h != nil {
		r.Post("/roi", h.Calculate)
	}
	if h := cfg.EventHandler; h != nil {
		r.Post("/events", h.Track)
		r.Post("/events/params", h.Params)
	}
	if h := cfg.PageViewHandler; h != nil {
		r.Route("/pageviews/{id}", func(pv chi.Router) {
			pv.Get("/", h.Poll)
			pv.Delete("/", h.Close)
			pv.Post("/events", h.Event)
		})
	}
}

// registerLeadRoutes mounts the contact form and chat, rate limited per
// client when a limiter is configured.
func registerLeadRoutes(r chi.Router, cfg RouterConfig) {
	h := cfg.LeadHandler
	if h == nil {
		return
	}
	r.Group(func(lr chi.Router) {
		if cfg.RateLimiter != nil {
			lr.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit))
		}
		lr.Post("/leads", h.SubmitForm)
		lr.Route("/chat/sessions", func(cr chi.Router) {
			cr.Post("/", h.StartChat)
			cr.Post("/{id}/answers", h.AnswerChat)
			cr.Post("/{id}/messages", h.MessageChat)
		})
	})
}

// registerExperimentRoutes mounts the catalog and the token guarded console.
func registerExperimentRoutes(r chi.Router, cfg RouterConfig) {
	h := cfg.ExperimentHandler
	if h == nil {
		return
	}
	r.Route("/experiments", func(er chi.Router) {
		er.Get("/catalog", h.Catalog)
		er.Group(func(console chi.Router) {
			console.Use(middleware.ConsoleAuth(cfg.ConsoleToken, cfg.Logger))
			console.Get("/catalog/{test}/simulate", h.Simulate)
			console.Get("/assignments", h.GetAssignments)
			console.Put("/assignments/{test}", h.SetVariant)
			console.Delete("/assignments", h.ResetAssignments)
		})
	})
}

//Personal.AI order the ending

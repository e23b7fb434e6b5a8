// Package landing orchestrates one landing page load: resolve the visitor's
// assignment, render every variant onto the page, mount the conditional
// features, report the assignment and arm the exit-intent machine.
package landing

import (
	"bytes"
	"context"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/chatwidget"
	"github.com/turtacn/landing-ab/internal/domain/experiment"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/landing-ab/internal/infrastructure/render/htmldoc"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// PageViewAttribute carries the page view id on <body> for the browser glue.
const PageViewAttribute = "data-page-view"

// TemplateSource produces a fresh document per render.
type TemplateSource interface {
	Load() (*htmldoc.Document, error)
}

// Config wires a Service.
type Config struct {
	Source     TemplateSource
	Catalog    *experiment.Catalog
	Applicator *experiment.Applicator
	Selector   *experiment.Selector
	Reporter   *experiment.Reporter
	Policy     experiment.ReconcilePolicy
	Chat       chatwidget.Config
	PageViews  *PageViews
	Metrics    *prometheus.LandingMetrics
	Logger     logging.Logger
}

// RenderRequest describes one page load.
type RenderRequest struct {
	VisitorID     string
	Storage       experiment.Storage
	ViewportWidth int
}

// RenderResult is the personalised page.
type RenderResult struct {
	HTML       []byte
	Assignment experiment.Assignment
	PageViewID string
}

// Service renders landing pages.
type Service struct {
	cfg    Config
	logger logging.Logger
}

// NewService creates a Service.  Catalog, Applicator and Selector default to
// the built-in catalog, registry and a time-seeded selector.
func NewService(cfg Config) (*Service, error) {
	if cfg.Source == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "landing: template source is required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = experiment.DefaultCatalog()
	}
	if cfg.Applicator == nil {
		cfg.Applicator = experiment.NewApplicator(experiment.DefaultRegistry())
	}
	if cfg.Selector == nil {
		cfg.Selector = experiment.NewSelector(experiment.NewRandomSource(time.Now().UnixNano()))
	}
	if cfg.Policy == "" {
		cfg.Policy = experiment.ReconcileMergeMissing
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	return &Service{cfg: cfg, logger: cfg.Logger.Named("landing")}, nil
}

// Catalog returns the active catalog.
func (s *Service) Catalog() *experiment.Catalog { return s.cfg.Catalog }

// Store binds the assignment store to one visitor's storage.
func (s *Service) Store(storage experiment.Storage) *experiment.Store {
	return experiment.NewStore(storage, s.cfg.Selector,
		experiment.WithReconcilePolicy(s.cfg.Policy),
		experiment.WithStoreLogger(s.logger))
}

// Render runs the full page pipeline for req.
func (s *Service) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	start := time.Now()
	res, err := s.render(ctx, req)
	if s.cfg.Metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.cfg.Metrics.PageRendersTotal.WithLabelValues(status).Inc()
		s.cfg.Metrics.PageRenderDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	}
	return res, err
}

func (s *Service) render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	if req.Storage == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "landing: no assignment storage for request")
	}
	assignment, err := s.Store(req.Storage).LoadOrCreate(ctx, s.cfg.Catalog)
	if err != nil {
		return nil, err
	}

	doc, err := s.cfg.Source.Load()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSurfaceRender, "load page template")
	}

	s.cfg.Applicator.ApplyAll(s.cfg.Catalog, assignment, doc)
	chatwidget.Mount(assignment[experiment.ChatWidget], s.cfg.Chat, doc)

	var pageViewID string
	if s.cfg.PageViews != nil {
		pageViewID = s.cfg.PageViews.Open(req.VisitorID, assignment[experiment.ExitIntent], req.ViewportWidth)
		if pageViewID != "" {
			doc.SetAttribute(doc.Root(), PageViewAttribute, pageViewID)
		}
	}

	if s.cfg.Reporter != nil {
		s.cfg.Reporter.Report(ctx, req.VisitorID, assignment)
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		if pageViewID != "" {
			s.cfg.PageViews.Close(pageViewID)
		}
		return nil, errors.Wrap(err, errors.ErrCodeSurfaceRender, "serialise page")
	}

	s.logger.Debug("page rendered",
		logging.String("visitor_id", req.VisitorID),
		logging.Int("tests", len(assignment)),
		logging.String("page_view", pageViewID))
	return &RenderResult{HTML: buf.Bytes(), Assignment: assignment, PageViewID: pageViewID}, nil
}

//Personal.AI order the ending

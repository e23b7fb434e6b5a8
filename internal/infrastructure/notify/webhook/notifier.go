// Package webhook posts leads as JSON to an HTTP endpoint such as a Google
// Sheets Apps Script or an automation service.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// PlaceholderURL is the URL shipped in sample configuration.
const PlaceholderURL = "YOUR_WEBHOOK_URL"

const userAgent = "landing-ab-webhook/1.0"

// Config configures the webhook.
type Config struct {
	URL     string
	Timeout time.Duration
	Headers map[string]string
}

// Configured reports whether a real URL is set.
func (c Config) Configured() bool {
	u := strings.TrimSpace(c.URL)
	return u != "" && u != PlaceholderURL
}

// Notifier posts each lead to the webhook.
type Notifier struct {
	cfg    Config
	http   *http.Client
	logger logging.Logger
}

// New returns nil when no URL is configured.
func New(cfg Config, httpClient *http.Client, logger logging.Logger) *Notifier {
	if !cfg.Configured() {
		return nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Notifier{cfg: cfg, http: httpClient, logger: logger.Named("webhook")}
}

func (n *Notifier) Name() string { return "webhook" }

// Notify sends l as the request body.  Any non-2xx status is an error.
func (n *Notifier) Notify(ctx context.Context, l *lead.Lead) error {
	body, err := json.Marshal(l)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal lead")
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidConfig, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range n.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "webhook request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Newf(errors.ErrCodeExternalService, "webhook returned %d", resp.StatusCode).
			WithDetail(strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	n.logger.Debug("lead posted", logging.String("lead_id", l.ID), logging.Int("status", resp.StatusCode))
	return nil
}

//Personal.AI order the ending

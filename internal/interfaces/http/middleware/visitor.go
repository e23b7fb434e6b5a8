package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// Visitor identity transport.
const (
	DefaultVisitorCookie = "landing_vid"
	HeaderVisitorID      = "X-Visitor-ID"
)

type visitorContextKey struct{}

// VisitorConfig configures the visitor middleware.
type VisitorConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
	Logger     logging.Logger
}

// Visitor resolves the visitor id of every request and stores it in the
// context.  Extraction order: X-Visitor-ID header, then the visitor cookie.
// Missing or malformed ids are replaced by a fresh uuid, which is written
// back as a cookie.  The id is echoed in the X-Visitor-ID response header.
func Visitor(cfg VisitorConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultVisitorCookie
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 365 * 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, fromCookie := extractVisitorID(r, cfg.CookieName)
			if !validVisitorID(id) {
				if id != "" {
					cfg.Logger.Debug("visitor id replaced", logging.String("rejected", id))
				}
				id, fromCookie = uuid.NewString(), false
			}
			if !fromCookie {
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(HeaderVisitorID, id)
			ctx := WithVisitorID(r.Context(), id)
			ctx = logging.NewContext(ctx, logging.FromContext(ctx, cfg.Logger).With(logging.VisitorID(id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractVisitorID(r *http.Request, cookieName string) (string, bool) {
	if id := r.Header.Get(HeaderVisitorID); id != "" {
		c, err := r.Cookie(cookieName)
		return id, err == nil && c.Value == id
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value, true
	}
	return "", false
}

func validVisitorID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// WithVisitorID returns ctx carrying id.
func WithVisitorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorContextKey{}, id)
}

// VisitorIDFromContext returns the visitor id or "".
func VisitorIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(visitorContextKey{}).(string)
	return id
}

//Personal.AI order the ending

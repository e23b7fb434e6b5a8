package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/turtacn/landing-ab/internal/domain/experiment"
)

// StorageResolver binds a request to the visitor's assignment storage.
type StorageResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) experiment.Storage
}

// Namespaces hands out per-visitor storage.  The redis and in-memory
// assignment backends implement it.
type Namespaces interface {
	ForVisitor(visitorID string) experiment.Storage
}

// NamespaceResolver scopes server-side storage to the request's visitor id.
type NamespaceResolver struct {
	Namespaces Namespaces
}

func (n NamespaceResolver) Resolve(_ http.ResponseWriter, r *http.Request) experiment.Storage {
	return n.Namespaces.ForVisitor(visitorID(r))
}

// CookieResolver keeps the assignment record in the visitor's browser.
type CookieResolver struct {
	MaxAge time.Duration
	Secure bool
}

func (c CookieResolver) Resolve(w http.ResponseWriter, r *http.Request) experiment.Storage {
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = 365 * 24 * time.Hour
	}
	return &CookieStorage{r: r, w: w, maxAge: maxAge, secure: c.Secure}
}

// CookieStorage stores each key in a cookie of the same name.  Values are
// base64url encoded since JSON is not a valid cookie value.  Writes made
// during the request are visible to later reads of the same request.  Every
// read re-issues the cookie, so a record lapses only after maxAge without a
// visit.
type CookieStorage struct {
	r      *http.Request
	w      http.ResponseWriter
	maxAge time.Duration
	secure bool

	mu        sync.Mutex
	pending   map[string]*string
	refreshed map[string]bool
}

func (s *CookieStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	if v, ok := s.pending[key]; ok {
		s.mu.Unlock()
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	s.mu.Unlock()

	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false, nil
	}
	s.refresh(key, c.Value)
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		// Unreadable cookies behave like a corrupt record.
		return c.Value, true, nil
	}
	return string(raw), true, nil
}

func (s *CookieStorage) Set(_ context.Context, key, value string) error {
	s.remember(key, &value)
	s.write(key, base64.RawURLEncoding.EncodeToString([]byte(value)))
	return nil
}

// refresh re-sends the request's cookie once per request.
func (s *CookieStorage) refresh(key, encoded string) {
	s.mu.Lock()
	if s.refreshed[key] {
		s.mu.Unlock()
		return
	}
	if s.refreshed == nil {
		s.refreshed = make(map[string]bool)
	}
	s.refreshed[key] = true
	s.mu.Unlock()
	s.write(key, encoded)
}

func (s *CookieStorage) write(key, encoded string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieStorage) Remove(_ context.Context, key string) error {
	s.remember(key, nil)
	http.SetCookie(s.w, &http.Cookie{Name: key, Value: "", Path: "/", MaxAge: -1})
	return nil
}

func (s *CookieStorage) remember(key string, v *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = make(map[string]*string)
	}
	s.pending[key] = v
}

//Personal.AI order the ending

package htmldoc

import (
	"bytes"
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

//go:embed assets/index.html
var defaultPage []byte

// DefaultPage returns the embedded landing markup.
func DefaultPage() []byte {
	return append([]byte(nil), defaultPage...)
}

// Source holds the landing template bytes and hands out a freshly parsed
// Document per request.  A file-backed Source reloads when the file changes.
type Source struct {
	mu      sync.RWMutex
	raw     []byte
	path    string
	logger  logging.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewEmbeddedSource serves the embedded markup.
func NewEmbeddedSource() *Source {
	return &Source{raw: defaultPage, logger: logging.NewNopLogger()}
}

// NewBytesSource serves raw markup.
func NewBytesSource(raw []byte) *Source {
	return &Source{raw: append([]byte(nil), raw...), logger: logging.NewNopLogger()}
}

// NewFileSource reads the template at path.  An empty path falls back to the
// embedded markup.
func NewFileSource(path string, logger logging.Logger) (*Source, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if path == "" {
		s := NewEmbeddedSource()
		s.logger = logger
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidConfig, "read page template").WithDetail(path)
	}
	if _, err := Parse(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return &Source{raw: raw, path: path, logger: logger}, nil
}

// Load parses the current template.
func (s *Source) Load() (*Document, error) {
	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()
	return Parse(bytes.NewReader(raw))
}

// Bytes returns a copy of the current template.
func (s *Source) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.raw...)
}

// Path is the watched file, empty for in-memory sources.
func (s *Source) Path() string { return s.path }

// Reload re-reads the template file.  A file that fails to read or parse
// keeps the previous template in place.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidConfig, "read page template").WithDetail(s.path)
	}
	if _, err := Parse(bytes.NewReader(raw)); err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
	return nil
}

// Watch reloads the template whenever the file is written or replaced, until
// ctx is done or Close is called.  The directory is watched so editors that
// rename over the file are picked up.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "create template watcher")
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "watch template directory")
	}
	s.mu.Lock()
	s.watcher = w
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	target := filepath.Clean(s.path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.Reload(); err != nil {
					s.logger.Warn("page template reload failed", logging.String("path", s.path), logging.Err(err))
					continue
				}
				s.logger.Info("page template reloaded", logging.String("path", s.path))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("page template watcher error", logging.Err(err))
			}
		}
	}()
	return nil
}

// Close stops a running watch.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	return nil
}

//Personal.AI order the ending

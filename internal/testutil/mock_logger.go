// Package testutil holds the test doubles shared by the landing packages.
package testutil

import (
	"strings"
	"sync"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// LogMessage is one entry captured by MockLogger.  Fields include those bound
// with With; Logger is the dotted Named path.
type LogMessage struct {
	Level   string
	Message string
	Logger  string
	Fields  []logging.Field
}

// Field returns the value of key, the last binding winning.
func (m LogMessage) Field(key string) (interface{}, bool) {
	for i := len(m.Fields) - 1; i >= 0; i-- {
		if m.Fields[i].Key == key {
			return m.Fields[i].Value, true
		}
	}
	return nil, false
}

type logStore struct {
	mu       sync.Mutex
	messages []LogMessage
}

// MockLogger records entries in memory.  Children from With and Named write
// to the same store, so assertions on the root see everything.
type MockLogger struct {
	store  *logStore
	name   string
	fields []logging.Field
}

// NewMockLogger returns an empty recorder.
func NewMockLogger() *MockLogger {
	return &MockLogger{store: &logStore{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(append(all, m.fields...), fields...)
	m.store.mu.Lock()
	m.store.messages = append(m.store.messages, LogMessage{Level: level, Message: msg, Logger: m.name, Fields: all})
	m.store.mu.Unlock()
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }
func (m *MockLogger) Sync() error                               { return nil }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	bound := make([]logging.Field, 0, len(m.fields)+len(fields))
	bound = append(append(bound, m.fields...), fields...)
	return &MockLogger{store: m.store, name: m.name, fields: bound}
}

func (m *MockLogger) Named(name string) logging.Logger {
	if m.name != "" {
		name = m.name + "." + name
	}
	return &MockLogger{store: m.store, name: name, fields: m.fields}
}

// GetMessages returns a copy of every entry.
func (m *MockLogger) GetMessages() []LogMessage {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]LogMessage, len(m.store.messages))
	copy(out, m.store.messages)
	return out
}

// Clear drops every entry.
func (m *MockLogger) Clear() {
	m.store.mu.Lock()
	m.store.messages = m.store.messages[:0]
	m.store.mu.Unlock()
}

// Find returns the first entry at level whose message is msg.
func (m *MockLogger) Find(level, msg string) (LogMessage, bool) {
	for _, e := range m.GetMessages() {
		if e.Level == level && e.Message == msg {
			return e, true
		}
	}
	return LogMessage{}, false
}

// HasMessage reports whether msg was logged at level.
func (m *MockLogger) HasMessage(level, msg string) bool {
	_, ok := m.Find(level, msg)
	return ok
}

// HasMessageContaining reports whether any entry at level contains sub.
func (m *MockLogger) HasMessageContaining(level, sub string) bool {
	for _, e := range m.GetMessages() {
		if e.Level == level && strings.Contains(e.Message, sub) {
			return true
		}
	}
	return false
}

// CountLevel returns how many entries were logged at level.
func (m *MockLogger) CountLevel(level string) int {
	n := 0
	for _, e := range m.GetMessages() {
		if e.Level == level {
			n++
		}
	}
	return n
}

//Personal.AI order the ending

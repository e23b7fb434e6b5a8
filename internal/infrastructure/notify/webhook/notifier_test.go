package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

func sampleLead() *lead.Lead {
	return &lead.Lead{
		ID:          "lead-1",
		Source:      lead.SourceChatWidget,
		CreatedAt:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Contact:     "user@example.com",
		TaskType:    "crm",
		Assignments: map[string]string{"hero_headline": "control"},
	}
}

func TestNew_Unconfigured(t *testing.T) {
	assert.Nil(t, New(Config{}, nil, nil))
	assert.Nil(t, New(Config{URL: PlaceholderURL}, nil, nil))
}

func TestNotify_PostsJSON(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result":"success"}`))
	}))
	defer srv.Close()

	n := New(Config{URL: srv.URL, Headers: map[string]string{"X-Token": "secret"}}, srv.Client(), nil)
	require.NotNil(t, n)
	assert.Equal(t, "webhook", n.Name())
	require.NoError(t, n.Notify(context.Background(), sampleLead()))

	assert.Equal(t, "lead-1", got["id"])
	assert.Equal(t, "chat_widget", got["source"])
	assert.Equal(t, "user@example.com", got["contact"])
	assert.Equal(t, map[string]interface{}{"hero_headline": "control"}, got["ab_tests"])
}

func TestNotify_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := New(Config{URL: srv.URL}, srv.Client(), nil)
	err := n.Notify(context.Background(), sampleLead())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeExternalService))
	assert.Contains(t, err.Error(), "429")
}

func TestNotify_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	n := New(Config{URL: url, Timeout: time.Second}, nil, nil)
	err := n.Notify(context.Background(), sampleLead())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeExternalService))
}

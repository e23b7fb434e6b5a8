package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	promclient "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/redis"
	"github.com/turtacn/landing-ab/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/landing-ab/internal/testutil"
)

type fakeDeliverer struct {
	calls []string
	err   error
}

func (f *fakeDeliverer) Deliver(_ context.Context, l *lead.Lead) error {
	f.calls = append(f.calls, l.ID)
	return f.err
}

func newClaims(t *testing.T) *redis.Claims {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(&redis.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return redis.NewClaims(client, nil)
}

func leadMessage(t *testing.T, l *lead.Lead) *kafka.Message {
	t.Helper()
	env, err := kafka.NewEventEnvelope(kafka.EventTypeLeadSubmitted, "test", l)
	require.NoError(t, err)
	pm, err := env.ToMessage(kafka.TopicLeadsSubmitted, l.ID)
	require.NoError(t, err)
	return &kafka.Message{Topic: pm.Topic, Key: pm.Key, Value: pm.Value, Headers: pm.Headers}
}

func TestWorker_DeliversOnce(t *testing.T) {
	d := &fakeDeliverer{}
	w := NewWorker(Config{Deliverer: d, Claims: newClaims(t)})
	l := &lead.Lead{ID: "lead-1", Source: lead.SourceContactForm}

	require.NoError(t, w.Deliver(context.Background(), l))
	require.NoError(t, w.Deliver(context.Background(), l))
	assert.Equal(t, []string{"lead-1"}, d.calls)
}

func TestWorker_FailureReleasesClaim(t *testing.T) {
	d := &fakeDeliverer{err: errors.New("telegram down")}
	w := NewWorker(Config{Deliverer: d, Claims: newClaims(t)})
	l := &lead.Lead{ID: "lead-2"}

	assert.Error(t, w.Deliver(context.Background(), l))
	d.err = nil
	require.NoError(t, w.Deliver(context.Background(), l))
	assert.Equal(t, []string{"lead-2", "lead-2"}, d.calls)
}

func TestWorker_WithoutClaimsAlwaysDelivers(t *testing.T) {
	d := &fakeDeliverer{}
	w := NewWorker(Config{Deliverer: d})
	l := &lead.Lead{ID: "lead-3"}

	require.NoError(t, w.Deliver(context.Background(), l))
	require.NoError(t, w.Deliver(context.Background(), l))
	assert.Len(t, d.calls, 2)
}

func TestWorker_Handler(t *testing.T) {
	d := &fakeDeliverer{}
	logger := testutil.NewMockLogger()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "delivery"}, nil)
	require.NoError(t, err)
	w := NewWorker(Config{Deliverer: d, Claims: newClaims(t), Metrics: prometheus.NewLandingMetrics(collector), Logger: logger})
	h := w.Handler()

	require.NoError(t, h(context.Background(), leadMessage(t, &lead.Lead{ID: "lead-4", Name: "Ivan"})))
	assert.Equal(t, []string{"lead-4"}, d.calls)

	bad, _ := json.Marshal(map[string]string{"event_type": "analytics.event"})
	require.NoError(t, h(context.Background(), &kafka.Message{Topic: kafka.TopicLeadsSubmitted, Value: bad}))
	assert.Len(t, d.calls, 1)
	assert.True(t, logger.HasMessage("warn", "dropping malformed lead message"))

	n, err := promclient.GatherAndCount(collector.Gatherer(), "delivery_mq_process_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

//Personal.AI order the ending

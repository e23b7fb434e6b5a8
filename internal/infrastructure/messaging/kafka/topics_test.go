package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

type mockKafkaConn struct {
	created    []kafka.TopicConfig
	createFunc func(topics ...kafka.TopicConfig) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: logging.NewNopLogger()}
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	env, err := NewEventEnvelope(EventTypeLeadSubmitted, "", map[string]string{"id": "l1"})
	require.NoError(t, err)
	assert.Equal(t, defaultEnvelopeSourceName, env.Source)
	assert.NotEmpty(t, env.EventID)

	msg, err := env.ToMessage(TopicLeadsSubmitted, "l1")
	require.NoError(t, err)
	assert.Equal(t, "l1", string(msg.Key))
	assert.Equal(t, EventTypeLeadSubmitted, msg.Headers["event_type"])

	back, err := MessageToEventEnvelope(&Message{Value: msg.Value})
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, back.DecodePayload(&payload))
	assert.Equal(t, "l1", payload["id"])
}

func TestMessageToEventEnvelope_Errors(t *testing.T) {
	_, err := MessageToEventEnvelope(&Message{})
	assert.Error(t, err)
	_, err = MessageToEventEnvelope(&Message{Value: []byte("{")})
	assert.Error(t, err)

	env := &EventEnvelope{EventID: "e"}
	assert.Error(t, env.DecodePayload(&struct{}{}))
}

func TestCreateTopic(t *testing.T) {
	conn := &mockKafkaConn{}
	m := newTestTopicManager(conn)

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name: "t", NumPartitions: 3, ReplicationFactor: 1, RetentionMs: 1000, CleanupPolicy: "delete",
	})
	require.NoError(t, err)
	require.Len(t, conn.created, 1)
	assert.Equal(t, []kafka.ConfigEntry{
		{ConfigName: "retention.ms", ConfigValue: "1000"},
		{ConfigName: "cleanup.policy", ConfigValue: "delete"},
	}, conn.created[0].ConfigEntries)
}

func TestCreateTopic_Validation(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t"}))
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	conn := &mockKafkaConn{
		createFunc: func(...kafka.TopicConfig) error { return errors.New("broker: topic busy") },
		readFunc: func(...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: "t"}}, nil
		},
	}
	assert.NoError(t, newTestTopicManager(conn).CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	conn.readFunc = nil
	assert.Error(t, newTestTopicManager(conn).CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))
}

func TestEnsureTopics_Defaults(t *testing.T) {
	conn := &mockKafkaConn{}
	require.NoError(t, newTestTopicManager(conn).EnsureTopics(context.Background(), DefaultTopics(0)))

	names := make([]string, 0, len(conn.created))
	for _, c := range conn.created {
		names = append(names, c.Topic)
		assert.Equal(t, 1, c.ReplicationFactor)
	}
	assert.Equal(t, []string{TopicLeadsSubmitted, TopicAnalyticsEvents, TopicDeadLetter}, names)
}

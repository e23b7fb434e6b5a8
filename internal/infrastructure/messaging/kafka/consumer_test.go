package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// mockKafkaReader serves queued messages, then blocks until cancelled.
type mockKafkaReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.queue) > 0 {
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockKafkaReader) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockKafkaReader) Stats() kafka.ReaderStats { return kafka.ReaderStats{} }

func (m *mockKafkaReader) commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

// recordingPublisher captures dead-lettered messages.
type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*ProducerMessage
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg *ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "test-group",
		Topics:  []string{"test-topic"},
		RetryConfig: RetryConfig{
			MaxRetries:      2,
			RetryBackoff:    time.Millisecond,
			DeadLetterTopic: TopicDeadLetter,
		},
	}
}

func newTestConsumer(r ReaderInterface, dl publisher) *Consumer {
	c := newConsumerWithReader(r, dl, newTestConsumerConfig(), logging.NewNopLogger())
	c.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return c
}

func TestValidateConsumerConfig(t *testing.T) {
	assert.NoError(t, ValidateConsumerConfig(newTestConsumerConfig()))

	cfg := newTestConsumerConfig()
	cfg.Brokers = nil
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = newTestConsumerConfig()
	cfg.Topics = nil
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = newTestConsumerConfig()
	cfg.AutoOffsetReset = "middle"
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = newTestConsumerConfig()
	cfg.Security = SecurityConfig{SASLEnabled: true, SASLMechanism: "PLAIN"}
	assert.Error(t, ValidateConsumerConfig(cfg))
}

func TestStart_AlreadyRunning(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{}, nil)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Equal(t, ErrAlreadyRunning, c.Start(context.Background()))
}

func TestConsumeLoop_HandlesAndCommits(t *testing.T) {
	reader := &mockKafkaReader{queue: []kafka.Message{
		{Topic: "test-topic", Value: []byte("value"), Headers: []kafka.Header{{Key: "k", Value: []byte("v")}}},
		{Topic: "unknown-topic", Value: []byte("skip")},
	}}
	c := newTestConsumer(reader, nil)

	handled := make(chan *Message, 1)
	c.Subscribe("test-topic", func(ctx context.Context, msg *Message) error {
		handled <- msg
		return nil
	})
	require.NoError(t, c.Start(context.Background()))

	select {
	case msg := <-handled:
		assert.Equal(t, "value", string(msg.Value))
		assert.Equal(t, "v", msg.Headers["k"])
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for handler")
	}
	require.Eventually(t, func() bool { return reader.commits() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
	m := c.GetMetrics()
	assert.Equal(t, int64(2), m.MessagesConsumed.Load())
	assert.Equal(t, int64(1), m.MessagesProcessed.Load())
}

func TestProcessMessage_RetrySuccess(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{}, nil)

	attempts := 0
	err := c.processMessage(context.Background(), &Message{}, func(ctx context.Context, msg *Message) error {
		attempts++
		if attempts < 2 {
			return errors.New("fail")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, int64(1), c.metrics.MessagesRetried.Load())
}

func TestProcessMessage_ExhaustedGoesToDeadLetter(t *testing.T) {
	dl := &recordingPublisher{}
	c := newTestConsumer(&mockKafkaReader{}, dl)

	attempts := 0
	msg := &Message{Topic: "test-topic", Key: []byte("id"), Value: []byte("payload"), Headers: map[string]string{"a": "b"}}
	err := c.processMessage(context.Background(), msg, func(ctx context.Context, _ *Message) error {
		attempts++
		return errors.New("telegram down")
	})

	assert.EqualError(t, err, "telegram down")
	assert.Equal(t, 3, attempts)
	require.Len(t, dl.msgs, 1)
	out := dl.msgs[0]
	assert.Equal(t, TopicDeadLetter, out.Topic)
	assert.Equal(t, "payload", string(out.Value))
	assert.Equal(t, "test-topic", out.Headers[HeaderOriginalTopic])
	assert.Equal(t, "telegram down", out.Headers[HeaderErrorMessage])
	assert.Equal(t, "3", out.Headers[HeaderAttempts])
	assert.Equal(t, "b", out.Headers["a"])
	assert.Empty(t, msg.Headers[HeaderOriginalTopic], "source headers are not mutated")
	assert.Equal(t, int64(1), c.metrics.MessagesDeadLettered.Load())
}

func TestProcessMessage_DeadLetterFailureIsLogged(t *testing.T) {
	dl := &recordingPublisher{err: errors.New("kafka down")}
	c := newTestConsumer(&mockKafkaReader{}, dl)

	err := c.processMessage(context.Background(), &Message{Topic: "t"}, func(context.Context, *Message) error {
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.Zero(t, c.metrics.MessagesDeadLettered.Load())
}

func TestProcessMessage_CancelledDuringBackoff(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.processMessage(ctx, &Message{}, func(context.Context, *Message) error { return errors.New("fail") })
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending

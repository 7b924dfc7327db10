package fs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type payload struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func newQueue(t *testing.T, baseURL string) *Queue[payload] {
	t.Helper()
	config := DefaultConfig(baseURL)
	config.MaxRetries = 1
	config.PollInterval = 5 * time.Millisecond
	queue, err := NewQueue[payload](context.Background(), afs.New(), config)
	require.NoError(t, err)
	return queue
}

func TestQueue_FIFOAndAck(t *testing.T) {
	ctx := context.Background()
	queue := newQueue(t, t.TempDir())
	for i := 1; i <= 3; i++ {
		require.NoError(t, queue.Publish(ctx, &payload{ID: "p", Count: i}))
	}
	size, err := queue.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	for i := 1; i <= 3; i++ {
		msg, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, msg.T().Count)
		require.NoError(t, msg.Ack())
		assert.Error(t, msg.Ack())
	}
	size, err = queue.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestQueue_NackRetriesThenDeadLetters(t *testing.T) {
	ctx := context.Background()
	queue := newQueue(t, t.TempDir())
	require.NoError(t, queue.Publish(ctx, &payload{ID: "retry"}))

	for attempt := 0; attempt < 2; attempt++ {
		msg, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.Equal(t, "retry", msg.T().ID)
		require.NoError(t, msg.Nack(errors.New("handler failed")))
	}
	dead, err := queue.DLQSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dead)

	timeout, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = queue.Consume(timeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	baseURL := t.TempDir()
	require.NoError(t, newQueue(t, baseURL).Publish(ctx, &payload{ID: "durable", Count: 7}))

	msg, err := newQueue(t, baseURL).Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, msg.T().Count)
	require.NoError(t, msg.Ack())
}

func TestNewQueue_RequiresBaseURL(t *testing.T) {
	_, err := NewQueue[payload](context.Background(), afs.New(), Config{})
	assert.Error(t, err)
}

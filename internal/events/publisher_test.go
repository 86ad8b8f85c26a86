package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelEventPublisher_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	publisher := NewChannelEventPublisher(PublisherConfig{
		TopicName: "quiz-sessions",
		Logger:    logger,
	})
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := publisher.Subscribe(ctx)
	require.NoError(t, err)

	event := NewSessionStartedEvent("s-1", "GPIO Basics", 3, false)
	require.NoError(t, publisher.PublishSessionEvent(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, string(EventSessionStarted), msg.Metadata.Get("event_type"))
		assert.Equal(t, "quiz-session-service", msg.Metadata.Get("source"))

		var got SessionEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, EventSessionStarted, got.Type)
	case <-ctx.Done():
		t.Fatal("timed out waiting for published event")
	}
}

func TestMockEventPublisher_Records(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	mock := NewMockEventPublisher(logger)

	ctx := context.Background()
	require.NoError(t, mock.PublishSessionEvent(ctx, NewQuestionCheckedEvent("s-1", "q-1", 0, true)))
	require.NoError(t, mock.PublishSessionEvent(ctx, NewSessionCompletedEvent("s-1", "GPIO Basics", 2, 3, 67, "middle", 120)))

	require.Len(t, mock.Events, 2)
	assert.Equal(t, EventQuestionChecked, mock.Events[0].Type)
	assert.Equal(t, EventSessionCompleted, mock.Events[1].Type)
	assert.NotEmpty(t, mock.Events[0].ID)
	require.NoError(t, mock.Close())
}

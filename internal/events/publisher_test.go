package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaEventPublisher_PublishesEnvelope(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), "evaluations")
	require.NoError(t, err)

	publisher := newKafkaEventPublisher(pubSub, PublisherConfig{TopicName: "evaluations", Logger: testLogger()})

	questionID := "q1"
	event := NewAnswerEvaluatedEvent(
		&models.UserAnswer{ID: "a1", LessonID: "l1", QuestionID: &questionID, UserID: "u1", Attempt: 2},
		&models.EvaluationResult{QuestionID: "q1", Type: models.TrueOrFalse, Score: 1, MaxScore: 1, Correct: true},
	)
	require.NoError(t, publisher.PublishEvaluationEvent(context.Background(), event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventAnswerEvaluated), msg.Metadata.Get("event_type"))
		assert.Equal(t, "u1", msg.Metadata.Get("user_id"))

		var decoded struct {
			Type EventType `json:"type"`
			Data struct {
				QuestionID string `json:"question_id"`
				Attempt    int    `json:"attempt"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventAnswerEvaluated, decoded.Type)
		assert.Equal(t, "q1", decoded.Data.QuestionID)
		assert.Equal(t, 2, decoded.Data.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestNewKafkaEventPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaEventPublisher(PublisherConfig{TopicName: "evaluations", Logger: testLogger()})
	assert.Error(t, err)
}

func TestNewLessonCompletedEvent(t *testing.T) {
	finishedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	event := NewLessonCompletedEvent(&models.LessonResult{
		LessonID:   "l1",
		UserID:     "u1",
		Score:      7,
		MaxScore:   10,
		Percentage: 70,
		Answered:   3,
		Questions:  4,
		UsedHints:  1,
	}, finishedAt)

	assert.Equal(t, EventLessonCompleted, event.Type)
	assert.Equal(t, "u1", event.UserID)
	assert.NotEmpty(t, event.ID)

	data, ok := event.Data.(LessonCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, 70.0, data.Percentage)
	assert.Equal(t, 1, data.UsedHints)
	assert.Equal(t, finishedAt, data.FinishedAt)
}

func TestMockEventPublisher_ConcurrentPublish(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = publisher.PublishEvaluationEvent(context.Background(), newEvent(EventAnswerEvaluated, "u1", nil))
		}()
	}
	wg.Wait()

	assert.Len(t, publisher.GetPublishedEvents(), 50)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
}

package events

import (
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents different types of evaluation events
type EventType string

const (
	EventAnswerEvaluated EventType = "answer.evaluated"
	EventLessonCompleted EventType = "lesson.completed"
)

const (
	eventSource  = "evaluation-service"
	eventVersion = "1.0"
)

// EvaluationEvent is the envelope of every event emitted by the service
type EvaluationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	UserID    string                 `json:"user_id"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AnswerEvaluatedEvent struct {
	AnswerID   string                   `json:"answer_id"`
	LessonID   string                   `json:"lesson_id"`
	QuestionID string                   `json:"question_id"`
	Attempt    int                      `json:"attempt"`
	Result     *models.EvaluationResult `json:"result"`
}

type LessonCompletedEvent struct {
	LessonID   string    `json:"lesson_id"`
	Score      float64   `json:"score"`
	MaxScore   float64   `json:"max_score"`
	Percentage float64   `json:"percentage"`
	Answered   int       `json:"answered"`
	Questions  int       `json:"questions"`
	UsedHints  int       `json:"used_hints"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewAnswerEvaluatedEvent(answer *models.UserAnswer, result *models.EvaluationResult) *EvaluationEvent {
	questionID := result.QuestionID
	if answer.QuestionID != nil {
		questionID = *answer.QuestionID
	}
	return newEvent(EventAnswerEvaluated, answer.UserID, AnswerEvaluatedEvent{
		AnswerID:   answer.ID,
		LessonID:   answer.LessonID,
		QuestionID: questionID,
		Attempt:    answer.Attempt,
		Result:     result,
	})
}

func NewLessonCompletedEvent(result *models.LessonResult, finishedAt time.Time) *EvaluationEvent {
	return newEvent(EventLessonCompleted, result.UserID, LessonCompletedEvent{
		LessonID:   result.LessonID,
		Score:      result.Score,
		MaxScore:   result.MaxScore,
		Percentage: result.Percentage,
		Answered:   result.Answered,
		Questions:  result.Questions,
		UsedHints:  result.UsedHints,
		FinishedAt: finishedAt,
	})
}

func newEvent(eventType EventType, userID string, data interface{}) *EvaluationEvent {
	return &EvaluationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		UserID:    userID,
		Data:      data,
	}
}

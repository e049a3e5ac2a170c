package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Answer is a single submission for one question, as received from the client.
type Answer struct {
	QuestionID string          `json:"question_id" validate:"required"`
	Payload    json.RawMessage `json:"payload" validate:"required"`
}

// Object forms of the answer payload. Bare values are accepted as well.

type MultipleChoiceAnswer struct {
	SelectedOptions []string `json:"selected_options"`
}

type TrueOrFalseAnswer struct {
	Answer *bool `json:"answer"`
}

type SortableAnswer struct {
	Order []string `json:"order"`
}

type SliderAnswer struct {
	Value *float64 `json:"value"`
}

// UserAnswer is the persisted record of an evaluated answer. Rows are append-only:
// a new attempt creates a new row instead of updating the previous one.
type UserAnswer struct {
	ID         string         `json:"id" gorm:"column:uuid;primaryKey;type:uuid;default:gen_random_uuid()"`
	LessonID   string         `json:"lesson_id" gorm:"type:uuid;not null;index"`
	QuestionID *string        `json:"question_id" gorm:"type:uuid;index;uniqueIndex:idx_answer_attempt"`
	UserID     string         `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_answer_attempt"`
	Answer     datatypes.JSON `json:"answer" gorm:"type:jsonb"`
	Result     datatypes.JSON `json:"result" gorm:"type:jsonb"` // EvaluationResult
	Score      float64        `json:"score" gorm:"not null;default:0"`
	MaxPoints  *float64       `json:"max_points"`
	Attempt    int            `json:"attempt" gorm:"not null;default:1;uniqueIndex:idx_answer_attempt"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

// DecodeResult unmarshals the stored evaluation result.
func (ua *UserAnswer) DecodeResult() (*EvaluationResult, error) {
	if len(ua.Result) == 0 {
		return nil, nil
	}
	var result EvaluationResult
	if err := json.Unmarshal(ua.Result, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

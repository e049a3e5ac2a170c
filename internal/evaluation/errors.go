package evaluation

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// ErrUnsupportedQuestionType is returned when no rule exists for a question type.
var ErrUnsupportedQuestionType = errors.New("unsupported question type")

// MalformedAnswerError reports an answer payload whose shape does not fit the question type.
// The caller should ask the user for a valid submission.
type MalformedAnswerError struct {
	QuestionID string              `json:"question_id"`
	Type       models.QuestionType `json:"type"`
	Reason     string              `json:"reason"`
	Err        error               `json:"-"`
}

func (e *MalformedAnswerError) Error() string {
	msg := fmt.Sprintf("malformed answer for %s question %q: %s", e.Type, e.QuestionID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedAnswerError) Unwrap() error {
	return e.Err
}

// DataIntegrityError reports a stored question that cannot be graded, e.g. a missing solution.
// It points at an authoring or storage bug and must never be turned into a zero score.
type DataIntegrityError struct {
	QuestionID string `json:"question_id"`
	Field      string `json:"field"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

func (e *DataIntegrityError) Error() string {
	msg := fmt.Sprintf("data integrity error on question %q field %s: %s", e.QuestionID, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}

// IsUnsupportedType checks if error represents an unknown question type
func IsUnsupportedType(err error) bool {
	return errors.Is(err, ErrUnsupportedQuestionType)
}

// IsMalformedAnswer checks if error represents an invalid answer payload
func IsMalformedAnswer(err error) bool {
	var mae *MalformedAnswerError
	return errors.As(err, &mae)
}

// IsDataIntegrity checks if error represents a broken question record
func IsDataIntegrity(err error) bool {
	var die *DataIntegrityError
	return errors.As(err, &die)
}

func malformed(q *models.Question, reason string, err error) *MalformedAnswerError {
	return &MalformedAnswerError{QuestionID: q.ID, Type: q.Type, Reason: reason, Err: err}
}

func integrity(q *models.Question, field, reason string, err error) *DataIntegrityError {
	return &DataIntegrityError{QuestionID: q.ID, Field: field, Reason: reason, Err: err}
}

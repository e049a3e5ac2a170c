// Package evaluation scores answers against stored question definitions.
//
// Evaluation is a pure function of (question, answer). The engine never fetches data, logs or
// keeps state, so independent pairs may be evaluated concurrently.
package evaluation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// Evaluator scores a single answer.
type Evaluator interface {
	Evaluate(question *models.Question, answer *models.Answer) (*models.EvaluationResult, error)
}

type rule func(q *models.Question, payload json.RawMessage) (*models.EvaluationResult, error)

// Engine is the default Evaluator.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate validates the question record and the answer envelope, then dispatches to the
// rule registered for the question type.
func (e *Engine) Evaluate(question *models.Question, answer *models.Answer) (*models.EvaluationResult, error) {
	if question == nil {
		return nil, &DataIntegrityError{Field: "question", Reason: "question record is missing"}
	}

	var evaluate rule
	switch question.Type {
	case models.TrueOrFalse:
		evaluate = evaluateTrueOrFalse
	case models.MultipleChoice:
		evaluate = evaluateMultipleChoice
	case models.Sortable:
		evaluate = evaluateSortable
	case models.Slider:
		evaluate = evaluateSlider
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedQuestionType, question.Type)
	}

	if err := checkQuestion(question); err != nil {
		return nil, err
	}
	if err := checkAnswer(question, answer); err != nil {
		return nil, err
	}

	return evaluate(question, answer.Payload)
}

func checkQuestion(q *models.Question) error {
	if q.ID == "" {
		return integrity(q, "id", "question id is empty", nil)
	}
	if math.IsNaN(q.Points) || math.IsInf(q.Points, 0) || q.Points < 0 {
		return integrity(q, "points", fmt.Sprintf("point value must be a non-negative number, got %v", q.Points), nil)
	}
	if isNull(q.Solution) {
		return integrity(q, "solution", "solution is missing", nil)
	}
	return nil
}

func checkAnswer(q *models.Question, a *models.Answer) error {
	if a == nil {
		return malformed(q, "answer is missing", nil)
	}
	if a.QuestionID != q.ID {
		return malformed(q, fmt.Sprintf("answer references question %q", a.QuestionID), nil)
	}
	if isNull(a.Payload) {
		return malformed(q, "payload is empty", nil)
	}
	return nil
}

// ===== HELPERS =====

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func newResult(q *models.Question) *models.EvaluationResult {
	return &models.EvaluationResult{
		QuestionID: q.ID,
		Type:       q.Type,
		MaxScore:   q.Points,
	}
}

// finish clamps the score into [0, MaxScore] and derives the partial flag.
func finish(result *models.EvaluationResult, score float64) *models.EvaluationResult {
	result.Score = math.Max(0, math.Min(score, result.MaxScore))
	result.Partial = result.Score > 0 && result.Score < result.MaxScore
	return result
}

// decodeIDs reads either a bare JSON array of identifiers or the object form handled by fromObject.
func decodeIDs(raw json.RawMessage, fromObject func(json.RawMessage) ([]string, error)) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		if ids == nil {
			return nil, errors.New("identifier list is null")
		}
		return ids, checkIDs(ids)
	}
	ids, err := fromObject(raw)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		return nil, errors.New("identifier list is missing")
	}
	return ids, checkIDs(ids)
}

func checkIDs(ids []string) error {
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("identifier at index %d is empty", i)
		}
	}
	return nil
}

// decodeOptions reads the declared options of a question. An absent column yields nil.
func decodeOptions(q *models.Question) ([]string, error) {
	if isNull(q.Options) {
		return nil, nil
	}

	var options []models.Option
	if err := json.Unmarshal(q.Options, &options); err == nil {
		ids := make([]string, len(options))
		for i, opt := range options {
			ids[i] = opt.ID
		}
		if err := checkIDs(ids); err != nil {
			return nil, integrity(q, "options", "option without id", err)
		}
		return ids, nil
	}

	var ids []string
	if err := json.Unmarshal(q.Options, &ids); err != nil {
		return nil, integrity(q, "options", "options must be a list of {id, description} or identifiers", err)
	}
	if err := checkIDs(ids); err != nil {
		return nil, integrity(q, "options", "option without id", err)
	}
	return ids, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}

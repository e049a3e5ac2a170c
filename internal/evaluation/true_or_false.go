package evaluation

import (
	"encoding/json"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// evaluateTrueOrFalse awards full points for an exact match and nothing otherwise.
func evaluateTrueOrFalse(q *models.Question, payload json.RawMessage) (*models.EvaluationResult, error) {
	solution, ok := decodeBool(json.RawMessage(q.Solution))
	if !ok {
		var obj models.TrueOrFalseSolution
		if err := json.Unmarshal(q.Solution, &obj); err != nil || obj.Answer == nil {
			return nil, integrity(q, "solution", "solution must be a boolean", err)
		}
		solution = *obj.Answer
	}

	answer, ok := decodeBool(payload)
	if !ok {
		var obj models.TrueOrFalseAnswer
		if err := json.Unmarshal(payload, &obj); err != nil || obj.Answer == nil {
			return nil, malformed(q, "answer must be a boolean", err)
		}
		answer = *obj.Answer
	}

	result := newResult(q)
	result.Correct = answer == solution
	if result.Correct {
		return finish(result, q.Points), nil
	}
	return finish(result, 0), nil
}

// decodeBool accepts a JSON boolean or the strings "true" and "false".
func decodeBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

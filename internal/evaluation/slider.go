package evaluation

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// evaluateSlider grades a numeric answer by its distance d from the target.
//
//	d <= tolerance                      -> points
//	tolerance < d < tolerance + falloff -> points * (1 - (d-tolerance)/falloff)
//	otherwise                           -> 0
func evaluateSlider(q *models.Question, payload json.RawMessage) (*models.EvaluationResult, error) {
	solution, err := decodeSliderSolution(q)
	if err != nil {
		return nil, err
	}

	var value float64
	if err := json.Unmarshal(payload, &value); err != nil {
		var obj models.SliderAnswer
		if objErr := json.Unmarshal(payload, &obj); objErr != nil || obj.Value == nil {
			return nil, malformed(q, "answer must be a number", err)
		}
		value = *obj.Value
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, malformed(q, "answer must be a finite number", nil)
	}
	if solution.Min != nil && value < *solution.Min {
		return nil, malformed(q, fmt.Sprintf("answer %v is below the slider minimum %v", value, *solution.Min), nil)
	}
	if solution.Max != nil && value > *solution.Max {
		return nil, malformed(q, fmt.Sprintf("answer %v is above the slider maximum %v", value, *solution.Max), nil)
	}

	result := newResult(q)
	distance := math.Abs(value - *solution.Target)
	switch {
	case distance <= solution.Tolerance:
		result.Correct = true
		return finish(result, q.Points), nil
	case solution.Falloff > 0 && distance < solution.Tolerance+solution.Falloff:
		return finish(result, q.Points*(1-(distance-solution.Tolerance)/solution.Falloff)), nil
	default:
		return finish(result, 0), nil
	}
}

func decodeSliderSolution(q *models.Question) (*models.SliderSolution, error) {
	var target float64
	if err := json.Unmarshal(q.Solution, &target); err == nil {
		return &models.SliderSolution{Target: &target}, nil
	}

	var solution models.SliderSolution
	if err := json.Unmarshal(q.Solution, &solution); err != nil || solution.Target == nil {
		return nil, integrity(q, "solution", "solution must be a number or {target, tolerance, falloff}", err)
	}
	if solution.Tolerance < 0 || solution.Falloff < 0 {
		return nil, integrity(q, "solution", "tolerance and falloff must not be negative", nil)
	}
	if solution.Min != nil && solution.Max != nil && *solution.Min > *solution.Max {
		return nil, integrity(q, "solution", "slider minimum exceeds maximum", nil)
	}
	return &solution, nil
}

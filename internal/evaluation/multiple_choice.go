package evaluation

import (
	"encoding/json"
	"errors"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// evaluateMultipleChoice grades a selection against the set of correct options.
//
//	score = points * max(0, hits - wrong) / |solution|
//
// hits counts selected options that are correct, wrong counts selected options that are not.
// Each wrong selection cancels one correct one, so ticking every option never earns credit.
func evaluateMultipleChoice(q *models.Question, payload json.RawMessage) (*models.EvaluationResult, error) {
	solutionIDs, err := decodeIDs(json.RawMessage(q.Solution), func(raw json.RawMessage) ([]string, error) {
		var obj models.MultipleChoiceSolution
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, err
		}
		return obj.CorrectOptions, nil
	})
	if err != nil {
		return nil, integrity(q, "solution", "solution must be a list of option ids", err)
	}
	if len(solutionIDs) == 0 {
		return nil, integrity(q, "solution", "solution has no correct options", nil)
	}

	selectedIDs, err := decodeIDs(payload, func(raw json.RawMessage) ([]string, error) {
		var obj models.MultipleChoiceAnswer
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, err
		}
		return obj.SelectedOptions, nil
	})
	if err != nil {
		return nil, malformed(q, "answer must be a list of option ids", err)
	}

	optionIDs, err := decodeOptions(q)
	if err != nil {
		return nil, err
	}
	if optionIDs != nil {
		declared := toSet(optionIDs)
		for _, id := range solutionIDs {
			if _, ok := declared[id]; !ok {
				return nil, integrity(q, "solution", "solution references undeclared option "+id, nil)
			}
		}
		for _, id := range selectedIDs {
			if _, ok := declared[id]; !ok {
				return nil, malformed(q, "unknown option "+id, errors.New("option is not part of the question"))
			}
		}
	}

	correct := toSet(solutionIDs)
	selected := toSet(selectedIDs)

	hits, wrong := 0, 0
	for id := range selected {
		if _, ok := correct[id]; ok {
			hits++
		} else {
			wrong++
		}
	}

	result := newResult(q)
	result.Verdicts = optionVerdicts(verdictOrder(optionIDs, solutionIDs, selectedIDs), correct, selected)
	result.Correct = hits == len(correct) && wrong == 0

	score := q.Points * float64(hits-wrong) / float64(len(correct))
	return finish(result, score), nil
}

// verdictOrder lists every option once: declared options in authoring order, otherwise the
// solution followed by any extra selections in the order they were given.
func verdictOrder(optionIDs, solutionIDs, selectedIDs []string) []string {
	if optionIDs != nil {
		return optionIDs
	}

	seen := make(map[string]struct{}, len(solutionIDs)+len(selectedIDs))
	order := make([]string, 0, len(solutionIDs)+len(selectedIDs))
	for _, group := range [][]string{solutionIDs, selectedIDs} {
		for _, id := range group {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			order = append(order, id)
		}
	}
	return order
}

func optionVerdicts(order []string, correct, selected map[string]struct{}) []models.Verdict {
	verdicts := make([]models.Verdict, len(order))
	for i, id := range order {
		_, isCorrect := correct[id]
		_, isSelected := selected[id]
		verdicts[i] = models.Verdict{
			ID:       id,
			Correct:  isCorrect == isSelected,
			Selected: boolPtr(isSelected),
		}
	}
	return verdicts
}

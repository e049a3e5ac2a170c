package evaluation

import (
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// evaluateSortable grades an ordering by pairwise agreement with the solution.
//
//	score = points * concordantPairs / (n*(n-1)/2)
//
// A pair is concordant when the answer keeps the two items in the same relative order as the
// solution. The correct order scores full points and the reversed order scores 0. Swapping two
// neighbours flips exactly one pair, so it costs points / (n*(n-1)/2).
func evaluateSortable(q *models.Question, payload json.RawMessage) (*models.EvaluationResult, error) {
	solution, err := decodeIDs(json.RawMessage(q.Solution), func(raw json.RawMessage) ([]string, error) {
		var obj models.SortableSolution
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, err
		}
		return obj.Order, nil
	})
	if err != nil {
		return nil, integrity(q, "solution", "solution must be an ordered list of item ids", err)
	}
	if len(solution) == 0 {
		return nil, integrity(q, "solution", "solution has no items", nil)
	}

	expected := make(map[string]int, len(solution))
	for i, id := range solution {
		if _, dup := expected[id]; dup {
			return nil, integrity(q, "solution", "duplicate item "+id, nil)
		}
		expected[id] = i
	}

	order, err := decodeIDs(payload, func(raw json.RawMessage) ([]string, error) {
		var obj models.SortableAnswer
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, err
		}
		return obj.Order, nil
	})
	if err != nil {
		return nil, malformed(q, "answer must be an ordered list of item ids", err)
	}
	if len(order) != len(solution) {
		return nil, malformed(q, fmt.Sprintf("expected %d items, got %d", len(solution), len(order)), nil)
	}

	// ranks[i] is the solution position of the item placed at answer position i
	ranks := make([]int, len(order))
	seen := make(map[string]struct{}, len(order))
	for i, id := range order {
		rank, ok := expected[id]
		if !ok {
			return nil, malformed(q, "unknown item "+id, nil)
		}
		if _, dup := seen[id]; dup {
			return nil, malformed(q, "duplicate item "+id, nil)
		}
		seen[id] = struct{}{}
		ranks[i] = rank
	}

	result := newResult(q)
	result.Verdicts = make([]models.Verdict, len(order))
	inPlace := 0
	for i, id := range order {
		if ranks[i] == i {
			inPlace++
		}
		result.Verdicts[i] = models.Verdict{
			ID:               id,
			Correct:          ranks[i] == i,
			Position:         intPtr(i),
			ExpectedPosition: intPtr(ranks[i]),
		}
	}
	result.Correct = inPlace == len(order)

	pairs := len(order) * (len(order) - 1) / 2
	if pairs == 0 {
		return finish(result, q.Points), nil
	}
	return finish(result, q.Points*float64(concordantPairs(ranks))/float64(pairs)), nil
}

func concordantPairs(ranks []int) int {
	count := 0
	for i := 0; i < len(ranks); i++ {
		for j := i + 1; j < len(ranks); j++ {
			if ranks[i] < ranks[j] {
				count++
			}
		}
	}
	return count
}

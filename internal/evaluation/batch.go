package evaluation

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"golang.org/x/sync/errgroup"
)

// Item is one (question, answer) pair of a batch.
type Item struct {
	Question *models.Question
	Answer   *models.Answer
}

// EvaluateBatch evaluates independent pairs concurrently, at most limit at a time (unbounded when
// limit <= 0). Results keep the order of items. The first failure cancels the remaining work and
// is returned.
func EvaluateBatch(ctx context.Context, evaluator Evaluator, items []Item, limit int) ([]*models.EvaluationResult, error) {
	results := make([]*models.EvaluationResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := evaluator.Evaluate(item.Question, item.Answer)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package evaluation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// ===== TRUE OR FALSE =====

func TestTrueOrFalse(t *testing.T) {
	tests := []struct {
		name     string
		solution string
		payload  string
		score    float64
		correct  bool
	}{
		{"true matches true", `true`, `true`, 4, true},
		{"false matches false", `false`, `false`, 4, true},
		{"true vs false", `true`, `false`, 0, false},
		{"string solution", `"true"`, `true`, 4, true},
		{"string answer", `false`, `"FALSE"`, 4, true},
		{"object answer", `true`, `{"answer": true}`, 4, true},
		{"object solution", `{"answer": false}`, `true`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewEngine().Evaluate(
				newQuestion("tf", models.TrueOrFalse, tt.solution, 4),
				newAnswer("tf", tt.payload),
			)

			require.NoError(t, err)
			assert.Equal(t, tt.score, result.Score)
			assert.Equal(t, tt.correct, result.Correct)
			assert.False(t, result.Partial)
			assert.Empty(t, result.Verdicts)
		})
	}
}

func TestTrueOrFalse_Errors(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Evaluate(newQuestion("tf", models.TrueOrFalse, `"maybe"`, 1), newAnswer("tf", `true`))
	assert.True(t, IsDataIntegrity(err), "unexpected error: %v", err)

	for _, payload := range []string{`"yes"`, `1`, `["true"]`, `{"answer": "x"}`, `{}`} {
		_, err := engine.Evaluate(newQuestion("tf", models.TrueOrFalse, `true`, 1), newAnswer("tf", payload))
		assert.True(t, IsMalformedAnswer(err), "payload %s: unexpected error: %v", payload, err)
	}
}

// ===== MULTIPLE CHOICE =====

func TestMultipleChoice(t *testing.T) {
	tests := []struct {
		name     string
		solution string
		payload  string
		score    float64
		correct  bool
	}{
		{"all correct", `["a","b"]`, `["b","a"]`, 10, true},
		{"nothing selected", `["a","b"]`, `[]`, 0, false},
		{"half", `["a","b"]`, `["a"]`, 5, false},
		{"one wrong cancels one hit", `["a","b"]`, `["a","c"]`, 0, false},
		{"floor at zero", `["a"]`, `["b","c","d"]`, 0, false},
		{"two of three minus one wrong", `["a","b","c"]`, `["a","b","d"]`, 10.0 / 3, false},
		{"duplicates collapse", `["a","b"]`, `["a","a"]`, 5, false},
		{"object forms", `{"correct_options":["a"]}`, `{"selected_options":["a"]}`, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewEngine().Evaluate(
				newQuestion("mc", models.MultipleChoice, tt.solution, 10),
				newAnswer("mc", tt.payload),
			)

			require.NoError(t, err)
			assert.InDelta(t, tt.score, result.Score, 1e-9)
			assert.Equal(t, tt.correct, result.Correct)
		})
	}
}

func TestMultipleChoice_VerdictsFollowDeclaredOptions(t *testing.T) {
	q := newQuestion("mc", models.MultipleChoice, `["b","d"]`, 2)
	q.Options = datatypes.JSON(`[{"id":"a","description":"A"},{"id":"b"},{"id":"c"},{"id":"d"}]`)

	result, err := NewEngine().Evaluate(q, newAnswer("mc", `["b","c"]`))
	require.NoError(t, err)

	require.Len(t, result.Verdicts, 4)
	want := []struct {
		id       string
		selected bool
		correct  bool
	}{
		{"a", false, true},
		{"b", true, true},
		{"c", true, false},
		{"d", false, false},
	}
	for i, w := range want {
		v := result.Verdicts[i]
		assert.Equal(t, w.id, v.ID)
		require.NotNil(t, v.Selected)
		assert.Equal(t, w.selected, *v.Selected, "option %s", w.id)
		assert.Equal(t, w.correct, v.Correct, "option %s", w.id)
	}
	assert.Equal(t, 0.0, result.Score)
}

func TestMultipleChoice_ZeroPointsStillJudgesSelection(t *testing.T) {
	engine := NewEngine()
	q := newQuestion("mc", models.MultipleChoice, `["a","b"]`, 0)

	result, err := engine.Evaluate(q, newAnswer("mc", `["a","c"]`))
	require.NoError(t, err)
	assert.Zero(t, result.Score)
	assert.False(t, result.Correct)
	assert.False(t, result.Partial)

	result, err = engine.Evaluate(q, newAnswer("mc", `["b","a"]`))
	require.NoError(t, err)
	assert.True(t, result.Correct)
}

func TestMultipleChoice_Errors(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Evaluate(newQuestion("mc", models.MultipleChoice, `[]`, 1), newAnswer("mc", `["a"]`))
	assert.True(t, IsDataIntegrity(err), "empty solution: %v", err)

	_, err = engine.Evaluate(newQuestion("mc", models.MultipleChoice, `true`, 1), newAnswer("mc", `["a"]`))
	assert.True(t, IsDataIntegrity(err), "boolean solution: %v", err)

	for _, payload := range []string{`"a"`, `[1,2]`, `[""]`, `{"selected":["a"]}`, `true`} {
		_, err := engine.Evaluate(newQuestion("mc", models.MultipleChoice, `["a"]`, 1), newAnswer("mc", payload))
		assert.True(t, IsMalformedAnswer(err), "payload %s: %v", payload, err)
	}

	withOptions := newQuestion("mc", models.MultipleChoice, `["a"]`, 1)
	withOptions.Options = datatypes.JSON(`["a","b"]`)
	_, err = engine.Evaluate(withOptions, newAnswer("mc", `["z"]`))
	assert.True(t, IsMalformedAnswer(err), "undeclared option: %v", err)

	badSolution := newQuestion("mc", models.MultipleChoice, `["x"]`, 1)
	badSolution.Options = datatypes.JSON(`["a","b"]`)
	_, err = engine.Evaluate(badSolution, newAnswer("mc", `["a"]`))
	assert.True(t, IsDataIntegrity(err), "solution outside options: %v", err)
}

func TestMultipleChoice_MonotonicInSelection(t *testing.T) {
	solution := []string{"a", "b", "c", "d"}
	wrong := []string{"w", "x", "y", "z"}
	q := newQuestion("mc", models.MultipleChoice, jsonList(solution), 8)

	// adding correct options never lowers the score
	for w := 0; w <= len(wrong); w++ {
		previous := -1.0
		for c := 0; c <= len(solution); c++ {
			selection := append(append([]string{}, solution[:c]...), wrong[:w]...)
			result, err := NewEngine().Evaluate(q, newAnswer("mc", jsonList(selection)))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.Score, previous)
			assert.GreaterOrEqual(t, result.Score, 0.0)
			assert.LessOrEqual(t, result.Score, 8.0)
			previous = result.Score
		}
	}

	// adding wrong options never raises the score
	for c := 0; c <= len(solution); c++ {
		previous := 9.0
		for w := 0; w <= len(wrong); w++ {
			selection := append(append([]string{}, solution[:c]...), wrong[:w]...)
			result, err := NewEngine().Evaluate(q, newAnswer("mc", jsonList(selection)))
			require.NoError(t, err)
			assert.LessOrEqual(t, result.Score, previous)
			previous = result.Score
		}
	}
}

// ===== SORTABLE =====

func TestSortable(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		score   float64
		correct bool
	}{
		{"correct order", `["a","b","c","d"]`, 6, true},
		{"reversed", `["d","c","b","a"]`, 0, false},
		{"first pair swapped", `["b","a","c","d"]`, 5, false},
		{"last moved to front", `["d","a","b","c"]`, 3, false},
		{"object form", `{"order":["a","b","c","d"]}`, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewEngine().Evaluate(
				newQuestion("s", models.Sortable, `["a","b","c","d"]`, 6),
				newAnswer("s", tt.payload),
			)

			require.NoError(t, err)
			assert.InDelta(t, tt.score, result.Score, 1e-9)
			assert.Equal(t, tt.correct, result.Correct)
			assert.Len(t, result.Verdicts, 4)
		})
	}
}

func TestSortable_AdjacentSwapCost(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f"}
	q := newQuestion("s", models.Sortable, jsonList(items), 30)
	pairs := float64(len(items) * (len(items) - 1) / 2)

	for i := 0; i+1 < len(items); i++ {
		swapped := append([]string{}, items...)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]

		result, err := NewEngine().Evaluate(q, newAnswer("s", jsonList(swapped)))
		require.NoError(t, err)
		assert.InDelta(t, 30-30/pairs, result.Score, 1e-9, "swap at %d", i)
	}
}

func TestSortable_Verdicts(t *testing.T) {
	result, err := NewEngine().Evaluate(
		newQuestion("s", models.Sortable, `["a","b","c"]`, 3),
		newAnswer("s", `["a","c","b"]`),
	)
	require.NoError(t, err)

	require.Len(t, result.Verdicts, 3)
	assert.True(t, result.Verdicts[0].Correct)
	assert.False(t, result.Verdicts[1].Correct)
	assert.Equal(t, "c", result.Verdicts[1].ID)
	assert.Equal(t, 1, *result.Verdicts[1].Position)
	assert.Equal(t, 2, *result.Verdicts[1].ExpectedPosition)
}

func TestSortable_SingleItem(t *testing.T) {
	result, err := NewEngine().Evaluate(
		newQuestion("s", models.Sortable, `["only"]`, 2),
		newAnswer("s", `["only"]`),
	)
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Score)
	assert.True(t, result.Correct)
}

func TestSortable_Errors(t *testing.T) {
	engine := NewEngine()

	for _, solution := range []string{`[]`, `["a","a"]`, `"a"`} {
		_, err := engine.Evaluate(newQuestion("s", models.Sortable, solution, 1), newAnswer("s", `["a"]`))
		assert.True(t, IsDataIntegrity(err), "solution %s: %v", solution, err)
	}

	for _, payload := range []string{`["a","b"]`, `["a","b","b"]`, `["a","b","z"]`, `"abc"`, `["a","b","c","d"]`} {
		_, err := engine.Evaluate(newQuestion("s", models.Sortable, `["a","b","c"]`, 1), newAnswer("s", payload))
		assert.True(t, IsMalformedAnswer(err), "payload %s: %v", payload, err)
	}
}

// ===== SLIDER =====

func TestSlider(t *testing.T) {
	solution := `{"target": 50, "tolerance": 2, "falloff": 8, "min": 0, "max": 100}`

	tests := []struct {
		name    string
		payload string
		score   float64
		correct bool
		partial bool
	}{
		{"exact", `50`, 10, true, false},
		{"inside tolerance", `48`, 10, true, false},
		{"halfway through falloff", `56`, 5, false, true},
		{"edge of falloff", `60`, 0, false, false},
		{"far away", `90`, 0, false, false},
		{"object form", `{"value": 44}`, 5, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewEngine().Evaluate(
				newQuestion("sl", models.Slider, solution, 10),
				newAnswer("sl", tt.payload),
			)

			require.NoError(t, err)
			assert.InDelta(t, tt.score, result.Score, 1e-9)
			assert.Equal(t, tt.correct, result.Correct)
			assert.Equal(t, tt.partial, result.Partial)
		})
	}
}

func TestSlider_BareTargetIsExact(t *testing.T) {
	engine := NewEngine()
	q := newQuestion("sl", models.Slider, `3.5`, 4)

	result, err := engine.Evaluate(q, newAnswer("sl", `3.5`))
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Score)

	result, err = engine.Evaluate(q, newAnswer("sl", `3.6`))
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
}

func TestSlider_NonIncreasingWithDistance(t *testing.T) {
	q := newQuestion("sl", models.Slider, `{"target": 0, "tolerance": 1.5, "falloff": 6}`, 10)

	previous := 10.0
	for d := 0.0; d <= 12; d += 0.25 {
		for _, sign := range []float64{1, -1} {
			result, err := NewEngine().Evaluate(q, newAnswer("sl", fmt.Sprintf("%v", sign*d)))
			require.NoError(t, err)
			assert.LessOrEqual(t, result.Score, previous, "distance %v", d)
		}
		result, _ := NewEngine().Evaluate(q, newAnswer("sl", fmt.Sprintf("%v", d)))
		previous = result.Score
	}
}

func TestSlider_Errors(t *testing.T) {
	engine := NewEngine()

	for _, solution := range []string{`"50"`, `{"tolerance": 1}`, `{"target": 1, "tolerance": -1}`, `{"target": 1, "min": 5, "max": 0}`} {
		_, err := engine.Evaluate(newQuestion("sl", models.Slider, solution, 1), newAnswer("sl", `1`))
		assert.True(t, IsDataIntegrity(err), "solution %s: %v", solution, err)
	}

	bounded := `{"target": 5, "min": 0, "max": 10}`
	for _, payload := range []string{`"5"`, `[5]`, `{"val": 5}`, `-1`, `11`, `1e999`} {
		_, err := engine.Evaluate(newQuestion("sl", models.Slider, bounded, 1), newAnswer("sl", payload))
		assert.True(t, IsMalformedAnswer(err), "payload %s: %v", payload, err)
	}
}

func jsonList(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + id + `"`
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

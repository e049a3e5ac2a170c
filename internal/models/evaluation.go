package models

// EvaluationResult is the scored outcome of one answer.
type EvaluationResult struct {
	QuestionID string       `json:"question_id"`
	Type       QuestionType `json:"type"`
	Score      float64      `json:"score"`
	MaxScore   float64      `json:"max_points"`
	Correct    bool         `json:"correct"` // whole answer correct
	Partial    bool         `json:"partial"` // 0 < Score < MaxScore
	Verdicts   []Verdict    `json:"results,omitempty"`
}

// Verdict marks a single option (MultipleChoice) or item (Sortable) as answered correctly or not.
type Verdict struct {
	ID               string `json:"id"`
	Correct          bool   `json:"answer_is_correct"`
	Selected         *bool  `json:"selected,omitempty"`
	Position         *int   `json:"position,omitempty"`
	ExpectedPosition *int   `json:"expected_position,omitempty"`
}

// LessonResult aggregates the evaluation of a lesson submission.
type LessonResult struct {
	LessonID   string  `json:"lesson_id"`
	UserID     string  `json:"user_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_points"`
	Percentage float64 `json:"percentage"`
	Answered   int     `json:"answered"`
	Questions  int     `json:"questions"`
	UsedHints  int     `json:"used_hints"`

	// points credited to the user profile; only the first completion of a lesson earns any
	PointsAwarded float64             `json:"points_awarded"`
	Results       []*EvaluationResult `json:"results"`
}

package validator

import (
	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// SubmissionValidator checks a lesson submission against the questions of the lesson
type SubmissionValidator struct{}

// NewSubmissionValidator creates a new submission validator
func NewSubmissionValidator() *SubmissionValidator {
	return &SubmissionValidator{}
}

// SubmissionReport lists the problems found in a submission, in answer order
type SubmissionReport struct {
	Unknown    []string // question ids not part of the lesson
	Duplicates []string // question ids answered more than once
}

func (r *SubmissionReport) Valid() bool {
	return len(r.Unknown) == 0 && len(r.Duplicates) == 0
}

// CheckAnswers matches every answer to a question of the lesson.
func (v *SubmissionValidator) CheckAnswers(questions []models.Question, answers []models.Answer) *SubmissionReport {
	inLesson := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		inLesson[q.ID] = struct{}{}
	}

	report := &SubmissionReport{}
	seen := make(map[string]int, len(answers))
	for _, a := range answers {
		if _, ok := inLesson[a.QuestionID]; !ok {
			report.Unknown = append(report.Unknown, a.QuestionID)
			continue
		}
		seen[a.QuestionID]++
		if seen[a.QuestionID] == 2 {
			report.Duplicates = append(report.Duplicates, a.QuestionID)
		}
	}
	return report
}

// ScorableMaxPoints sums the points of every question the engine can grade.
func (v *SubmissionValidator) ScorableMaxPoints(questions []models.Question) float64 {
	total := 0.0
	for _, q := range questions {
		if q.Type.IsScorable() {
			total += q.Points
		}
	}
	return total
}

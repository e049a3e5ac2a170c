package services

import (
	"context"
	"encoding/json"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// ===== SERVICE INTERFACES =====

type EvaluationService interface {
	// Evaluate grades a caller-supplied question without touching storage
	Evaluate(ctx context.Context, req *EvaluateRequest) (*models.EvaluationResult, error)
	SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest, userID string) (*AnswerResponse, error)
	SubmitLesson(ctx context.Context, req *SubmitLessonRequest, userID string) (*models.LessonResult, error)
	GetLessonResults(ctx context.Context, lessonID, userID string) (*models.LessonResult, error)
	// InvalidateLessonCache drops cached questions of a lesson after they were edited elsewhere
	InvalidateLessonCache(ctx context.Context, lessonID string) error
}

type ExportService interface {
	// ExportLessonResults renders every stored answer of a lesson as an xlsx workbook
	ExportLessonResults(ctx context.Context, lessonID string) ([]byte, error)
}

// ===== REQUESTS =====

type EvaluateRequest struct {
	Question *models.Question `json:"question"`
	Answer   *models.Answer   `json:"answer"`
}

type SubmitAnswerRequest struct {
	QuestionID string          `json:"-" validate:"required"`
	Payload    json.RawMessage `json:"payload" validate:"json_payload"`
}

type SubmitLessonRequest struct {
	LessonID  string          `json:"-" validate:"required,lesson_uuid"`
	Answers   []models.Answer `json:"answers" validate:"required,min=1,dive"`
	UsedHints int             `json:"used_hints" validate:"min=0"`
}

// ===== RESPONSES =====

type AnswerResponse struct {
	ID         string                   `json:"id"`
	LessonID   string                   `json:"lesson_id"`
	QuestionID string                   `json:"question_id"`
	Attempt    int                      `json:"attempt"`
	Result     *models.EvaluationResult `json:"result"`
}

package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// ErrRecordNotFound is returned by single-record lookups that match nothing
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when a write hits a unique constraint
var ErrDuplicateKey = errors.New("duplicate key")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// ===== REPOSITORIES =====

type LessonRepository interface {
	GetByID(ctx context.Context, id string) (*models.Lesson, error)
}

type QuestionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Question, error)
	// GetByLesson returns the questions of a lesson ordered by position
	GetByLesson(ctx context.Context, lessonID string) ([]models.Question, error)
}

// UserAnswerRepository stores graded answers. Rows are append-only.
type UserAnswerRepository interface {
	Create(ctx context.Context, answer *models.UserAnswer) error
	CreateBatch(ctx context.Context, answers []*models.UserAnswer) error
	// LockUser holds a per-user lock until the surrounding transaction ends, so that
	// CountAttempts followed by Create cannot hand out the same attempt number twice
	LockUser(ctx context.Context, userID string) error
	CountAttempts(ctx context.Context, userID, questionID string) (int, error)
	GetByLessonAndUser(ctx context.Context, lessonID, userID string) ([]*models.UserAnswer, error)
	GetByLesson(ctx context.Context, lessonID string) ([]*models.UserAnswer, error)
}

type ProgressRepository interface {
	// AddPoints adds delta to the running total of the user, creating the row on first use
	AddPoints(ctx context.Context, userID string, delta float64) (float64, error)
	GetPoints(ctx context.Context, userID string) (float64, error)
	// MarkLessonFinished is idempotent. It reports true only for the call that
	// moved the lesson to finished; concurrent callers see false.
	MarkLessonFinished(ctx context.Context, userID, lessonID string) (bool, error)
}

// Repository groups the repositories and runs units of work atomically
type Repository interface {
	Lessons() LessonRepository
	Questions() QuestionRepository
	UserAnswers() UserAnswerRepository
	Progress() ProgressRepository

	// Transaction runs fn against repositories bound to one database transaction.
	// Returning an error from fn rolls the transaction back.
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db          *gorm.DB
	lessons     repositories.LessonRepository
	questions   repositories.QuestionRepository
	userAnswers repositories.UserAnswerRepository
	progress    repositories.ProgressRepository
}

// NewRepository wires every postgres repository onto db
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:          db,
		lessons:     NewLessonPostgreSQL(db),
		questions:   NewQuestionPostgreSQL(db),
		userAnswers: NewUserAnswerPostgreSQL(db),
		progress:    NewProgressPostgreSQL(db),
	}
}

func (r *repository) Lessons() repositories.LessonRepository {
	return r.lessons
}

func (r *repository) Questions() repositories.QuestionRepository {
	return r.questions
}

func (r *repository) UserAnswers() repositories.UserAnswerRepository {
	return r.userAnswers
}

func (r *repository) Progress() repositories.ProgressRepository {
	return r.progress
}

func (r *repository) Transaction(ctx context.Context, fn func(repo repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// notFound maps gorm's sentinel onto the repository one
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrRecordNotFound
	}
	return err
}

// duplicate maps unique constraint violations onto the repository sentinel.
// It relies on gorm.Config.TranslateError being set.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", repositories.ErrDuplicateKey, err)
	}
	return err
}

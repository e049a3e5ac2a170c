package postgres

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).Where("uuid = ?", id).First(&question).Error; err != nil {
		return nil, notFound(err)
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetByLesson(ctx context.Context, lessonID string) ([]models.Question, error) {
	var questions []models.Question
	if err := q.db.WithContext(ctx).
		Where("lesson_uuid = ?", lessonID).
		Order("position ASC").
		Order("uuid ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

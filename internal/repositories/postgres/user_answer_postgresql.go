package postgres

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

const answerBatchSize = 100

type UserAnswerPostgreSQL struct {
	db *gorm.DB
}

func NewUserAnswerPostgreSQL(db *gorm.DB) repositories.UserAnswerRepository {
	return &UserAnswerPostgreSQL{db: db}
}

func (u *UserAnswerPostgreSQL) Create(ctx context.Context, answer *models.UserAnswer) error {
	return duplicate(u.db.WithContext(ctx).Create(answer).Error)
}

func (u *UserAnswerPostgreSQL) CreateBatch(ctx context.Context, answers []*models.UserAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return duplicate(u.db.WithContext(ctx).CreateInBatches(answers, answerBatchSize).Error)
}

func (u *UserAnswerPostgreSQL) LockUser(ctx context.Context, userID string) error {
	return u.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID).Error
}

func (u *UserAnswerPostgreSQL) CountAttempts(ctx context.Context, userID, questionID string) (int, error) {
	var count int64
	if err := u.db.WithContext(ctx).
		Model(&models.UserAnswer{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (u *UserAnswerPostgreSQL) GetByLessonAndUser(ctx context.Context, lessonID, userID string) ([]*models.UserAnswer, error) {
	var answers []*models.UserAnswer
	if err := u.db.WithContext(ctx).
		Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Order("created_at ASC").
		Order("attempt ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (u *UserAnswerPostgreSQL) GetByLesson(ctx context.Context, lessonID string) ([]*models.UserAnswer, error) {
	var answers []*models.UserAnswer
	if err := u.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("user_id ASC").
		Order("created_at ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

package postgres

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

type LessonPostgreSQL struct {
	db *gorm.DB
}

func NewLessonPostgreSQL(db *gorm.DB) repositories.LessonRepository {
	return &LessonPostgreSQL{db: db}
}

func (l *LessonPostgreSQL) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := l.db.WithContext(ctx).Where("uuid = ?", id).First(&lesson).Error; err != nil {
		return nil, notFound(err)
	}
	return &lesson, nil
}

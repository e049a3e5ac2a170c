package postgres

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) AddPoints(ctx context.Context, userID string, delta float64) (float64, error) {
	row := models.UserPoints{UserID: &userID, Points: &delta}

	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points": gorm.Expr("COALESCE(user_points.points, 0) + ?", delta),
		}),
	}).Create(&row).Error
	if err != nil {
		return 0, err
	}

	return p.GetPoints(ctx, userID)
}

func (p *ProgressPostgreSQL) GetPoints(ctx context.Context, userID string) (float64, error) {
	var row models.UserPoints
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return 0, notFound(err)
	}
	if row.Points == nil {
		return 0, nil
	}
	return *row.Points, nil
}

func (p *ProgressPostgreSQL) MarkLessonFinished(ctx context.Context, userID, lessonID string) (bool, error) {
	finished := true
	row := models.UserFinishedLesson{LessonID: &lessonID, UserID: &userID, Finished: &finished}

	// a conflicting insert waits for the other transaction and then matches zero rows
	result := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"finished": true}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("user_finished_lessons.finished IS DISTINCT FROM TRUE"),
		}},
	}).Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

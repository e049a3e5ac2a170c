package models

import "time"

type Lesson struct {
	ID          string    `json:"id" gorm:"column:uuid;primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Points      int       `json:"points" gorm:"not null;default:0"`
	Published   bool      `json:"published" gorm:"not null;default:false"`
	Example     *bool     `json:"example"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:LessonID;references:ID"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// IsOpen reports whether students may submit answers for the lesson.
func (l *Lesson) IsOpen() bool {
	return l.Published || (l.Example != nil && *l.Example)
}

type UserPoints struct {
	ID     uint     `json:"id" gorm:"primaryKey"`
	UserID *string  `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	Points *float64 `json:"points"`
}

func (UserPoints) TableName() string {
	return "user_points"
}

type UserFinishedLesson struct {
	ID       string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	LessonID *string `json:"lesson_id" gorm:"type:uuid;uniqueIndex:idx_finished_lesson_user"`
	UserID   *string `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_finished_lesson_user"`
	Finished *bool   `json:"finished"`
}

func (UserFinishedLesson) TableName() string {
	return "user_finished_lessons"
}

package models

import (
	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "MultipleChoice"
	TrueOrFalse    QuestionType = "TrueOrFalse"
	Slider         QuestionType = "Slider"
	Sortable       QuestionType = "Sortable"
)

// ScorableQuestionTypes lists every type the evaluation engine can grade.
var ScorableQuestionTypes = []QuestionType{
	MultipleChoice,
	TrueOrFalse,
	Slider,
	Sortable,
}

// IsScorable reports whether the type has an evaluation rule.
func (t QuestionType) IsScorable() bool {
	for _, st := range ScorableQuestionTypes {
		if st == t {
			return true
		}
	}
	return false
}

type Question struct {
	ID       string         `json:"id" gorm:"column:uuid;primaryKey;type:uuid;default:gen_random_uuid()"`
	LessonID *string        `json:"lesson_id,omitempty" gorm:"column:lesson_uuid;type:uuid;index"`
	Position int            `json:"position" gorm:"not null;default:0"`
	Text     *string        `json:"question,omitempty" gorm:"column:question;type:text"`
	Type     QuestionType   `json:"type" gorm:"column:question_type;not null" validate:"required,question_type"`
	Options  datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"` // []Option
	Solution datatypes.JSON `json:"solution" gorm:"type:jsonb"`          // shape depends on Type
	Hint     *string        `json:"hint,omitempty" gorm:"type:text"`
	Points   float64        `json:"points" gorm:"not null;default:0" validate:"min=0"`
}

func (Question) TableName() string {
	return "questions"
}

// Option is a selectable choice of a MultipleChoice question or an item of a Sortable one.
type Option struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// Solution shapes stored in Question.Solution. Every rule also accepts the bare value form.

type MultipleChoiceSolution struct {
	CorrectOptions []string `json:"correct_options"`
}

type TrueOrFalseSolution struct {
	Answer *bool `json:"answer"`
}

type SortableSolution struct {
	Order []string `json:"order"`
}

type SliderSolution struct {
	Target    *float64 `json:"target"`
	Tolerance float64  `json:"tolerance"`
	Falloff   float64  `json:"falloff"` // width of the linear partial-credit band beyond Tolerance
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuizStatus string

const (
	StatusPending  QuizStatus = "PENDING"
	StatusApproved QuizStatus = "APPROVED"
	StatusRejected QuizStatus = "REJECTED"
)

// AnswerOption is one selectable option of a question. IDs are unique within
// the owning question.
type AnswerOption struct {
	ID      int    `json:"id" validate:"min=0"`
	Text    string `json:"text" validate:"required"`
	Correct bool   `json:"correct"`
}

// Question is stored inside the quiz JSONB payload, not as its own table.
// IDs are unique within the owning quiz.
type Question struct {
	ID      int            `json:"id" validate:"min=0"`
	Text    string         `json:"text" validate:"required"`
	Points  int            `json:"points" validate:"required,min=1"`
	Options []AnswerOption `json:"options" validate:"required,min=2,dive"`
}

// CorrectOptionIDs returns the ids of all options flagged correct.
func (q Question) CorrectOptionIDs() []int {
	ids := make([]int, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.Correct {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

type Quiz struct {
	ID              uint                           `json:"id" gorm:"primaryKey"`
	Title           string                         `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Questions       datatypes.JSONType[[]Question] `json:"questions" gorm:"type:jsonb"`
	DurationSeconds int                            `json:"duration_seconds" gorm:"not null" validate:"required,min=10"`
	Status          QuizStatus                     `json:"status" gorm:"default:PENDING;index" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	RejectionReason *string                        `json:"rejection_reason,omitempty" gorm:"type:text"`

	// Author identity comes from the user service token, not a local table.
	AuthorID    string `json:"author_id" gorm:"not null;size:64;index"`
	AuthorEmail string `json:"author_email" gorm:"not null;size:120"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// MaxPoints is the sum of all question point values.
func (q *Quiz) MaxPoints() int {
	total := 0
	for _, question := range q.Questions.Data() {
		total += question.Points
	}
	return total
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmittedAnswer is a player's response to one question. Single-select
// clients send option_id, multi-select clients send option_ids; scoring
// normalizes both into a set before comparison.
type SubmittedAnswer struct {
	QuestionID int   `json:"question_id" validate:"min=0"`
	OptionID   *int  `json:"option_id,omitempty"`
	OptionIDs  []int `json:"option_ids,omitempty"`
}

// NormalizedOptionIDs coerces the single-option field into a one-element
// slice so both submission shapes compare uniformly.
func (a SubmittedAnswer) NormalizedOptionIDs() []int {
	if a.OptionID != nil {
		return []int{*a.OptionID}
	}
	return a.OptionIDs
}

// Result is the immutable scored record of one submission. It is inserted as
// a single row by a worker and never updated; the quiz title is snapshotted
// so history survives quiz deletion.
type Result struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	QuizID    uint   `json:"quiz_id" gorm:"not null;index"`
	QuizTitle string `json:"quiz_title" gorm:"not null;size:200"`

	PlayerID    string `json:"player_id" gorm:"not null;size:64;index"`
	PlayerEmail string `json:"player_email" gorm:"not null;size:120"`

	Answers datatypes.JSONType[[]SubmittedAnswer] `json:"answers" gorm:"type:jsonb"`

	Awarded        int     `json:"awarded" gorm:"not null"`
	Maximum        int     `json:"maximum" gorm:"not null"`
	Percentage     float64 `json:"percentage" gorm:"not null"`
	CorrectCount   int     `json:"correct_count" gorm:"not null"`
	ElapsedSeconds int     `json:"elapsed_seconds" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	// Computed at read time for leaderboard responses, never stored.
	Rank int `json:"rank,omitempty" gorm:"-"`
}

func (Result) TableName() string {
	return "quiz_results"
}

package events

import (
	"time"

	"github.com/quiz-platform/quiz-service/internal/models"
)

// EventType represents quiz lifecycle events consumed by the user service,
// which fans them out to connected websocket clients.
type EventType string

const (
	EventQuizCreated  EventType = "quiz.created"
	EventQuizApproved EventType = "quiz.approved"
	EventQuizRejected EventType = "quiz.rejected"

	EventResultRecorded EventType = "result.recorded"
)

// QuizEvent is the envelope for all published events.
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type QuizCreatedEvent struct {
	QuizID      uint      `json:"quiz_id"`
	Title       string    `json:"title"`
	AuthorID    string    `json:"author_id"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuizApprovedEvent struct {
	QuizID   uint   `json:"quiz_id"`
	Title    string `json:"title"`
	AuthorID string `json:"author_id"`
}

type QuizRejectedEvent struct {
	QuizID   uint   `json:"quiz_id"`
	Title    string `json:"title"`
	AuthorID string `json:"author_id"`
	Reason   string `json:"reason"`
}

type ResultRecordedEvent struct {
	QuizID     uint    `json:"quiz_id"`
	QuizTitle  string  `json:"quiz_title"`
	PlayerID   string  `json:"player_id"`
	Awarded    int     `json:"awarded"`
	Maximum    int     `json:"maximum"`
	Percentage float64 `json:"percentage"`
}

// NewQuizCreated builds the envelope for a freshly created quiz.
func NewQuizCreated(quiz *models.Quiz) *QuizEvent {
	return newEvent(EventQuizCreated, QuizCreatedEvent{
		QuizID:      quiz.ID,
		Title:       quiz.Title,
		AuthorID:    quiz.AuthorID,
		AuthorEmail: quiz.AuthorEmail,
		CreatedAt:   quiz.CreatedAt,
	})
}

func NewQuizApproved(quiz *models.Quiz) *QuizEvent {
	return newEvent(EventQuizApproved, QuizApprovedEvent{
		QuizID:   quiz.ID,
		Title:    quiz.Title,
		AuthorID: quiz.AuthorID,
	})
}

func NewQuizRejected(quiz *models.Quiz, reason string) *QuizEvent {
	return newEvent(EventQuizRejected, QuizRejectedEvent{
		QuizID:   quiz.ID,
		Title:    quiz.Title,
		AuthorID: quiz.AuthorID,
		Reason:   reason,
	})
}

func NewResultRecorded(result *models.Result) *QuizEvent {
	return newEvent(EventResultRecorded, ResultRecordedEvent{
		QuizID:     result.QuizID,
		QuizTitle:  result.QuizTitle,
		PlayerID:   result.PlayerID,
		Awarded:    result.Awarded,
		Maximum:    result.Maximum,
		Percentage: result.Percentage,
	})
}

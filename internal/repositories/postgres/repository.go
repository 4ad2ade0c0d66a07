package postgres

import (
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	quiz   repositories.QuizRepository
	result repositories.ResultRepository
}

// NewRepository builds the repository facade over one gorm handle. Worker
// jobs construct their own facade over their own handle; nothing is shared
// across jobs.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		quiz:   NewQuizPostgreSQL(db),
		result: NewResultPostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository {
	return r.quiz
}

func (r *repository) Result() repositories.ResultRepository {
	return r.result
}

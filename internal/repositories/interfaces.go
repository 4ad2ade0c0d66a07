package repositories

import (
	"context"
	"errors"

	"github.com/quiz-platform/quiz-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	Status   *models.QuizStatus `json:"status"`
	AuthorID *string            `json:"author_id"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

type ResultFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// QuizRepository covers quiz persistence. Listing is always sorted by
// creation time descending.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, error)
	UpdateStatus(ctx context.Context, id uint, status models.QuizStatus, rejectionReason *string) error
	Delete(ctx context.Context, id uint) error
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// ResultRepository covers scored result persistence. Results are insert-only;
// there is deliberately no update operation. GetByQuiz returns the ranked
// order used by the leaderboard: points descending, elapsed time ascending,
// ties in stable insertion order.
type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetByQuiz(ctx context.Context, quizID uint, filters ResultFilters) ([]*models.Result, error)
	GetByPlayer(ctx context.Context, playerID string, filters ResultFilters) ([]*models.Result, error)
	CountByQuiz(ctx context.Context, quizID uint) (int64, error)
}

// Repository is the facade handed to services; one per open database handle.
type Repository interface {
	Quiz() QuizRepository
	Result() ResultRepository
}

// ===== ERROR HELPERS =====

var ErrRecordNotFound = gorm.ErrRecordNotFound

func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

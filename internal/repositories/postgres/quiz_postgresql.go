package postgres

import (
	"context"
	"fmt"

	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

// Create inserts a new quiz; new quizzes always enter the lifecycle as PENDING.
func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	quiz.Status = models.StatusPending
	quiz.RejectionReason = nil
	if err := q.db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// List returns quizzes sorted by creation time descending, optionally
// filtered by status and author.
func (q *QuizPostgreSQL) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	query := q.db.WithContext(ctx).Model(&models.Quiz{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AuthorID != nil {
		query = query.Where("author_id = ?", *filters.AuthorID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var quizzes []*models.Quiz
	if err := query.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// UpdateStatus moves a quiz through its approval lifecycle. The rejection
// reason is stored only for REJECTED and cleared otherwise.
func (q *QuizPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.QuizStatus, rejectionReason *string) error {
	updates := map[string]interface{}{
		"status":           status,
		"rejection_reason": nil,
	}
	if status == models.StatusRejected {
		updates["rejection_reason"] = rejectionReason
	}

	result := q.db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update quiz status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete quiz: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuizPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := q.db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check quiz existence: %w", err)
	}
	return count > 0, nil
}

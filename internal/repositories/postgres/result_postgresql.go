package postgres

import (
	"context"
	"fmt"

	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

// Create inserts one immutable result row. There is no Update counterpart:
// a result either commits whole or not at all.
func (r *ResultPostgreSQL) Create(ctx context.Context, result *models.Result) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

// GetByQuiz returns results in leaderboard order: awarded points descending,
// elapsed time ascending, id ascending so equal (points, time) pairs keep
// their insertion order.
func (r *ResultPostgreSQL) GetByQuiz(ctx context.Context, quizID uint, filters repositories.ResultFilters) ([]*models.Result, error) {
	query := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("awarded DESC, elapsed_seconds ASC, id ASC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var results []*models.Result
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get results by quiz: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) GetByPlayer(ctx context.Context, playerID string, filters repositories.ResultFilters) ([]*models.Result, error) {
	query := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at DESC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var results []*models.Result
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get results by player: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Result{}).Where("quiz_id = ?", quizID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}

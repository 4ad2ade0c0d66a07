package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quiz-platform/quiz-service/internal/cache"
	"github.com/quiz-platform/quiz-service/internal/events"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"github.com/quiz-platform/quiz-service/internal/utils"
	"gorm.io/datatypes"
)

// ===== REQUEST TYPES =====

type CreateQuizRequest struct {
	Title           string            `json:"title" validate:"required,min=1,max=200"`
	DurationSeconds int               `json:"duration_seconds" validate:"required,min=10"`
	Questions       []models.Question `json:"questions" validate:"required,min=1,dive"`
}

type RejectQuizRequest struct {
	Reason string `json:"reason"`
}

type ListQuizzesRequest struct {
	Status *models.QuizStatus
	Limit  int
	Offset int
}

// ===== SERVICE INTERFACE =====

// QuizService owns the quiz approval lifecycle and read paths. Visibility is
// role based: players only ever see approved quizzes, moderators see their
// own quizzes in any status, administrators see everything.
type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest, author models.UserIdentity) (*models.Quiz, error)
	GetByID(ctx context.Context, id uint, user models.UserIdentity) (*models.Quiz, error)
	List(ctx context.Context, req *ListQuizzesRequest, user models.UserIdentity) ([]*models.Quiz, error)
	Approve(ctx context.Context, id uint, moderator models.UserIdentity) (*models.Quiz, error)
	Reject(ctx context.Context, id uint, req *RejectQuizRequest, moderator models.UserIdentity) (*models.Quiz, error)
	Delete(ctx context.Context, id uint, user models.UserIdentity) error
	Leaderboard(ctx context.Context, id uint, filters repositories.ResultFilters) ([]*models.Result, error)
	PlayerResults(ctx context.Context, player models.UserIdentity, filters repositories.ResultFilters) ([]*models.Result, error)
}

type quizService struct {
	repo      repositories.Repository
	cache     *cache.QuizCache
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewQuizService(repo repositories.Repository, quizCache *cache.QuizCache, publisher events.EventPublisher, logger *slog.Logger, validator *utils.Validator) QuizService {
	return &quizService{
		repo:      repo,
		cache:     quizCache,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE QUIZ OPERATIONS =====

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, author models.UserIdentity) (*models.Quiz, error) {
	s.logger.Info("Creating quiz", "title", req.Title, "author_id", author.ID)

	if !author.IsModerator() && !author.IsAdmin() {
		return nil, NewPermissionError(author.ID, 0, "create", "only moderators may author quizzes")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if err := s.validator.ValidateQuestions(req.Questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	quiz := &models.Quiz{
		Title:           req.Title,
		Questions:       datatypes.NewJSONType(req.Questions),
		DurationSeconds: req.DurationSeconds,
		Status:          models.StatusPending,
		AuthorID:        author.ID,
		AuthorEmail:     author.Email,
	}

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.publish(ctx, events.NewQuizCreated(quiz))

	s.logger.Info("Quiz created", "quiz_id", quiz.ID, "author_id", author.ID)
	return quiz, nil
}

func (s *quizService) GetByID(ctx context.Context, id uint, user models.UserIdentity) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if !s.canSee(quiz, user) {
		// Hidden quizzes are indistinguishable from missing ones.
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (s *quizService) List(ctx context.Context, req *ListQuizzesRequest, user models.UserIdentity) ([]*models.Quiz, error) {
	filters := repositories.QuizFilters{
		Status: req.Status,
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	switch {
	case user.IsAdmin():
		// Administrators list everything, optionally filtered by status.
	case user.IsModerator():
		filters.AuthorID = &user.ID
	default:
		approved := models.StatusApproved
		filters.Status = &approved
	}

	quizzes, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *quizService) Approve(ctx context.Context, id uint, moderator models.UserIdentity) (*models.Quiz, error) {
	s.logger.Info("Approving quiz", "quiz_id", id, "admin_id", moderator.ID)

	if !moderator.IsAdmin() {
		return nil, NewPermissionError(moderator.ID, id, "approve", "administrator role required")
	}

	quiz, err := s.transition(ctx, id, models.StatusApproved, nil)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewQuizApproved(quiz))
	return quiz, nil
}

func (s *quizService) Reject(ctx context.Context, id uint, req *RejectQuizRequest, moderator models.UserIdentity) (*models.Quiz, error) {
	s.logger.Info("Rejecting quiz", "quiz_id", id, "admin_id", moderator.ID)

	if !moderator.IsAdmin() {
		return nil, NewPermissionError(moderator.ID, id, "reject", "administrator role required")
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}

	quiz, err := s.transition(ctx, id, models.StatusRejected, &reason)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewQuizRejected(quiz, reason))
	return quiz, nil
}

func (s *quizService) Delete(ctx context.Context, id uint, user models.UserIdentity) error {
	s.logger.Info("Deleting quiz", "quiz_id", id, "user_id", user.ID)

	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}

	if !user.IsAdmin() && quiz.AuthorID != user.ID {
		return NewPermissionError(user.ID, id, "delete", "not the quiz author")
	}

	if err := s.repo.Quiz().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	s.cache.Invalidate(ctx, id)
	return nil
}

// ===== RESULT READ PATHS =====

// Leaderboard returns the quiz's results in ranked order with 1-based rank
// numbers filled in. Ranking is computed at read time; result rows themselves
// never change.
func (s *quizService) Leaderboard(ctx context.Context, id uint, filters repositories.ResultFilters) ([]*models.Result, error) {
	exists, err := s.repo.Quiz().ExistsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return nil, ErrQuizNotFound
	}

	results, err := s.repo.Result().GetByQuiz(ctx, id, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	for i, result := range results {
		result.Rank = filters.Offset + i + 1
	}
	return results, nil
}

func (s *quizService) PlayerResults(ctx context.Context, player models.UserIdentity, filters repositories.ResultFilters) ([]*models.Result, error) {
	results, err := s.repo.Result().GetByPlayer(ctx, player.ID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get player results: %w", err)
	}
	return results, nil
}

// ===== HELPERS =====

func (s *quizService) canSee(quiz *models.Quiz, user models.UserIdentity) bool {
	if user.IsAdmin() {
		return true
	}
	if user.IsModerator() && quiz.AuthorID == user.ID {
		return true
	}
	return quiz.Status == models.StatusApproved
}

// transition moves the quiz into status and returns its fresh state.
func (s *quizService) transition(ctx context.Context, id uint, status models.QuizStatus, reason *string) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if quiz.Status != models.StatusPending {
		return nil, ErrQuizNotReviewable
	}

	if err := s.repo.Quiz().UpdateStatus(ctx, id, status, reason); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to update quiz status: %w", err)
	}

	s.cache.Invalidate(ctx, id)

	quiz.Status = status
	quiz.RejectionReason = reason
	return quiz, nil
}

func (s *quizService) publish(ctx context.Context, event *events.QuizEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish quiz event", "event_type", event.Type, "error", err)
	}
}

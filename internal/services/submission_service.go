package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quiz-platform/quiz-service/internal/cache"
	"github.com/quiz-platform/quiz-service/internal/dispatcher"
	"github.com/quiz-platform/quiz-service/internal/events"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"github.com/quiz-platform/quiz-service/internal/scoring"
	"github.com/quiz-platform/quiz-service/internal/utils"
	"gorm.io/datatypes"
)

// ===== REQUEST TYPES =====

// SubmitQuizRequest carries one quiz attempt. An empty answer list is a
// legal submission: every question counts as unanswered and scores zero.
type SubmitQuizRequest struct {
	Answers        []models.SubmittedAnswer `json:"answers" validate:"dive"`
	ElapsedSeconds int                      `json:"elapsed_seconds" validate:"min=0"`
}

// ===== SERVICE INTERFACE =====

// SubmissionService accepts quiz submissions and hands them to the worker
// pool. Submit never waits for a score: the only synchronous failure modes
// are validation and a missing quiz. Everything after enqueue is the job's
// problem and surfaces in logs, the results table and player mail.
type SubmissionService interface {
	Submit(ctx context.Context, quizID uint, player models.UserIdentity, req *SubmitQuizRequest) error
}

type submissionService struct {
	repo      repositories.Repository
	cache     *cache.QuizCache
	pool      *dispatcher.Dispatcher
	scopes    ScopeFactory
	logger    *slog.Logger
	validator *utils.Validator
}

func NewSubmissionService(repo repositories.Repository, quizCache *cache.QuizCache, pool *dispatcher.Dispatcher, scopes ScopeFactory, logger *slog.Logger, validator *utils.Validator) SubmissionService {
	return &submissionService{
		repo:      repo,
		cache:     quizCache,
		pool:      pool,
		scopes:    scopes,
		logger:    logger,
		validator: validator,
	}
}

func (s *submissionService) Submit(ctx context.Context, quizID uint, player models.UserIdentity, req *SubmitQuizRequest) error {
	s.logger.Info("Accepting submission", "quiz_id", quizID, "player_id", player.ID)

	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// Cheap synchronous gate: reject submissions against quizzes that do not
	// exist or are not approved before burning a worker slot.
	quiz, err := s.cache.GetQuiz(ctx, quizID, func(ctx context.Context) (*models.Quiz, error) {
		return s.repo.Quiz().GetByID(ctx, quizID)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.Status != models.StatusApproved {
		return ErrQuizNotFound
	}

	answers := req.Answers
	elapsed := req.ElapsedSeconds
	s.pool.Submit(fmt.Sprintf("submission:quiz:%d", quizID), func(jobCtx context.Context) {
		s.process(jobCtx, quizID, player, answers, elapsed)
	})
	return nil
}

// process runs on a worker goroutine. It opens its own scope so the database
// handle, mailer and publisher it uses belong to this job alone.
func (s *submissionService) process(ctx context.Context, quizID uint, player models.UserIdentity, answers []models.SubmittedAnswer, elapsedSeconds int) {
	scope, err := s.scopes(ctx)
	if err != nil {
		s.logger.Error("Submission job could not open scope", "quiz_id", quizID, "player_id", player.ID, "error", err)
		return
	}
	defer func() {
		if err := scope.Close(); err != nil {
			s.logger.Warn("Submission job scope close failed", "quiz_id", quizID, "error", err)
		}
	}()

	// Re-fetch inside the job; the quiz may have been deleted since enqueue.
	quiz, err := scope.Repo().Quiz().GetByID(ctx, quizID)
	if err != nil {
		s.logger.Error("Submission job quiz fetch failed", "quiz_id", quizID, "player_id", player.ID, "error", err)
		return
	}

	summary := scoring.Score(quiz.Questions.Data(), answers)

	result := &models.Result{
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		PlayerID:       player.ID,
		PlayerEmail:    player.Email,
		Answers:        datatypes.NewJSONType(answers),
		Awarded:        summary.Awarded,
		Maximum:        summary.Maximum,
		Percentage:     summary.Percentage,
		CorrectCount:   summary.CorrectCount,
		ElapsedSeconds: elapsedSeconds,
	}

	if err := scope.Repo().Result().Create(ctx, result); err != nil {
		s.logger.Error("Submission job result insert failed", "quiz_id", quizID, "player_id", player.ID, "error", err)
		return
	}

	s.logger.Info("Submission scored",
		"quiz_id", quizID,
		"player_id", player.ID,
		"awarded", summary.Awarded,
		"maximum", summary.Maximum)

	if publisher := scope.Publisher(); publisher != nil {
		if err := publisher.PublishQuizEvent(ctx, events.NewResultRecorded(result)); err != nil {
			s.logger.Error("Submission job event publish failed", "quiz_id", quizID, "error", err)
		}
	}

	if err := scope.Mailer().SendResult(player.Email, quiz.Title, summary, elapsedSeconds); err != nil {
		s.logger.Error("Submission job result mail failed", "quiz_id", quizID, "player_id", player.ID, "error", err)
	}
}

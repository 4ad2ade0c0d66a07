package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quiz-platform/quiz-service/internal/dispatcher"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/report"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"github.com/quiz-platform/quiz-service/internal/utils"
)

// ===== REQUEST TYPES =====

type ReportRequest struct {
	Format string `json:"format" validate:"omitempty,oneof=pdf xlsx"`
}

// ===== SERVICE INTERFACE =====

// ReportService generates quiz result reports in the background and mails
// them to the requesting administrator. RequestReport acknowledges as soon as
// the job is queued; rendering and mailing happen on a worker.
type ReportService interface {
	RequestReport(ctx context.Context, quizID uint, admin models.UserIdentity, req *ReportRequest) error
}

type reportService struct {
	repo      repositories.Repository
	pool      *dispatcher.Dispatcher
	scopes    ScopeFactory
	logger    *slog.Logger
	validator *utils.Validator
}

func NewReportService(repo repositories.Repository, pool *dispatcher.Dispatcher, scopes ScopeFactory, logger *slog.Logger, validator *utils.Validator) ReportService {
	return &reportService{
		repo:      repo,
		pool:      pool,
		scopes:    scopes,
		logger:    logger,
		validator: validator,
	}
}

func (s *reportService) RequestReport(ctx context.Context, quizID uint, admin models.UserIdentity, req *ReportRequest) error {
	s.logger.Info("Report requested", "quiz_id", quizID, "admin_id", admin.ID, "format", req.Format)

	if !admin.IsAdmin() {
		return NewPermissionError(admin.ID, quizID, "report", "administrator role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	format := report.Format(req.Format)
	if format == "" {
		format = report.FormatPDF
	}

	exists, err := s.repo.Quiz().ExistsByID(ctx, quizID)
	if err != nil {
		return fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return ErrQuizNotFound
	}

	s.pool.Submit(fmt.Sprintf("report:quiz:%d", quizID), func(jobCtx context.Context) {
		s.generate(jobCtx, quizID, admin.Email, format)
	})
	return nil
}

// generate runs on a worker goroutine with its own scope.
func (s *reportService) generate(ctx context.Context, quizID uint, recipient string, format report.Format) {
	scope, err := s.scopes(ctx)
	if err != nil {
		s.logger.Error("Report job could not open scope", "quiz_id", quizID, "error", err)
		return
	}
	defer func() {
		if err := scope.Close(); err != nil {
			s.logger.Warn("Report job scope close failed", "quiz_id", quizID, "error", err)
		}
	}()

	quiz, err := scope.Repo().Quiz().GetByID(ctx, quizID)
	if err != nil {
		s.logger.Error("Report job quiz fetch failed", "quiz_id", quizID, "error", err)
		return
	}

	results, err := scope.Repo().Result().GetByQuiz(ctx, quizID, repositories.ResultFilters{})
	if err != nil {
		s.logger.Error("Report job results fetch failed", "quiz_id", quizID, "error", err)
		return
	}

	document, err := report.Render(format, quiz, results)
	if err != nil {
		s.logger.Error("Report job render failed", "quiz_id", quizID, "format", format, "error", err)
		return
	}

	filename := report.Filename(format, quizID)
	if err := scope.Mailer().SendReport(recipient, quiz.Title, filename, report.ContentType(format), document); err != nil {
		s.logger.Error("Report job mail failed", "quiz_id", quizID, "recipient", recipient, "error", err)
		return
	}

	s.logger.Info("Report delivered", "quiz_id", quizID, "format", format, "results", len(results))
}

package services

import (
	"log/slog"

	"github.com/quiz-platform/quiz-service/internal/cache"
	"github.com/quiz-platform/quiz-service/internal/dispatcher"
	"github.com/quiz-platform/quiz-service/internal/events"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"github.com/quiz-platform/quiz-service/internal/utils"
)

// ServiceManager is the single wiring point handed to the HTTP layer.
type ServiceManager interface {
	Quiz() QuizService
	Submission() SubmissionService
	Report() ReportService
	Pool() *dispatcher.Dispatcher
}

type serviceManager struct {
	quiz       QuizService
	submission SubmissionService
	report     ReportService
	pool       *dispatcher.Dispatcher
}

type ManagerConfig struct {
	Repo      repositories.Repository
	Cache     *cache.QuizCache
	Publisher events.EventPublisher
	Pool      *dispatcher.Dispatcher
	Scopes    ScopeFactory
	Logger    *slog.Logger
	Validator *utils.Validator
}

func NewServiceManager(cfg ManagerConfig) ServiceManager {
	return &serviceManager{
		quiz:       NewQuizService(cfg.Repo, cfg.Cache, cfg.Publisher, cfg.Logger, cfg.Validator),
		submission: NewSubmissionService(cfg.Repo, cfg.Cache, cfg.Pool, cfg.Scopes, cfg.Logger, cfg.Validator),
		report:     NewReportService(cfg.Repo, cfg.Pool, cfg.Scopes, cfg.Logger, cfg.Validator),
		pool:       cfg.Pool,
	}
}

func (m *serviceManager) Quiz() QuizService             { return m.quiz }
func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) Report() ReportService         { return m.report }
func (m *serviceManager) Pool() *dispatcher.Dispatcher  { return m.pool }

package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"github.com/quiz-platform/quiz-service/internal/scoring"
	"github.com/stretchr/testify/mock"
)

// MockQuizRepository is a mock implementation of repositories.QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) UpdateStatus(ctx context.Context, id uint, status models.QuizStatus, rejectionReason *string) error {
	args := m.Called(ctx, id, status, rejectionReason)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockResultRepository is a mock implementation of repositories.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, result *models.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByQuiz(ctx context.Context, quizID uint, filters repositories.ResultFilters) ([]*models.Result, error) {
	args := m.Called(ctx, quizID, filters)
	return args.Get(0).([]*models.Result), args.Error(1)
}

func (m *MockResultRepository) GetByPlayer(ctx context.Context, playerID string, filters repositories.ResultFilters) ([]*models.Result, error) {
	args := m.Called(ctx, playerID, filters)
	return args.Get(0).([]*models.Result), args.Error(1)
}

func (m *MockResultRepository) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(int64), args.Error(1)
}

// mockRepository bundles the two mocks behind the Repository facade.
type mockRepository struct {
	quiz   *MockQuizRepository
	result *MockResultRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quiz:   new(MockQuizRepository),
		result: new(MockResultRepository),
	}
}

func (r *mockRepository) Quiz() repositories.QuizRepository     { return r.quiz }
func (r *mockRepository) Result() repositories.ResultRepository { return r.result }

// MockMailer is a mock implementation of mailer.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendResult(to, quizTitle string, summary scoring.Summary, elapsedSeconds int) error {
	args := m.Called(to, quizTitle, summary, elapsedSeconds)
	return args.Error(0)
}

func (m *MockMailer) SendReport(to, quizTitle, filename, contentType string, attachment []byte) error {
	args := m.Called(to, quizTitle, filename, contentType, attachment)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

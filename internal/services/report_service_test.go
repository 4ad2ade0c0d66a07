package services

import (
	"context"
	"testing"

	"github.com/quiz-platform/quiz-service/internal/dispatcher"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"github.com/quiz-platform/quiz-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type reportFixture struct {
	svc       ReportService
	frontRepo *mockRepository
	jobRepo   *mockRepository
	mailer    *MockMailer
	pool      *dispatcher.Dispatcher
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	f := &reportFixture{
		frontRepo: newMockRepository(),
		jobRepo:   newMockRepository(),
		mailer:    new(MockMailer),
		pool:      dispatcher.New(testLogger()),
	}
	f.pool.Initialize(1)

	scopes := func(ctx context.Context) (*JobScope, error) {
		return NewJobScope(f.jobRepo, f.mailer, nil), nil
	}
	f.svc = NewReportService(f.frontRepo, f.pool, scopes, testLogger(), utils.NewValidator())
	return f
}

func (f *reportFixture) drain(t *testing.T) {
	t.Helper()
	assert.NoError(t, f.pool.Shutdown(context.Background()))
}

func TestReportService_RequestReport(t *testing.T) {
	t.Run("non-admin is refused", func(t *testing.T) {
		f := newReportFixture(t)

		err := f.svc.RequestReport(context.Background(), 1, testModerator, &ReportRequest{})
		assert.True(t, IsForbidden(err))
		f.frontRepo.quiz.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything)
	})

	t.Run("missing quiz is rejected before any job is queued", func(t *testing.T) {
		f := newReportFixture(t)

		f.frontRepo.quiz.On("ExistsByID", mock.Anything, uint(9)).Return(false, nil)

		err := f.svc.RequestReport(context.Background(), 9, testAdmin, &ReportRequest{})
		assert.ErrorIs(t, err, ErrQuizNotFound)

		f.drain(t)
		f.jobRepo.quiz.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown format fails validation", func(t *testing.T) {
		f := newReportFixture(t)

		err := f.svc.RequestReport(context.Background(), 1, testAdmin, &ReportRequest{Format: "csv"})
		assert.True(t, IsValidation(err))
	})

	t.Run("pdf report is rendered and mailed", func(t *testing.T) {
		f := newReportFixture(t)

		quiz := sampleQuiz(1, models.StatusApproved, testModerator.ID)
		f.frontRepo.quiz.On("ExistsByID", mock.Anything, uint(1)).Return(true, nil)
		f.jobRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
		f.jobRepo.result.On("GetByQuiz", mock.Anything, uint(1), repositories.ResultFilters{}).Return([]*models.Result{
			{ID: 1, PlayerEmail: "player@example.com", Awarded: 15, Maximum: 15, ElapsedSeconds: 80},
			{ID: 2, PlayerEmail: "other@example.com", Awarded: 5, Maximum: 15, ElapsedSeconds: 60},
		}, nil)

		var attached []byte
		f.mailer.On("SendReport", testAdmin.Email, quiz.Title, "quiz_report_1.pdf", "application/pdf", mock.Anything).
			Run(func(args mock.Arguments) {
				attached = args.Get(4).([]byte)
			}).
			Return(nil).Once()

		err := f.svc.RequestReport(context.Background(), 1, testAdmin, &ReportRequest{})
		assert.NoError(t, err)

		f.drain(t)

		f.mailer.AssertExpectations(t)
		if assert.NotEmpty(t, attached) {
			assert.Equal(t, "%PDF", string(attached[:4]))
		}
	})

	t.Run("xlsx format renders a workbook", func(t *testing.T) {
		f := newReportFixture(t)

		quiz := sampleQuiz(2, models.StatusApproved, testModerator.ID)
		f.frontRepo.quiz.On("ExistsByID", mock.Anything, uint(2)).Return(true, nil)
		f.jobRepo.quiz.On("GetByID", mock.Anything, uint(2)).Return(quiz, nil)
		f.jobRepo.result.On("GetByQuiz", mock.Anything, uint(2), repositories.ResultFilters{}).Return([]*models.Result{}, nil)

		var attached []byte
		f.mailer.On("SendReport", testAdmin.Email, quiz.Title, "quiz_report_2.xlsx", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				attached = args.Get(4).([]byte)
			}).
			Return(nil).Once()

		err := f.svc.RequestReport(context.Background(), 2, testAdmin, &ReportRequest{Format: "xlsx"})
		assert.NoError(t, err)

		f.drain(t)

		f.mailer.AssertExpectations(t)
		if assert.NotEmpty(t, attached) {
			// XLSX files are zip archives.
			assert.Equal(t, "PK", string(attached[:2]))
		}
	})
}

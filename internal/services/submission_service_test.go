package services

import (
	"context"
	"errors"
	"testing"

	"github.com/quiz-platform/quiz-service/internal/dispatcher"
	"github.com/quiz-platform/quiz-service/internal/events"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/scoring"
	"github.com/quiz-platform/quiz-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

type submissionFixture struct {
	svc       SubmissionService
	frontRepo *mockRepository
	jobRepo   *mockRepository
	mailer    *MockMailer
	publisher *events.MockEventPublisher
	pool      *dispatcher.Dispatcher
}

// newSubmissionFixture wires a submission service against a real two-worker
// pool. frontRepo serves the synchronous path, jobRepo is what worker scopes
// open. Tests call drain() to wait for enqueued jobs.
func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	f := &submissionFixture{
		frontRepo: newMockRepository(),
		jobRepo:   newMockRepository(),
		mailer:    new(MockMailer),
		publisher: events.NewMockEventPublisher(testLogger()),
		pool:      dispatcher.New(testLogger()),
	}
	f.pool.Initialize(2)

	scopes := func(ctx context.Context) (*JobScope, error) {
		return NewJobScope(f.jobRepo, f.mailer, f.publisher), nil
	}
	f.svc = NewSubmissionService(f.frontRepo, nil, f.pool, scopes, testLogger(), utils.NewValidator())
	return f
}

func (f *submissionFixture) drain(t *testing.T) {
	t.Helper()
	assert.NoError(t, f.pool.Shutdown(context.Background()))
}

func TestSubmissionService_Submit(t *testing.T) {
	t.Run("missing quiz is rejected synchronously and no job runs", func(t *testing.T) {
		f := newSubmissionFixture(t)

		f.frontRepo.quiz.On("GetByID", mock.Anything, uint(9)).Return((*models.Quiz)(nil), gorm.ErrRecordNotFound)

		err := f.svc.Submit(context.Background(), 9, testPlayer, &SubmitQuizRequest{
			Answers:        []models.SubmittedAnswer{{QuestionID: 1, OptionID: intPtr(1)}},
			ElapsedSeconds: 30,
		})
		assert.ErrorIs(t, err, ErrQuizNotFound)

		f.drain(t)
		f.jobRepo.result.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unapproved quiz is indistinguishable from a missing one", func(t *testing.T) {
		f := newSubmissionFixture(t)

		f.frontRepo.quiz.On("GetByID", mock.Anything, uint(9)).Return(sampleQuiz(9, models.StatusPending, testModerator.ID), nil)

		err := f.svc.Submit(context.Background(), 9, testPlayer, &SubmitQuizRequest{
			Answers:        []models.SubmittedAnswer{{QuestionID: 1, OptionID: intPtr(1)}},
			ElapsedSeconds: 30,
		})
		assert.ErrorIs(t, err, ErrQuizNotFound)
	})

	t.Run("accepted submission is scored and recorded exactly once", func(t *testing.T) {
		f := newSubmissionFixture(t)

		quiz := sampleQuiz(1, models.StatusApproved, testModerator.ID)
		f.frontRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
		f.jobRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)

		var recorded *models.Result
		f.jobRepo.result.On("Create", mock.Anything, mock.AnythingOfType("*models.Result")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(*models.Result)
			}).
			Return(nil).Once()
		f.mailer.On("SendResult", testPlayer.Email, quiz.Title, mock.Anything, 95).Return(nil).Once()

		// First question right, second wrong (partial selection scores zero).
		err := f.svc.Submit(context.Background(), 1, testPlayer, &SubmitQuizRequest{
			Answers: []models.SubmittedAnswer{
				{QuestionID: 1, OptionID: intPtr(1)},
				{QuestionID: 2, OptionIDs: []int{1}},
			},
			ElapsedSeconds: 95,
		})
		assert.NoError(t, err)

		f.drain(t)

		if assert.NotNil(t, recorded) {
			assert.Equal(t, uint(1), recorded.QuizID)
			assert.Equal(t, quiz.Title, recorded.QuizTitle)
			assert.Equal(t, testPlayer.ID, recorded.PlayerID)
			assert.Equal(t, 5, recorded.Awarded)
			assert.Equal(t, 15, recorded.Maximum)
			assert.Equal(t, 33.3, recorded.Percentage)
			assert.Equal(t, 1, recorded.CorrectCount)
			assert.Equal(t, 95, recorded.ElapsedSeconds)
		}

		published := f.publisher.GetPublishedEvents()
		if assert.Len(t, published, 1) {
			assert.Equal(t, events.EventResultRecorded, published[0].Type)
		}
		f.mailer.AssertExpectations(t)
		f.jobRepo.result.AssertExpectations(t)
	})

	t.Run("empty answer list scores zero instead of failing validation", func(t *testing.T) {
		f := newSubmissionFixture(t)

		quiz := sampleQuiz(1, models.StatusApproved, testModerator.ID)
		f.frontRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
		f.jobRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)

		var recorded *models.Result
		f.jobRepo.result.On("Create", mock.Anything, mock.AnythingOfType("*models.Result")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(*models.Result)
			}).
			Return(nil).Once()
		f.mailer.On("SendResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		err := f.svc.Submit(context.Background(), 1, testPlayer, &SubmitQuizRequest{
			Answers:        nil,
			ElapsedSeconds: 12,
		})
		assert.NoError(t, err)

		f.drain(t)

		if assert.NotNil(t, recorded) {
			assert.Equal(t, 0, recorded.Awarded)
			assert.Equal(t, 15, recorded.Maximum)
			assert.Equal(t, 0.0, recorded.Percentage)
			assert.Equal(t, 0, recorded.CorrectCount)
		}
	})

	t.Run("mail failure does not undo the recorded result", func(t *testing.T) {
		f := newSubmissionFixture(t)

		quiz := sampleQuiz(1, models.StatusApproved, testModerator.ID)
		f.frontRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
		f.jobRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
		f.jobRepo.result.On("Create", mock.Anything, mock.AnythingOfType("*models.Result")).Return(nil).Once()
		f.mailer.On("SendResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		err := f.svc.Submit(context.Background(), 1, testPlayer, &SubmitQuizRequest{
			Answers:        []models.SubmittedAnswer{{QuestionID: 1, OptionID: intPtr(1)}},
			ElapsedSeconds: 10,
		})
		assert.NoError(t, err)

		f.drain(t)
		f.jobRepo.result.AssertExpectations(t)
	})

	t.Run("quiz deleted between enqueue and job aborts quietly", func(t *testing.T) {
		f := newSubmissionFixture(t)

		quiz := sampleQuiz(1, models.StatusApproved, testModerator.ID)
		f.frontRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
		f.jobRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return((*models.Quiz)(nil), gorm.ErrRecordNotFound)

		err := f.svc.Submit(context.Background(), 1, testPlayer, &SubmitQuizRequest{
			Answers:        []models.SubmittedAnswer{{QuestionID: 1, OptionID: intPtr(1)}},
			ElapsedSeconds: 10,
		})
		assert.NoError(t, err)

		f.drain(t)
		f.jobRepo.result.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "SendResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("back-to-back submissions each record one result", func(t *testing.T) {
		f := newSubmissionFixture(t)

		quiz := sampleQuiz(1, models.StatusApproved, testModerator.ID)
		f.frontRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
		f.jobRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
		f.jobRepo.result.On("Create", mock.Anything, mock.AnythingOfType("*models.Result")).Return(nil).Twice()
		f.mailer.On("SendResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

		req := &SubmitQuizRequest{
			Answers:        []models.SubmittedAnswer{{QuestionID: 1, OptionID: intPtr(1)}},
			ElapsedSeconds: 20,
		}
		assert.NoError(t, f.svc.Submit(context.Background(), 1, testPlayer, req))
		assert.NoError(t, f.svc.Submit(context.Background(), 1, testPlayer, req))

		f.drain(t)
		f.jobRepo.result.AssertExpectations(t)
		f.mailer.AssertExpectations(t)
	})
}

// The scoring engine inside the worker must honor the same set semantics the
// scoring package promises; spot-check through the service path.
func TestSubmissionService_ScoringSemantics(t *testing.T) {
	f := newSubmissionFixture(t)

	quiz := sampleQuiz(1, models.StatusApproved, testModerator.ID)
	f.frontRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)
	f.jobRepo.quiz.On("GetByID", mock.Anything, uint(1)).Return(quiz, nil)

	var recorded *models.Result
	f.jobRepo.result.On("Create", mock.Anything, mock.AnythingOfType("*models.Result")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*models.Result)
		}).
		Return(nil)

	var sentSummary scoring.Summary
	f.mailer.On("SendResult", mock.Anything, mock.Anything, mock.AnythingOfType("scoring.Summary"), mock.Anything).
		Run(func(args mock.Arguments) {
			sentSummary = args.Get(2).(scoring.Summary)
		}).
		Return(nil)

	// Both questions right; multi-select given out of order with a duplicate.
	err := f.svc.Submit(context.Background(), 1, testPlayer, &SubmitQuizRequest{
		Answers: []models.SubmittedAnswer{
			{QuestionID: 2, OptionIDs: []int{2, 1, 2}},
			{QuestionID: 1, OptionID: intPtr(1)},
		},
		ElapsedSeconds: 45,
	})
	assert.NoError(t, err)

	f.drain(t)

	if assert.NotNil(t, recorded) {
		assert.Equal(t, 15, recorded.Awarded)
		assert.Equal(t, 100.0, recorded.Percentage)
		assert.Equal(t, 2, recorded.CorrectCount)
	}
	assert.Equal(t, recorded.Awarded, sentSummary.Awarded)
}

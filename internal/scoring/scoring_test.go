package scoring

import (
	"testing"

	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func sampleQuestions() []models.Question {
	return []models.Question{
		{
			ID:     1,
			Text:   "Capital of France?",
			Points: 5,
			Options: []models.AnswerOption{
				{ID: 1, Text: "Paris", Correct: true},
				{ID: 2, Text: "Lyon"},
				{ID: 3, Text: "Nice"},
			},
		},
		{
			ID:     2,
			Text:   "Prime numbers below 5?",
			Points: 10,
			Options: []models.AnswerOption{
				{ID: 1, Text: "2", Correct: true},
				{ID: 2, Text: "3", Correct: true},
				{ID: 3, Text: "4"},
			},
		},
	}
}

func TestScore_PartialResult(t *testing.T) {
	// Q1 correct, Q2 wrong: 5 of 15 points, 33.3%.
	answers := []models.SubmittedAnswer{
		{QuestionID: 1, OptionID: intPtr(1)},
		{QuestionID: 2, OptionIDs: []int{1, 3}},
	}

	s := Score(sampleQuestions(), answers)

	assert.Equal(t, 5, s.Awarded)
	assert.Equal(t, 15, s.Maximum)
	assert.Equal(t, 33.3, s.Percentage)
	assert.Equal(t, 1, s.CorrectCount)
}

func TestScore_MultiSelectExactMatch(t *testing.T) {
	t.Run("exact set awards full points", func(t *testing.T) {
		answers := []models.SubmittedAnswer{
			{QuestionID: 2, OptionIDs: []int{2, 1}},
		}
		s := Score(sampleQuestions(), answers)
		assert.Equal(t, 10, s.Awarded)
	})

	t.Run("subset gets no partial credit", func(t *testing.T) {
		answers := []models.SubmittedAnswer{
			{QuestionID: 2, OptionIDs: []int{1}},
		}
		s := Score(sampleQuestions(), answers)
		assert.Equal(t, 0, s.Awarded)
	})

	t.Run("superset gets no credit", func(t *testing.T) {
		answers := []models.SubmittedAnswer{
			{QuestionID: 2, OptionIDs: []int{1, 2, 3}},
		}
		s := Score(sampleQuestions(), answers)
		assert.Equal(t, 0, s.Awarded)
	})
}

func TestScore_OrderAndDuplicateInvariance(t *testing.T) {
	base := []models.SubmittedAnswer{
		{QuestionID: 1, OptionID: intPtr(1)},
		{QuestionID: 2, OptionIDs: []int{1, 2}},
	}
	reordered := []models.SubmittedAnswer{
		{QuestionID: 2, OptionIDs: []int{2, 1, 2, 1}},
		{QuestionID: 1, OptionIDs: []int{1, 1}},
	}

	assert.Equal(t, Score(sampleQuestions(), base), Score(sampleQuestions(), reordered))
}

func TestScore_UnansweredQuestionsContributeZero(t *testing.T) {
	s := Score(sampleQuestions(), nil)

	assert.Equal(t, 0, s.Awarded)
	assert.Equal(t, 15, s.Maximum)
	assert.Equal(t, 0.0, s.Percentage)
	assert.Equal(t, 0, s.CorrectCount)
}

func TestScore_AwardedNeverExceedsMaximum(t *testing.T) {
	answers := []models.SubmittedAnswer{
		{QuestionID: 1, OptionID: intPtr(1)},
		{QuestionID: 2, OptionIDs: []int{1, 2}},
		// Answer for a question the quiz does not have.
		{QuestionID: 99, OptionID: intPtr(1)},
	}
	s := Score(sampleQuestions(), answers)

	assert.Equal(t, 15, s.Awarded)
	assert.Equal(t, 15, s.Maximum)
	assert.Equal(t, 100.0, s.Percentage)
}

func TestPercentage_ZeroMaximum(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(5, 0))
}

func TestPercentage_Rounding(t *testing.T) {
	assert.Equal(t, 33.3, Percentage(5, 15))
	assert.Equal(t, 66.7, Percentage(10, 15))
	assert.Equal(t, 100.0, Percentage(15, 15))
}

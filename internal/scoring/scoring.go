// Package scoring computes quiz scores. It is pure: no I/O, no clock, no
// randomness, so the worker path and tests produce identical results for
// identical inputs.
package scoring

import (
	"math"

	"github.com/quiz-platform/quiz-service/internal/models"
)

// Summary is the outcome of scoring one submission against one quiz.
type Summary struct {
	Awarded      int     `json:"awarded"`
	Maximum      int     `json:"maximum"`
	Percentage   float64 `json:"percentage"`
	CorrectCount int     `json:"correct_count"`
}

// Score grades a submission. A question is awarded its full point value iff
// the set of chosen option ids exactly equals the set of ids flagged correct;
// there is no partial credit. Questions without a submitted answer contribute
// zero. Order and duplicates in the submitted ids are irrelevant.
func Score(questions []models.Question, answers []models.SubmittedAnswer) Summary {
	byQuestion := make(map[int]models.SubmittedAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	var s Summary
	for _, q := range questions {
		s.Maximum += q.Points

		answer, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		if sameIDSet(q.CorrectOptionIDs(), answer.NormalizedOptionIDs()) {
			s.Awarded += q.Points
			s.CorrectCount++
		}
	}

	s.Percentage = Percentage(s.Awarded, s.Maximum)
	return s
}

// Percentage returns 100*awarded/maximum rounded to one decimal, or 0.0 when
// maximum is zero.
func Percentage(awarded, maximum int) float64 {
	if maximum <= 0 {
		return 0.0
	}
	return math.Round(float64(awarded)/float64(maximum)*1000) / 10
}

func sameIDSet(a, b []int) bool {
	setA := make(map[int]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	setB := make(map[int]struct{}, len(b))
	for _, id := range b {
		setB[id] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if _, ok := setB[id]; !ok {
			return false
		}
	}
	return true
}

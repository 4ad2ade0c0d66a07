package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/quiz-platform/quiz-service/internal/models"
)

// Validator wraps the struct-tag validator plus the quiz content rules that
// tags alone cannot express.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Report json field names in validation errors instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate checks struct tags on any request DTO.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateQuestions enforces the quiz content rules: at least one question,
// unique question ids, every question worth positive points with at least two
// uniquely-identified options of which at least one is flagged correct.
func (v *Validator) ValidateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("quiz must contain at least one question")
	}

	seenQuestions := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, dup := seenQuestions[q.ID]; dup {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seenQuestions[q.ID] = struct{}{}

		if q.Points <= 0 {
			return fmt.Errorf("question %d must be worth positive points", q.ID)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d must have at least two options", q.ID)
		}

		seenOptions := make(map[int]struct{}, len(q.Options))
		hasCorrect := false
		for _, opt := range q.Options {
			if _, dup := seenOptions[opt.ID]; dup {
				return fmt.Errorf("question %d has duplicate option id %d", q.ID, opt.ID)
			}
			seenOptions[opt.ID] = struct{}{}
			if opt.Correct {
				hasCorrect = true
			}
		}
		if !hasCorrect {
			return fmt.Errorf("question %d must have at least one correct option", q.ID)
		}
	}
	return nil
}

package services

import (
	"context"
	"errors"

	"github.com/quiz-platform/quiz-service/internal/events"
	"github.com/quiz-platform/quiz-service/internal/mailer"
	"github.com/quiz-platform/quiz-service/internal/repositories"
)

// JobScope bundles the resources a background job is allowed to touch.
// Jobs never reuse the request-serving connections; each job opens its
// own scope and closes it when done.
type JobScope struct {
	repo      repositories.Repository
	mailer    mailer.Mailer
	publisher events.EventPublisher
	closers   []func() error
}

// ScopeFactory opens a fresh JobScope for a single background job.
type ScopeFactory func(ctx context.Context) (*JobScope, error)

func NewJobScope(repo repositories.Repository, m mailer.Mailer, publisher events.EventPublisher, closers ...func() error) *JobScope {
	return &JobScope{
		repo:      repo,
		mailer:    m,
		publisher: publisher,
		closers:   closers,
	}
}

func (s *JobScope) Repo() repositories.Repository {
	return s.repo
}

func (s *JobScope) Mailer() mailer.Mailer {
	return s.mailer
}

func (s *JobScope) Publisher() events.EventPublisher {
	return s.publisher
}

// Close releases everything the scope opened, in reverse order.
func (s *JobScope) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

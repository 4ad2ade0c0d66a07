// Package cache provides a read-through Redis cache for quiz payloads on the
// hot submission path. The cache is an optimization only: a nil *QuizCache is
// valid and every method degrades to the loader.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches a quiz from the backing store on cache miss.
type QuizLoader func(ctx context.Context) (*models.Quiz, error)

type QuizCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	sf     singleflight.Group
}

func NewQuizCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *QuizCache {
	return &QuizCache{client: client, ttl: ttl, logger: logger}
}

func quizKey(id uint) string {
	return fmt.Sprintf("quiz:%d", id)
}

// GetQuiz returns the cached quiz or falls back to the loader, collapsing
// concurrent misses for the same id into one backing-store read. Cache errors
// are logged and treated as misses; the loader's error is the only one that
// propagates.
func (c *QuizCache) GetQuiz(ctx context.Context, id uint, loader QuizLoader) (*models.Quiz, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	if quiz, ok := c.lookup(ctx, id); ok {
		return quiz, nil
	}

	v, err, _ := c.sf.Do(quizKey(id), func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if quiz, ok := c.lookup(ctx, id); ok {
			return quiz, nil
		}

		quiz, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(quiz)
		if err == nil {
			if err := c.client.Set(ctx, quizKey(id), payload, c.ttl).Err(); err != nil {
				c.logger.Warn("quiz cache set failed", "quiz_id", id, "error", err)
			}
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Quiz), nil
}

// Invalidate drops a quiz from the cache; called on status change and delete.
func (c *QuizCache) Invalidate(ctx context.Context, id uint) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, quizKey(id)).Err(); err != nil {
		c.logger.Warn("quiz cache invalidation failed", "quiz_id", id, "error", err)
	}
}

func (c *QuizCache) lookup(ctx context.Context, id uint) (*models.Quiz, bool) {
	payload, err := c.client.Get(ctx, quizKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("quiz cache lookup failed", "quiz_id", id, "error", err)
		}
		return nil, false
	}

	var quiz models.Quiz
	if err := json.Unmarshal(payload, &quiz); err != nil {
		c.logger.Warn("quiz cache payload corrupt", "quiz_id", id, "error", err)
		return nil, false
	}
	return &quiz, true
}

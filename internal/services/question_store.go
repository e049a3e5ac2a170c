package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/cache"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
)

// questionStore reads question definitions through the cache when one is configured.
// Cache failures only cost a database round trip.
type questionStore struct {
	repo   repositories.QuestionRepository
	cache  cache.CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func (s *questionStore) get(ctx context.Context, id string) (*models.Question, error) {
	key := cache.QuestionKey(id)

	var question models.Question
	if s.readCache(ctx, key, &question) {
		return &question, nil
	}

	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	s.writeCache(ctx, key, q)
	return q, nil
}

func (s *questionStore) byLesson(ctx context.Context, lessonID string) ([]models.Question, error) {
	key := cache.LessonQuestionsKey(lessonID)

	var questions []models.Question
	if s.readCache(ctx, key, &questions) {
		return questions, nil
	}

	questions, err := s.repo.GetByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, key, questions)
	return questions, nil
}

// invalidateLesson removes the lesson's question list and every question of it from the cache
func (s *questionStore) invalidateLesson(ctx context.Context, lessonID string) error {
	if s.cache == nil {
		return nil
	}

	questions, err := s.repo.GetByLesson(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("failed to load lesson questions: %w", err)
	}
	for _, q := range questions {
		if err := s.cache.Delete(ctx, cache.QuestionKey(q.ID)); err != nil {
			return err
		}
	}
	return s.cache.DeletePattern(ctx, cache.LessonPattern(lessonID))
}

func (s *questionStore) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Question cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *questionStore) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("Question cache write failed", "key", key, "error", err)
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/cache"
	"github.com/SAP-F-2025/evaluation-service/internal/evaluation"
	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"gorm.io/datatypes"
)

type EvaluationServiceConfig struct {
	Cache       cache.CacheService // optional
	CacheTTL    time.Duration
	Concurrency int
}

type evaluationService struct {
	repo      repositories.Repository
	engine    evaluation.Evaluator
	publisher events.EventPublisher
	questions *questionStore
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
	limit     int
}

func NewEvaluationService(
	repo repositories.Repository,
	engine evaluation.Evaluator,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	cfg EvaluationServiceConfig,
) EvaluationService {
	return &evaluationService{
		repo:      repo,
		engine:    engine,
		publisher: publisher,
		questions: &questionStore{
			repo:   repo.Questions(),
			cache:  cfg.Cache,
			ttl:    cfg.CacheTTL,
			logger: logger,
		},
		logger:    logger,
		ops:       NewServiceLogger(logger, "evaluation"),
		validator: validator,
		limit:     cfg.Concurrency,
	}
}

// ===== STATELESS EVALUATION =====

func (s *evaluationService) Evaluate(ctx context.Context, req *EvaluateRequest) (result *models.EvaluationResult, err error) {
	op := s.ops.WithOperation(ctx, "evaluate", "")
	defer func() { op.LogResult(questionIDOf(req), "question", err) }()

	if req == nil || req.Question == nil {
		return nil, ValidationErrors{*NewValidationError("question", "is required", nil)}
	}
	if req.Answer == nil {
		return nil, ValidationErrors{*NewValidationError("answer", "is required", nil)}
	}

	result, err = s.engine.Evaluate(req.Question, req.Answer)
	if err != nil {
		// the caller supplied the question, so a broken record is their input error
		var die *evaluation.DataIntegrityError
		if errors.As(err, &die) {
			return nil, ValidationErrors{*NewValidationError("question."+die.Field, die.Reason, nil)}
		}
		return nil, err
	}
	return result, nil
}

// ===== SINGLE ANSWER =====

func (s *evaluationService) SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest, userID string) (resp *AnswerResponse, err error) {
	op := s.ops.WithOperation(ctx, "submit_answer", userID)
	defer func() { op.LogResult(answerQuestionIDOf(req), "question", err) }()

	if userID == "" {
		return nil, ErrMissingUser
	}
	if req == nil {
		return nil, ValidationErrors{*NewValidationError("request", "is required", nil)}
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.questions.get(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if question.LessonID == nil || *question.LessonID == "" {
		return nil, ErrQuestionDetached
	}
	if _, err := s.openLesson(ctx, *question.LessonID); err != nil {
		return nil, err
	}

	result, err := s.engine.Evaluate(question, &models.Answer{QuestionID: question.ID, Payload: req.Payload})
	if err != nil {
		return nil, err
	}

	var row *models.UserAnswer
	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.UserAnswers().LockUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to lock user answers: %w", err)
		}
		previous, err := tx.UserAnswers().CountAttempts(ctx, userID, question.ID)
		if err != nil {
			return fmt.Errorf("failed to count attempts: %w", err)
		}

		row, err = newUserAnswer(*question.LessonID, userID, req.Payload, result, previous+1)
		if err != nil {
			return err
		}
		if err := tx.UserAnswers().Create(ctx, row); err != nil {
			return storeError("failed to store answer", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewAnswerEvaluatedEvent(row, result))

	return &AnswerResponse{
		ID:         row.ID,
		LessonID:   row.LessonID,
		QuestionID: question.ID,
		Attempt:    row.Attempt,
		Result:     result,
	}, nil
}

// ===== LESSON SUBMISSION =====

func (s *evaluationService) SubmitLesson(ctx context.Context, req *SubmitLessonRequest, userID string) (lessonResult *models.LessonResult, err error) {
	op := s.ops.WithOperation(ctx, "submit_lesson", userID)
	defer func() { op.LogResult(lessonIDOf(req), "lesson", err) }()

	if userID == "" {
		return nil, ErrMissingUser
	}
	if req == nil {
		return nil, ValidationErrors{*NewValidationError("request", "is required", nil)}
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.openLesson(ctx, req.LessonID); err != nil {
		return nil, err
	}

	questions, err := s.questions.byLesson(ctx, req.LessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson questions: %w", err)
	}

	report := s.validator.Submission().CheckAnswers(questions, req.Answers)
	if len(report.Unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrQuestionNotInLesson, strings.Join(report.Unknown, ", "))
	}
	if len(report.Duplicates) > 0 {
		return nil, NewBusinessRuleError("single_answer_per_question",
			"each question may be answered once per submission",
			map[string]interface{}{"question_ids": report.Duplicates})
	}

	byID := make(map[string]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	items := make([]evaluation.Item, len(req.Answers))
	for i := range req.Answers {
		items[i] = evaluation.Item{Question: byID[req.Answers[i].QuestionID], Answer: &req.Answers[i]}
	}

	results, err := evaluation.EvaluateBatch(ctx, s.engine, items, s.limit)
	if err != nil {
		return nil, err
	}

	lessonResult = summarize(req.LessonID, userID, s.validator.Submission().ScorableMaxPoints(questions), countScorable(questions), results)
	lessonResult.UsedHints = req.UsedHints

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.UserAnswers().LockUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to lock user answers: %w", err)
		}
		rows := make([]*models.UserAnswer, len(results))
		for i, result := range results {
			previous, err := tx.UserAnswers().CountAttempts(ctx, userID, result.QuestionID)
			if err != nil {
				return fmt.Errorf("failed to count attempts: %w", err)
			}
			rows[i], err = newUserAnswer(req.LessonID, userID, req.Answers[i].Payload, result, previous+1)
			if err != nil {
				return err
			}
		}
		if err := tx.UserAnswers().CreateBatch(ctx, rows); err != nil {
			return storeError("failed to store answers", err)
		}

		// only the transaction that flips the finished marker credits points
		first, err := tx.Progress().MarkLessonFinished(ctx, userID, req.LessonID)
		if err != nil {
			return fmt.Errorf("failed to mark lesson finished: %w", err)
		}
		if first && lessonResult.Score > 0 {
			if _, err := tx.Progress().AddPoints(ctx, userID, lessonResult.Score); err != nil {
				return fmt.Errorf("failed to add points: %w", err)
			}
			lessonResult.PointsAwarded = lessonResult.Score
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewLessonCompletedEvent(lessonResult, time.Now().UTC()))
	return lessonResult, nil
}

// ===== RESULTS =====

func (s *evaluationService) GetLessonResults(ctx context.Context, lessonID, userID string) (lessonResult *models.LessonResult, err error) {
	op := s.ops.WithOperation(ctx, "get_lesson_results", userID)
	defer func() { op.LogResult(lessonID, "lesson", err) }()

	if userID == "" {
		return nil, ErrMissingUser
	}
	if _, err := s.lesson(ctx, lessonID); err != nil {
		return nil, err
	}

	questions, err := s.questions.byLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson questions: %w", err)
	}
	answers, err := s.repo.UserAnswers().GetByLessonAndUser(ctx, lessonID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	latest := latestAttempts(answers)
	results := make([]*models.EvaluationResult, 0, len(latest))
	for _, q := range questions {
		answer, ok := latest[q.ID]
		if !ok {
			continue
		}
		result, err := answer.DecodeResult()
		if err != nil {
			return nil, fmt.Errorf("failed to decode stored result %s: %w", answer.ID, err)
		}
		if result != nil {
			results = append(results, result)
		}
	}

	return summarize(lessonID, userID, s.validator.Submission().ScorableMaxPoints(questions), countScorable(questions), results), nil
}

// ===== CACHE =====

func (s *evaluationService) InvalidateLessonCache(ctx context.Context, lessonID string) (err error) {
	op := s.ops.WithOperation(ctx, "invalidate_lesson_cache", "")
	defer func() { op.LogResult(lessonID, "lesson", err) }()

	if _, err := s.lesson(ctx, lessonID); err != nil {
		return err
	}
	return s.questions.invalidateLesson(ctx, lessonID)
}

// ===== HELPERS =====

func (s *evaluationService) lesson(ctx context.Context, lessonID string) (*models.Lesson, error) {
	lesson, err := s.repo.Lessons().GetByID(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	return lesson, nil
}

func (s *evaluationService) openLesson(ctx context.Context, lessonID string) (*models.Lesson, error) {
	lesson, err := s.lesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.IsOpen() {
		return nil, ErrLessonNotPublished
	}
	return lesson, nil
}

// publish never fails the caller; the answer is already stored
func (s *evaluationService) publish(ctx context.Context, event *events.EvaluationEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvaluationEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish evaluation event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}

func newUserAnswer(lessonID, userID string, payload json.RawMessage, result *models.EvaluationResult, attempt int) (*models.UserAnswer, error) {
	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluation result: %w", err)
	}
	questionID := result.QuestionID
	maxPoints := result.MaxScore

	return &models.UserAnswer{
		LessonID:   lessonID,
		QuestionID: &questionID,
		UserID:     userID,
		Answer:     datatypes.JSON(payload),
		Result:     datatypes.JSON(encoded),
		Score:      result.Score,
		MaxPoints:  &maxPoints,
		Attempt:    attempt,
	}, nil
}

func summarize(lessonID, userID string, maxScore float64, questions int, results []*models.EvaluationResult) *models.LessonResult {
	out := &models.LessonResult{
		LessonID:  lessonID,
		UserID:    userID,
		MaxScore:  maxScore,
		Answered:  len(results),
		Questions: questions,
		Results:   results,
	}
	for _, r := range results {
		out.Score += r.Score
	}
	if maxScore > 0 {
		out.Percentage = math.Round(out.Score/maxScore*10000) / 100
	}
	return out
}

func countScorable(questions []models.Question) int {
	n := 0
	for _, q := range questions {
		if q.Type.IsScorable() {
			n++
		}
	}
	return n
}

// latestAttempts keeps the highest attempt per question
func latestAttempts(answers []*models.UserAnswer) map[string]*models.UserAnswer {
	latest := make(map[string]*models.UserAnswer, len(answers))
	for _, a := range answers {
		if a.QuestionID == nil {
			continue
		}
		if current, ok := latest[*a.QuestionID]; !ok || a.Attempt > current.Attempt {
			latest[*a.QuestionID] = a
		}
	}
	return latest
}

// storeError reports a lost race on attempt numbering as a conflict the client may retry
func storeError(message string, err error) error {
	if repositories.IsDuplicateError(err) {
		return fmt.Errorf("%s: %w", message, ErrConflict)
	}
	return fmt.Errorf("%s: %w", message, err)
}

func answerQuestionIDOf(req *SubmitAnswerRequest) string {
	if req == nil {
		return ""
	}
	return req.QuestionID
}

func lessonIDOf(req *SubmitLessonRequest) string {
	if req == nil {
		return ""
	}
	return req.LessonID
}

func questionIDOf(req *EvaluateRequest) string {
	if req == nil || req.Question == nil {
		return ""
	}
	return req.Question.ID
}

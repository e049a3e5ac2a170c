package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// ===== REPOSITORY MOCKS =====

type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByLesson(ctx context.Context, lessonID string) ([]models.Question, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

type MockUserAnswerRepository struct {
	mock.Mock
}

func (m *MockUserAnswerRepository) Create(ctx context.Context, answer *models.UserAnswer) error {
	return m.Called(ctx, answer).Error(0)
}

func (m *MockUserAnswerRepository) CreateBatch(ctx context.Context, answers []*models.UserAnswer) error {
	return m.Called(ctx, answers).Error(0)
}

func (m *MockUserAnswerRepository) LockUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserAnswerRepository) CountAttempts(ctx context.Context, userID, questionID string) (int, error) {
	args := m.Called(ctx, userID, questionID)
	return args.Int(0), args.Error(1)
}

func (m *MockUserAnswerRepository) GetByLessonAndUser(ctx context.Context, lessonID, userID string) ([]*models.UserAnswer, error) {
	args := m.Called(ctx, lessonID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserAnswer), args.Error(1)
}

func (m *MockUserAnswerRepository) GetByLesson(ctx context.Context, lessonID string) ([]*models.UserAnswer, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserAnswer), args.Error(1)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) AddPoints(ctx context.Context, userID string, delta float64) (float64, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockProgressRepository) GetPoints(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockProgressRepository) MarkLessonFinished(ctx context.Context, userID, lessonID string) (bool, error) {
	args := m.Called(ctx, userID, lessonID)
	return args.Bool(0), args.Error(1)
}

// MockRepository runs transactions inline on the same mocks
type MockRepository struct {
	LessonRepo     *MockLessonRepository
	QuestionRepo   *MockQuestionRepository
	UserAnswerRepo *MockUserAnswerRepository
	ProgressRepo   *MockProgressRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		LessonRepo:     &MockLessonRepository{},
		QuestionRepo:   &MockQuestionRepository{},
		UserAnswerRepo: &MockUserAnswerRepository{},
		ProgressRepo:   &MockProgressRepository{},
	}
}

func (m *MockRepository) Lessons() repositories.LessonRepository { return m.LessonRepo }
func (m *MockRepository) Questions() repositories.QuestionRepository { return m.QuestionRepo }
func (m *MockRepository) UserAnswers() repositories.UserAnswerRepository { return m.UserAnswerRepo }
func (m *MockRepository) Progress() repositories.ProgressRepository { return m.ProgressRepo }

func (m *MockRepository) Transaction(ctx context.Context, fn func(repo repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) AssertExpectations(t mock.TestingT) {
	m.LessonRepo.AssertExpectations(t)
	m.QuestionRepo.AssertExpectations(t)
	m.UserAnswerRepo.AssertExpectations(t)
	m.ProgressRepo.AssertExpectations(t)
}

// ===== CACHE MOCK =====

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

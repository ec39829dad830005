package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

// Mock StoryRepository
type StoryRepository struct {
	mock.Mock
}

func (m *StoryRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, querier, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *StoryRepository) IncrementViews(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) error {
	args := m.Called(ctx, querier, id)
	return args.Error(0)
}

func (m *StoryRepository) IncrementCompletions(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, endingType string) error {
	args := m.Called(ctx, querier, id, endingType)
	return args.Error(0)
}

// Mock PageRepository
type PageRepository struct {
	mock.Mock
}

func (m *PageRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Page, error) {
	args := m.Called(ctx, querier, id)
	page, _ := args.Get(0).(*models.Page)
	return page, args.Error(1)
}

// Mock SessionRepository
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, querier interfaces.DBTX, session *models.GameSession) error {
	args := m.Called(ctx, querier, session)
	return args.Error(0)
}

func (m *SessionRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.GameSession, error) {
	args := m.Called(ctx, querier, id)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *SessionRepository) Update(ctx context.Context, querier interfaces.DBTX, session *models.GameSession) error {
	args := m.Called(ctx, querier, session)
	return args.Error(0)
}

func (m *SessionRepository) ListByUser(ctx context.Context, querier interfaces.DBTX, userID uuid.UUID) ([]models.GameSession, error) {
	args := m.Called(ctx, querier, userID)
	sessions, _ := args.Get(0).([]models.GameSession)
	return sessions, args.Error(1)
}

func (m *SessionRepository) ListByStory(ctx context.Context, querier interfaces.DBTX, storyID uuid.UUID) ([]models.GameSession, error) {
	args := m.Called(ctx, querier, storyID)
	sessions, _ := args.Get(0).([]models.GameSession)
	return sessions, args.Error(1)
}

func (m *SessionRepository) ListCompletedByStory(ctx context.Context, querier interfaces.DBTX, storyID uuid.UUID) ([]models.GameSession, error) {
	args := m.Called(ctx, querier, storyID)
	sessions, _ := args.Get(0).([]models.GameSession)
	return sessions, args.Error(1)
}

func (m *SessionRepository) FindActiveByUserAndStory(ctx context.Context, querier interfaces.DBTX, userID, storyID uuid.UUID) (*models.GameSession, error) {
	args := m.Called(ctx, querier, userID, storyID)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *SessionRepository) MarkStaleInProgressAsAbandoned(ctx context.Context, querier interfaces.DBTX, idleThreshold time.Duration) (int64, error) {
	args := m.Called(ctx, querier, idleThreshold)
	return args.Get(0).(int64), args.Error(1)
}

// Mock TxManager. A successful expectation invokes fn with a nil querier;
// repository mocks ignore the querier argument anyway.
type TxManager struct {
	mock.Mock
}

func (m *TxManager) WithTx(ctx context.Context, fn func(q interfaces.DBTX) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/service"
)

// Mock GameService
type GameService struct {
	mock.Mock
}

func (m *GameService) StartSession(ctx context.Context, storyID, userID uuid.UUID, preview bool) (*models.GameSession, error) {
	args := m.Called(ctx, storyID, userID, preview)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *GameService) Advance(ctx context.Context, sessionID, userID uuid.UUID, selector service.AdvanceSelector, diceOutcome *bool) (*models.GameSession, error) {
	args := m.Called(ctx, sessionID, userID, selector, diceOutcome)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *GameService) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.GameSession, error) {
	args := m.Called(ctx, sessionID, userID)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *GameService) GetCurrentPage(ctx context.Context, sessionID, userID uuid.UUID) (*models.Page, []bool, error) {
	args := m.Called(ctx, sessionID, userID)
	page, _ := args.Get(0).(*models.Page)
	selectable, _ := args.Get(1).([]bool)
	return page, selectable, args.Error(2)
}

func (m *GameService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error) {
	args := m.Called(ctx, userID)
	sessions, _ := args.Get(0).([]models.GameSession)
	return sessions, args.Error(1)
}

func (m *GameService) GetActiveSessionByStory(ctx context.Context, storyID, userID uuid.UUID) (*models.GameSession, error) {
	args := m.Called(ctx, storyID, userID)
	session, _ := args.Get(0).(*models.GameSession)
	return session, args.Error(1)
}

func (m *GameService) AbandonSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

// Mock StatsService
type StatsService struct {
	mock.Mock
}

func (m *StatsService) GetPathStats(ctx context.Context, sessionID, userID uuid.UUID) (*models.PathStats, error) {
	args := m.Called(ctx, sessionID, userID)
	stats, _ := args.Get(0).(*models.PathStats)
	return stats, args.Error(1)
}

func (m *StatsService) GetStoryStats(ctx context.Context, storyID, userID uuid.UUID) (*models.StoryDashboardStats, error) {
	args := m.Called(ctx, storyID, userID)
	stats, _ := args.Get(0).(*models.StoryDashboardStats)
	return stats, args.Error(1)
}

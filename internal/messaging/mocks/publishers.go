package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/messaging"
)

// Mock SessionEventPublisher
type SessionEventPublisher struct {
	mock.Mock
}

func (m *SessionEventPublisher) PublishSessionEvent(ctx context.Context, payload messaging.SessionEventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

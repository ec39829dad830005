package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

// SessionRepository persists play sessions. Listing methods that feed
// statistics exclude preview sessions; preview traversals must stay
// invisible to every aggregate.
//
//go:generate mockery --name SessionRepository --output ./mocks --outpkg mocks --case=underscore
type SessionRepository interface {
	// Create inserts a new session record.
	Create(ctx context.Context, querier DBTX, session *models.GameSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns models.ErrSessionNotFound if no such session exists.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.GameSession, error)

	// Update persists the session's mutable fields (position, history,
	// inventory, status, completion time).
	Update(ctx context.Context, querier DBTX, session *models.GameSession) error

	// ListByUser returns all sessions belonging to a user, newest first.
	ListByUser(ctx context.Context, querier DBTX, userID uuid.UUID) ([]models.GameSession, error)

	// ListByStory returns all non-preview sessions of a story.
	ListByStory(ctx context.Context, querier DBTX, storyID uuid.UUID) ([]models.GameSession, error)

	// ListCompletedByStory returns all completed, non-preview sessions of a story.
	ListCompletedByStory(ctx context.Context, querier DBTX, storyID uuid.UUID) ([]models.GameSession, error)

	// FindActiveByUserAndStory returns the most recent in-progress,
	// non-preview session of a user for a story, or models.ErrSessionNotFound.
	FindActiveByUserAndStory(ctx context.Context, querier DBTX, userID, storyID uuid.UUID) (*models.GameSession, error)

	// MarkStaleInProgressAsAbandoned flips in-progress sessions idle for
	// longer than the threshold to abandoned. Returns the number of
	// sessions updated.
	MarkStaleInProgressAsAbandoned(ctx context.Context, querier DBTX, idleThreshold time.Duration) (int64, error)
}

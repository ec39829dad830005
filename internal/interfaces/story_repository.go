package interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

// StoryRepository reads story records and bumps their aggregate counters.
// The engine never creates or edits story content; that belongs to the
// authoring subsystem.
//
//go:generate mockery --name StoryRepository --output ./mocks --outpkg mocks --case=underscore
type StoryRepository interface {
	// GetByID retrieves a story by its unique ID.
	// Returns models.ErrStoryNotFound if no such story exists.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Story, error)

	// IncrementViews atomically bumps the story's view counter by one.
	IncrementViews(ctx context.Context, querier DBTX, id uuid.UUID) error

	// IncrementCompletions atomically bumps the completion counter and the
	// per-ending-type bucket in a single statement, so concurrent
	// completions never lose updates.
	IncrementCompletions(ctx context.Context, querier DBTX, id uuid.UUID, endingType string) error
}

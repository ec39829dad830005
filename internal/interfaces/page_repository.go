package interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

// PageRepository reads pages of the story graph. Pages are immutable from
// the traversal engine's point of view, which is what makes the redis cache
// decorator safe.
//
//go:generate mockery --name PageRepository --output ./mocks --outpkg mocks --case=underscore
type PageRepository interface {
	// GetByID retrieves a page by its unique ID.
	// Returns models.ErrPageNotFound if no such page exists.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Page, error)
}

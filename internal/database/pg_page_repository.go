package database

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

const (
	pageFields = `id, story_id, content, is_ending, ending_type, choices, hotspots, created_at, updated_at`

	getPageByIDQuery = `
        SELECT ` + pageFields + `
        FROM pages
        WHERE id = $1
    `
)

// Compile-time check
var _ interfaces.PageRepository = (*pgPageRepository)(nil)

type pgPageRepository struct {
	logger *zap.Logger
}

// NewPgPageRepository creates the PostgreSQL PageRepository.
func NewPgPageRepository(logger *zap.Logger) interfaces.PageRepository {
	return &pgPageRepository{logger: logger.Named("PgPageRepo")}
}

func (r *pgPageRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Page, error) {
	var page models.Page
	err := pgxscan.Get(ctx, querier, &page, getPageByIDQuery, id)
	if err != nil {
		return nil, WrapNotFound(err, models.ErrPageNotFound)
	}
	return &page, nil
}

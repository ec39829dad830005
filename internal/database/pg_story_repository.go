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
	storyFields = `id, author_id, title, status, start_page_id, views, completions, endings, created_at, updated_at`

	getStoryByIDQuery = `
        SELECT ` + storyFields + `
        FROM stories
        WHERE id = $1
    `
	incrementStoryViewsQuery = `
        UPDATE stories
        SET views = views + 1, updated_at = NOW()
        WHERE id = $1
    `
	// Bumps the completion counter and the per-ending-type bucket in one
	// statement; never read-modify-write, so concurrent completions of the
	// same story cannot lose updates.
	incrementStoryCompletionsQuery = `
        UPDATE stories
        SET completions = completions + 1,
            endings = jsonb_set(
                COALESCE(endings, '{}'::jsonb),
                ARRAY[$2],
                (COALESCE(endings->>$2, '0')::bigint + 1)::text::jsonb,
                true
            ),
            updated_at = NOW()
        WHERE id = $1
    `
)

// Compile-time check
var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	logger *zap.Logger
}

// NewPgStoryRepository creates the PostgreSQL StoryRepository.
func NewPgStoryRepository(logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{logger: logger.Named("PgStoryRepo")}
}

func (r *pgStoryRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Story, error) {
	var story models.Story
	err := pgxscan.Get(ctx, querier, &story, getStoryByIDQuery, id)
	if err != nil {
		return nil, WrapNotFound(err, models.ErrStoryNotFound)
	}
	return &story, nil
}

func (r *pgStoryRepository) IncrementViews(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) error {
	tag, err := querier.Exec(ctx, incrementStoryViewsQuery, id)
	if err != nil {
		r.logger.Error("Failed to increment story views", zap.String("storyID", id.String()), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrStoryNotFound
	}
	return nil
}

func (r *pgStoryRepository) IncrementCompletions(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, endingType string) error {
	tag, err := querier.Exec(ctx, incrementStoryCompletionsQuery, id, endingType)
	if err != nil {
		r.logger.Error("Failed to increment story completions",
			zap.String("storyID", id.String()),
			zap.String("endingType", endingType),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrStoryNotFound
	}
	return nil
}

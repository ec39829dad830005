package database

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

const (
	sessionFields = `id, user_id, story_id, current_page_id, history, inventory, status, is_preview, created_at, updated_at, completed_at`

	insertSessionQuery = `
        INSERT INTO game_sessions
            (id, user_id, story_id, current_page_id, history, inventory, status, is_preview, created_at, updated_at, completed_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	updateSessionQuery = `
        UPDATE game_sessions SET
            current_page_id = $2,
            history = $3,
            inventory = $4,
            status = $5,
            updated_at = $6,
            completed_at = $7
            -- user_id, story_id and is_preview never change after creation
        WHERE id = $1
    `
	getSessionByIDQuery = `
        SELECT ` + sessionFields + `
        FROM game_sessions
        WHERE id = $1
    `
	listSessionsByUserQuery = `
        SELECT ` + sessionFields + `
        FROM game_sessions
        WHERE user_id = $1
        ORDER BY updated_at DESC
    `
	listSessionsByStoryQuery = `
        SELECT ` + sessionFields + `
        FROM game_sessions
        WHERE story_id = $1 AND is_preview = FALSE
    `
	listCompletedSessionsByStoryQuery = `
        SELECT ` + sessionFields + `
        FROM game_sessions
        WHERE story_id = $1 AND status = 'completed' AND is_preview = FALSE
    `
	findActiveSessionQuery = `
        SELECT ` + sessionFields + `
        FROM game_sessions
        WHERE user_id = $1 AND story_id = $2 AND status = 'in_progress' AND is_preview = FALSE
        ORDER BY updated_at DESC
        LIMIT 1
    `
	markStaleSessionsAbandonedQuery = `
        UPDATE game_sessions
        SET status = 'abandoned', updated_at = NOW()
        WHERE status = 'in_progress' AND updated_at < $1
    `
)

// Compile-time check
var _ interfaces.SessionRepository = (*pgSessionRepository)(nil)

type pgSessionRepository struct {
	logger *zap.Logger
}

// NewPgSessionRepository creates the PostgreSQL SessionRepository.
func NewPgSessionRepository(logger *zap.Logger) interfaces.SessionRepository {
	return &pgSessionRepository{logger: logger.Named("PgSessionRepo")}
}

func (r *pgSessionRepository) Create(ctx context.Context, querier interfaces.DBTX, session *models.GameSession) error {
	now := time.Now().UTC()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.History == nil {
		session.History = []uuid.UUID{}
	}
	if session.Inventory == nil {
		session.Inventory = []string{}
	}

	r.logger.Debug("Inserting game session",
		zap.String("sessionID", session.ID.String()),
		zap.String("userID", session.UserID.String()),
		zap.String("storyID", session.StoryID.String()),
		zap.Bool("isPreview", session.IsPreview),
	)

	_, err := querier.Exec(ctx, insertSessionQuery,
		session.ID,
		session.UserID,
		session.StoryID,
		session.CurrentPageID,
		session.History,
		session.Inventory,
		session.Status,
		session.IsPreview,
		session.CreatedAt,
		session.UpdatedAt,
		session.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert game session", zap.String("sessionID", session.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgSessionRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.GameSession, error) {
	var session models.GameSession
	err := pgxscan.Get(ctx, querier, &session, getSessionByIDQuery, id)
	if err != nil {
		return nil, WrapNotFound(err, models.ErrSessionNotFound)
	}
	return &session, nil
}

func (r *pgSessionRepository) Update(ctx context.Context, querier interfaces.DBTX, session *models.GameSession) error {
	session.UpdatedAt = time.Now().UTC()
	if session.History == nil {
		session.History = []uuid.UUID{}
	}
	if session.Inventory == nil {
		session.Inventory = []string{}
	}

	tag, err := querier.Exec(ctx, updateSessionQuery,
		session.ID,
		session.CurrentPageID,
		session.History,
		session.Inventory,
		session.Status,
		session.UpdatedAt,
		session.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update game session", zap.String("sessionID", session.ID.String()), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

func (r *pgSessionRepository) ListByUser(ctx context.Context, querier interfaces.DBTX, userID uuid.UUID) ([]models.GameSession, error) {
	var sessions []models.GameSession
	if err := pgxscan.Select(ctx, querier, &sessions, listSessionsByUserQuery, userID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *pgSessionRepository) ListByStory(ctx context.Context, querier interfaces.DBTX, storyID uuid.UUID) ([]models.GameSession, error) {
	var sessions []models.GameSession
	if err := pgxscan.Select(ctx, querier, &sessions, listSessionsByStoryQuery, storyID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *pgSessionRepository) ListCompletedByStory(ctx context.Context, querier interfaces.DBTX, storyID uuid.UUID) ([]models.GameSession, error) {
	var sessions []models.GameSession
	if err := pgxscan.Select(ctx, querier, &sessions, listCompletedSessionsByStoryQuery, storyID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *pgSessionRepository) FindActiveByUserAndStory(ctx context.Context, querier interfaces.DBTX, userID, storyID uuid.UUID) (*models.GameSession, error) {
	var session models.GameSession
	err := pgxscan.Get(ctx, querier, &session, findActiveSessionQuery, userID, storyID)
	if err != nil {
		return nil, WrapNotFound(err, models.ErrSessionNotFound)
	}
	return &session, nil
}

func (r *pgSessionRepository) MarkStaleInProgressAsAbandoned(ctx context.Context, querier interfaces.DBTX, idleThreshold time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-idleThreshold)
	tag, err := querier.Exec(ctx, markStaleSessionsAbandonedQuery, cutoff)
	if err != nil {
		r.logger.Error("Failed to mark stale sessions as abandoned", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

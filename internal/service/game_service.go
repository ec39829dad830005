package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/messaging"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

// GameService is the narrative traversal engine: it owns every mutation of
// play sessions and of the story aggregate counters.
type GameService interface {
	// StartSession begins a traversal of a story at its start page.
	// Preview sessions require the requester to be the story's author;
	// regular sessions require the story to be published. Non-preview
	// starts bump the story's view counter exactly once.
	StartSession(ctx context.Context, storyID, userID uuid.UUID, preview bool) (*models.GameSession, error)

	// Advance applies one decision to a session: a choice or hotspot
	// selector, plus a dice outcome when the selected edge carries an
	// enabled roll. See game_advance.go for the resolution order.
	Advance(ctx context.Context, sessionID, userID uuid.UUID, selector AdvanceSelector, diceOutcome *bool) (*models.GameSession, error)

	// GetSession returns a session after an ownership check.
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.GameSession, error)

	// GetCurrentPage returns the session's current page together with a
	// per-choice selectability mask (conditional gating applied against
	// the session's inventory).
	GetCurrentPage(ctx context.Context, sessionID, userID uuid.UUID) (*models.Page, []bool, error)

	// ListSessions returns all sessions of a user, newest first.
	ListSessions(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error)

	// GetActiveSessionByStory returns the user's most recent in-progress,
	// non-preview session for a story ("continue playing").
	GetActiveSessionByStory(ctx context.Context, storyID, userID uuid.UUID) (*models.GameSession, error)

	// AbandonSession stores the externally decided
	// in_progress -> abandoned transition.
	AbandonSession(ctx context.Context, sessionID, userID uuid.UUID) error
}

type gameServiceImpl struct {
	stories   interfaces.StoryRepository
	pages     interfaces.PageRepository
	sessions  interfaces.SessionRepository
	tx        interfaces.TxManager
	db        interfaces.DBTX
	publisher messaging.SessionEventPublisher
	logger    *zap.Logger
}

// NewGameService creates the traversal engine. db is the querier used for
// reads outside transactions (normally the pgx pool).
func NewGameService(
	stories interfaces.StoryRepository,
	pages interfaces.PageRepository,
	sessions interfaces.SessionRepository,
	tx interfaces.TxManager,
	db interfaces.DBTX,
	publisher messaging.SessionEventPublisher,
	logger *zap.Logger,
) GameService {
	return &gameServiceImpl{
		stories:   stories,
		pages:     pages,
		sessions:  sessions,
		tx:        tx,
		db:        db,
		publisher: publisher,
		logger:    logger.Named("GameService"),
	}
}

func (s *gameServiceImpl) StartSession(ctx context.Context, storyID, userID uuid.UUID, preview bool) (*models.GameSession, error) {
	story, err := s.stories.GetByID(ctx, s.db, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load story: %w", err)
	}

	if preview {
		if !story.IsAuthor(userID) {
			return nil, models.ErrPreviewNotAuthor
		}
	} else if story.Status != models.StoryStatusPublished {
		return nil, models.ErrStoryNotPublished
	}

	if story.StartPageID == nil {
		return nil, models.ErrNoStartPage
	}

	session := &models.GameSession{
		UserID:        userID,
		StoryID:       storyID,
		CurrentPageID: *story.StartPageID,
		History:       []uuid.UUID{},
		Inventory:     []string{},
		Status:        models.SessionStatusInProgress,
		IsPreview:     preview,
	}

	// Session creation and the view increment land together; a start is
	// counted once, never per page visited.
	err = s.tx.WithTx(ctx, func(q interfaces.DBTX) error {
		if err := s.sessions.Create(ctx, q, session); err != nil {
			return err
		}
		if !preview {
			return s.stories.IncrementViews(ctx, q, storyID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.logger.Info("Session started",
		zap.String("sessionID", session.ID.String()),
		zap.String("storyID", storyID.String()),
		zap.String("userID", userID.String()),
		zap.Bool("isPreview", preview),
	)

	if !preview {
		s.publishEvent(ctx, messaging.SessionEventPayload{
			Type:       messaging.EventSessionStarted,
			SessionID:  session.ID,
			StoryID:    storyID,
			UserID:     userID,
			OccurredAt: time.Now().UTC(),
		})
	}

	return session, nil
}

func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.GameSession, error) {
	return s.loadOwnedSession(ctx, sessionID, userID)
}

func (s *gameServiceImpl) GetCurrentPage(ctx context.Context, sessionID, userID uuid.UUID) (*models.Page, []bool, error) {
	session, err := s.loadOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, nil, err
	}

	page, err := s.pages.GetByID(ctx, s.db, session.CurrentPageID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", models.ErrCurrentPageMissing, err)
	}

	selectable := make([]bool, len(page.Choices))
	for i := range page.Choices {
		selectable[i] = choiceSelectable(&page.Choices[i], session)
	}
	return page, selectable, nil
}

func (s *gameServiceImpl) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.GameSession, error) {
	return s.sessions.ListByUser(ctx, s.db, userID)
}

func (s *gameServiceImpl) GetActiveSessionByStory(ctx context.Context, storyID, userID uuid.UUID) (*models.GameSession, error) {
	return s.sessions.FindActiveByUserAndStory(ctx, s.db, userID, storyID)
}

func (s *gameServiceImpl) AbandonSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	session, err := s.loadOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionStatusInProgress {
		return models.ErrSessionFinished
	}

	session.Status = models.SessionStatusAbandoned
	return s.tx.WithTx(ctx, func(q interfaces.DBTX) error {
		return s.sessions.Update(ctx, q, session)
	})
}

// loadOwnedSession fetches a session and enforces ownership.
func (s *gameServiceImpl) loadOwnedSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.GameSession, error) {
	session, err := s.sessions.GetByID(ctx, s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.ErrNotYourSession
	}
	return session, nil
}

// publishEvent sends a session event, logging failures instead of
// propagating them; events are best effort.
func (s *gameServiceImpl) publishEvent(ctx context.Context, payload messaging.SessionEventPayload) {
	if err := s.publisher.PublishSessionEvent(ctx, payload); err != nil {
		s.logger.Warn("Failed to publish session event",
			zap.String("type", payload.Type),
			zap.String("sessionID", payload.SessionID.String()),
			zap.Error(err),
		)
	}
}

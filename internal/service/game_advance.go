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

// AdvanceSelector identifies the edge taken from the current page: exactly
// one of ChoiceIndex or HotspotIndex must be set.
type AdvanceSelector struct {
	ChoiceIndex  *int
	HotspotIndex *int
}

// ChoiceSelector builds a selector for the i-th choice of the current page.
func ChoiceSelector(i int) AdvanceSelector {
	return AdvanceSelector{ChoiceIndex: &i}
}

// HotspotSelector builds a selector for the i-th hotspot of the current page.
func HotspotSelector(i int) AdvanceSelector {
	return AdvanceSelector{HotspotIndex: &i}
}

// Validate checks that the selector addresses exactly one edge kind.
func (sel AdvanceSelector) Validate() error {
	if (sel.ChoiceIndex == nil) == (sel.HotspotIndex == nil) {
		return fmt.Errorf("%w: exactly one of choiceIndex or hotspotIndex must be provided", models.ErrInvalidInput)
	}
	return nil
}

func (s *gameServiceImpl) Advance(ctx context.Context, sessionID, userID uuid.UUID, selector AdvanceSelector, diceOutcome *bool) (*models.GameSession, error) {
	if err := selector.Validate(); err != nil {
		return nil, err
	}

	session, err := s.loadOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusInProgress {
		return nil, models.ErrSessionFinished
	}

	page, err := s.pages.GetByID(ctx, s.db, session.CurrentPageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCurrentPageMissing, err)
	}

	destinationID, rewards, err := resolveEdge(page, selector, session, diceOutcome)
	if err != nil {
		return nil, err
	}

	destination, err := s.pages.GetByID(ctx, s.db, destinationID)
	if err != nil {
		return nil, fmt.Errorf("%w: destination page %s", models.ErrTargetUnavailable, destinationID)
	}

	for _, reward := range rewards {
		if reward.Type == models.RewardAddItem && reward.Value != "" {
			session.Inventory = append(session.Inventory, reward.Value)
		}
	}

	session.History = append(session.History, session.CurrentPageID)
	session.CurrentPageID = destinationID

	var endingType string
	if destination.IsEnding {
		now := time.Now().UTC()
		session.Status = models.SessionStatusCompleted
		session.CompletedAt = &now
		endingType = destination.EndingTypeOrDefault()
	}

	err = s.tx.WithTx(ctx, func(q interfaces.DBTX) error {
		return s.sessions.Update(ctx, q, session)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to advance session: %w", err)
	}

	if destination.IsEnding && !session.IsPreview {
		s.recordCompletion(ctx, session.StoryID, endingType)
		s.publishEvent(ctx, messaging.SessionEventPayload{
			Type:       messaging.EventSessionCompleted,
			SessionID:  session.ID,
			StoryID:    session.StoryID,
			UserID:     session.UserID,
			EndingType: &endingType,
			OccurredAt: time.Now().UTC(),
		})
	}

	s.logger.Info("Session advanced",
		zap.String("sessionID", session.ID.String()),
		zap.String("pageID", destinationID.String()),
		zap.Bool("ended", destination.IsEnding),
	)
	return session, nil
}

// recordCompletion bumps the story's completion counters after the session
// transition has committed. The session advance is never rolled back for a
// counter failure; a single retry covers transient errors.
func (s *gameServiceImpl) recordCompletion(ctx context.Context, storyID uuid.UUID, endingType string) {
	err := s.stories.IncrementCompletions(ctx, s.db, storyID, endingType)
	if err != nil {
		s.logger.Warn("Completion counter update failed, retrying",
			zap.String("storyID", storyID.String()), zap.Error(err))
		err = s.stories.IncrementCompletions(ctx, s.db, storyID, endingType)
	}
	if err != nil {
		s.logger.Error("Completion counter update lost",
			zap.String("storyID", storyID.String()),
			zap.String("endingType", endingType),
			zap.Error(err),
		)
	}
}

// resolveEdge validates the selector against the page and returns the
// destination page ID plus any rewards granted by the taken edge.
func resolveEdge(page *models.Page, sel AdvanceSelector, session *models.GameSession, diceOutcome *bool) (uuid.UUID, []models.ChoiceReward, error) {
	if sel.ChoiceIndex != nil {
		i := *sel.ChoiceIndex
		if i < 0 || i >= len(page.Choices) {
			return uuid.Nil, nil, models.ErrInvalidChoiceIndex
		}
		choice := &page.Choices[i]
		if !choiceSelectable(choice, session) {
			return uuid.Nil, nil, models.ErrChoiceLocked
		}
		dest, err := resolveDestination(choice.DiceRoll, choice.TargetPageID, diceOutcome)
		if err != nil {
			return uuid.Nil, nil, err
		}
		return dest, choice.Rewards, nil
	}

	i := *sel.HotspotIndex
	if i < 0 || i >= len(page.Hotspots) {
		return uuid.Nil, nil, models.ErrInvalidHotspotIndex
	}
	hotspot := &page.Hotspots[i]
	dest, err := resolveDestination(hotspot.DiceRoll, hotspot.TargetPageID, diceOutcome)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return dest, nil, nil
}

// resolveDestination picks the next page for an edge. An enabled dice roll
// demands an outcome and routes to its success or failure page; a missing
// outcome page falls back to the edge's own target.
func resolveDestination(roll *models.DiceRoll, target *uuid.UUID, outcome *bool) (uuid.UUID, error) {
	if roll != nil && roll.Enabled {
		if outcome == nil {
			return uuid.Nil, models.ErrMissingDiceOutcome
		}
		if *outcome && roll.SuccessPageID != nil {
			return *roll.SuccessPageID, nil
		}
		if !*outcome && roll.FailurePageID != nil {
			return *roll.FailurePageID, nil
		}
	}
	if target != nil {
		return *target, nil
	}
	return uuid.Nil, models.ErrTargetUnavailable
}

// choiceSelectable reports whether the session satisfies the choice's
// condition. Unknown condition types do not lock the choice.
func choiceSelectable(choice *models.Choice, session *models.GameSession) bool {
	if choice.Condition == nil {
		return true
	}
	if choice.Condition.Type == models.ConditionHasItem {
		return session.HasItem(choice.Condition.Value)
	}
	return true
}

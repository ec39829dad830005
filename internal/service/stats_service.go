package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

// StatsService aggregates traversal statistics. Preview sessions never
// participate: the repository listings already exclude them.
type StatsService interface {
	// GetPathStats compares a session's path against all completed runs of
	// the same story (rarity, ending distribution). Owner only.
	GetPathStats(ctx context.Context, sessionID, userID uuid.UUID) (*models.PathStats, error)

	// GetStoryStats builds the author dashboard for a story. Author only.
	GetStoryStats(ctx context.Context, storyID, userID uuid.UUID) (*models.StoryDashboardStats, error)
}

type statsServiceImpl struct {
	stories  interfaces.StoryRepository
	pages    interfaces.PageRepository
	sessions interfaces.SessionRepository
	db       interfaces.DBTX
	logger   *zap.Logger
}

func NewStatsService(
	stories interfaces.StoryRepository,
	pages interfaces.PageRepository,
	sessions interfaces.SessionRepository,
	db interfaces.DBTX,
	logger *zap.Logger,
) StatsService {
	return &statsServiceImpl{
		stories:  stories,
		pages:    pages,
		sessions: sessions,
		db:       db,
		logger:   logger.Named("StatsService"),
	}
}

func (s *statsServiceImpl) GetPathStats(ctx context.Context, sessionID, userID uuid.UUID) (*models.PathStats, error) {
	session, err := s.sessions.GetByID(ctx, s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.ErrNotYourSession
	}

	completed, err := s.sessions.ListCompletedByStory(ctx, s.db, session.StoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed sessions: %w", err)
	}

	stats := &models.PathStats{
		SessionID:              session.ID,
		StoryID:                session.StoryID,
		PathLength:             session.PathLength(),
		TotalCompletedSessions: len(completed),
		EndingDistribution:     map[string]models.EndingBucket{},
	}

	total := len(completed)
	pathKey := session.PathKey()
	endingCounts := map[string]int{}
	pageCache := newPageLookup(s.pages, s.db)

	for i := range completed {
		other := &completed[i]
		if other.PathKey() == pathKey {
			stats.SamePathCount++
		}
		endingType, ok := pageCache.endingType(ctx, other.CurrentPageID)
		if ok {
			endingCounts[endingType]++
		}
	}

	stats.SamePathPercentage = roundPercentage(stats.SamePathCount, total)
	for endingType, count := range endingCounts {
		stats.EndingDistribution[endingType] = models.EndingBucket{
			Count:      count,
			Percentage: roundPercentage(count, total),
		}
	}

	if endingType, ok := pageCache.endingType(ctx, session.CurrentPageID); ok && session.Status == models.SessionStatusCompleted {
		stats.CurrentEnding = &models.CurrentEnding{
			Type:                endingType,
			ReachedByPercentage: stats.EndingDistribution[endingType].Percentage,
		}
	}

	return stats, nil
}

func (s *statsServiceImpl) GetStoryStats(ctx context.Context, storyID, userID uuid.UUID) (*models.StoryDashboardStats, error) {
	story, err := s.stories.GetByID(ctx, s.db, storyID)
	if err != nil {
		return nil, err
	}
	if !story.IsAuthor(userID) {
		return nil, models.ErrForbidden
	}

	all, err := s.sessions.ListByStory(ctx, s.db, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	stats := &models.StoryDashboardStats{
		StoryID:            storyID,
		Views:              story.Views,
		TotalSessions:      len(all),
		EndingDistribution: map[string]int{},
	}

	pageCache := newPageLookup(s.pages, s.db)
	var pathLengthSum int
	for i := range all {
		session := &all[i]
		switch session.Status {
		case models.SessionStatusCompleted:
			stats.CompletedSessions++
			pathLengthSum += session.PathLength()
			if endingType, ok := pageCache.endingType(ctx, session.CurrentPageID); ok {
				stats.EndingDistribution[endingType]++
			}
		case models.SessionStatusAbandoned:
			stats.AbandonedSessions++
		case models.SessionStatusInProgress:
			stats.InProgressSessions++
		}
	}

	stats.CompletionRate = roundPercentage(stats.CompletedSessions, stats.TotalSessions)
	if stats.CompletedSessions > 0 {
		avg := float64(pathLengthSum) / float64(stats.CompletedSessions)
		stats.AveragePathLength = math.Round(avg*10) / 10
	}

	return stats, nil
}

// pageLookup memoizes ending lookups so a stats pass fetches each distinct
// page at most once. Pages deleted since completion are skipped.
type pageLookup struct {
	pages interfaces.PageRepository
	db    interfaces.DBTX
	seen  map[uuid.UUID]*models.Page
}

func newPageLookup(pages interfaces.PageRepository, db interfaces.DBTX) *pageLookup {
	return &pageLookup{pages: pages, db: db, seen: map[uuid.UUID]*models.Page{}}
}

// endingType returns the ending type of a page when it exists and is an
// ending; ok is false otherwise.
func (l *pageLookup) endingType(ctx context.Context, pageID uuid.UUID) (string, bool) {
	page, cached := l.seen[pageID]
	if !cached {
		loaded, err := l.pages.GetByID(ctx, l.db, pageID)
		if err != nil {
			if !errors.Is(err, models.ErrPageNotFound) {
				return "", false
			}
			loaded = nil
		}
		l.seen[pageID] = loaded
		page = loaded
	}
	if page == nil || !page.IsEnding {
		return "", false
	}
	return page.EndingTypeOrDefault(), true
}

// roundPercentage computes round(part/total*100), with 0 for an empty total.
func roundPercentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

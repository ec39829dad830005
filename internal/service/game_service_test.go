package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	interfaceMocks "github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces/mocks"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/messaging"
	messagingMocks "github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/messaging/mocks"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

type gameServiceMocks struct {
	stories   *interfaceMocks.StoryRepository
	pages     *interfaceMocks.PageRepository
	sessions  *interfaceMocks.SessionRepository
	tx        *interfaceMocks.TxManager
	publisher *messagingMocks.SessionEventPublisher
}

func newTestGameService(t *testing.T) (GameService, *gameServiceMocks) {
	t.Helper()
	m := &gameServiceMocks{
		stories:   new(interfaceMocks.StoryRepository),
		pages:     new(interfaceMocks.PageRepository),
		sessions:  new(interfaceMocks.SessionRepository),
		tx:        new(interfaceMocks.TxManager),
		publisher: new(messagingMocks.SessionEventPublisher),
	}
	svc := NewGameService(m.stories, m.pages, m.sessions, m.tx, nil, m.publisher, zap.NewNop())
	return svc, m
}

func (m *gameServiceMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.stories.AssertExpectations(t)
	m.pages.AssertExpectations(t)
	m.sessions.AssertExpectations(t)
	m.tx.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func publishedStory(authorID uuid.UUID) *models.Story {
	startPageID := uuid.New()
	return &models.Story{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       "The Cave",
		Status:      models.StoryStatusPublished,
		StartPageID: &startPageID,
	}
}

func TestStartSession_Success(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	userID := uuid.New()
	story := publishedStory(uuid.New())

	m.stories.On("GetByID", ctx, nil, story.ID).Return(story, nil)
	m.tx.On("WithTx", ctx, mock.Anything).Return(nil)
	m.sessions.On("Create", ctx, nil, mock.AnythingOfType("*models.GameSession")).
		Run(func(args mock.Arguments) {
			session := args.Get(2).(*models.GameSession)
			session.ID = uuid.New()
		}).Return(nil)
	m.stories.On("IncrementViews", ctx, nil, story.ID).Return(nil)
	m.publisher.On("PublishSessionEvent", ctx, mock.MatchedBy(func(p messaging.SessionEventPayload) bool {
		return p.Type == messaging.EventSessionStarted && p.StoryID == story.ID
	})).Return(nil)

	session, err := svc.StartSession(ctx, story.ID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, *story.StartPageID, session.CurrentPageID)
	assert.Equal(t, models.SessionStatusInProgress, session.Status)
	assert.Empty(t, session.History)
	assert.Empty(t, session.Inventory)
	assert.False(t, session.IsPreview)
	m.assertExpectations(t)
}

func TestStartSession_StoryNotFound(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	storyID := uuid.New()

	m.stories.On("GetByID", ctx, nil, storyID).Return(nil, models.ErrStoryNotFound)

	_, err := svc.StartSession(ctx, storyID, uuid.New(), false)
	assert.ErrorIs(t, err, models.ErrStoryNotFound)
	m.assertExpectations(t)
}

func TestStartSession_UnpublishedStoryRejected(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	story := publishedStory(uuid.New())
	story.Status = models.StoryStatusDraft

	m.stories.On("GetByID", ctx, nil, story.ID).Return(story, nil)

	_, err := svc.StartSession(ctx, story.ID, uuid.New(), false)
	assert.ErrorIs(t, err, models.ErrStoryNotPublished)
	m.assertExpectations(t)
}

func TestStartSession_PreviewRequiresAuthor(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	story := publishedStory(uuid.New())
	story.Status = models.StoryStatusDraft

	m.stories.On("GetByID", ctx, nil, story.ID).Return(story, nil)

	_, err := svc.StartSession(ctx, story.ID, uuid.New(), true)
	assert.ErrorIs(t, err, models.ErrPreviewNotAuthor)
	m.assertExpectations(t)
}

func TestStartSession_PreviewByAuthorSkipsViewsAndEvents(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	authorID := uuid.New()
	story := publishedStory(authorID)
	story.Status = models.StoryStatusDraft

	m.stories.On("GetByID", ctx, nil, story.ID).Return(story, nil)
	m.tx.On("WithTx", ctx, mock.Anything).Return(nil)
	m.sessions.On("Create", ctx, nil, mock.AnythingOfType("*models.GameSession")).Return(nil)

	session, err := svc.StartSession(ctx, story.ID, authorID, true)
	require.NoError(t, err)
	assert.True(t, session.IsPreview)
	m.stories.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "PublishSessionEvent", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestStartSession_NoStartPage(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	story := publishedStory(uuid.New())
	story.StartPageID = nil

	m.stories.On("GetByID", ctx, nil, story.ID).Return(story, nil)

	_, err := svc.StartSession(ctx, story.ID, uuid.New(), false)
	assert.ErrorIs(t, err, models.ErrNoStartPage)
	m.assertExpectations(t)
}

func TestGetSession_OwnershipEnforced(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	owner := uuid.New()
	session := &models.GameSession{ID: uuid.New(), UserID: owner}

	m.sessions.On("GetByID", ctx, nil, session.ID).Return(session, nil)

	_, err := svc.GetSession(ctx, session.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotYourSession)

	got, err := svc.GetSession(ctx, session.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	m.assertExpectations(t)
}

func TestAbandonSession(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	owner := uuid.New()
	session := &models.GameSession{
		ID:     uuid.New(),
		UserID: owner,
		Status: models.SessionStatusInProgress,
	}

	m.sessions.On("GetByID", ctx, nil, session.ID).Return(session, nil)
	m.tx.On("WithTx", ctx, mock.Anything).Return(nil)
	m.sessions.On("Update", ctx, nil, mock.MatchedBy(func(s *models.GameSession) bool {
		return s.Status == models.SessionStatusAbandoned
	})).Return(nil)

	err := svc.AbandonSession(ctx, session.ID, owner)
	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestAbandonSession_AlreadyFinished(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	owner := uuid.New()
	now := time.Now()
	session := &models.GameSession{
		ID:          uuid.New(),
		UserID:      owner,
		Status:      models.SessionStatusCompleted,
		CompletedAt: &now,
	}

	m.sessions.On("GetByID", ctx, nil, session.ID).Return(session, nil)

	err := svc.AbandonSession(ctx, session.ID, owner)
	assert.ErrorIs(t, err, models.ErrSessionFinished)
	m.assertExpectations(t)
}

func TestGetCurrentPage_SelectableMask(t *testing.T) {
	svc, m := newTestGameService(t)
	ctx := context.Background()
	owner := uuid.New()
	pageID := uuid.New()
	target := uuid.New()
	session := &models.GameSession{
		ID:            uuid.New(),
		UserID:        owner,
		CurrentPageID: pageID,
		Inventory:     []string{"torch"},
		Status:        models.SessionStatusInProgress,
	}
	page := &models.Page{
		ID: pageID,
		Choices: []models.Choice{
			{Text: "Go north", TargetPageID: &target},
			{Text: "Unlock door", TargetPageID: &target, Condition: &models.ChoiceCondition{Type: models.ConditionHasItem, Value: "key"}},
			{Text: "Light the way", TargetPageID: &target, Condition: &models.ChoiceCondition{Type: models.ConditionHasItem, Value: "torch"}},
		},
	}

	m.sessions.On("GetByID", ctx, nil, session.ID).Return(session, nil)
	m.pages.On("GetByID", ctx, nil, pageID).Return(page, nil)

	got, selectable, err := svc.GetCurrentPage(ctx, session.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, pageID, got.ID)
	assert.Equal(t, []bool{true, false, true}, selectable)
	m.assertExpectations(t)
}

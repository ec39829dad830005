package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/middleware"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/service"
	serviceMocks "github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/service/mocks"
)

const testJWTSecret = "handler-test-secret"

type handlerFixture struct {
	echo  *echo.Echo
	game  *serviceMocks.GameService
	stats *serviceMocks.StatsService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	game := new(serviceMocks.GameService)
	stats := new(serviceMocks.StatsService)
	h := NewGameHandler(game, stats, zap.NewNop(), testJWTSecret)

	e := echo.New()
	e.Validator = NewCustomValidator()
	h.RegisterRoutes(e)
	return &handlerFixture{echo: e, game: game, stats: stats}
}

func (f *handlerFixture) do(t *testing.T, method, path string, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	token, err := middleware.GenerateTestJWT(userID, testJWTSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestStartSession_Created(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	storyID := uuid.New()
	session := &models.GameSession{
		ID:      uuid.New(),
		UserID:  userID,
		StoryID: storyID,
		Status:  models.SessionStatusInProgress,
	}

	f.game.On("StartSession", mock.Anything, storyID, userID, false).Return(session, nil)

	rec := f.do(t, http.MethodPost, "/game/"+storyID.String()+"/start", userID, `{}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got models.GameSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, session.ID, got.ID)
	f.game.AssertExpectations(t)
}

func TestStartSession_PreviewFlagForwarded(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	storyID := uuid.New()

	f.game.On("StartSession", mock.Anything, storyID, userID, true).
		Return(&models.GameSession{ID: uuid.New(), IsPreview: true}, nil)

	rec := f.do(t, http.MethodPost, "/game/"+storyID.String()+"/start", userID, `{"preview":true}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	f.game.AssertExpectations(t)
}

func TestStartSession_InvalidStoryID(t *testing.T) {
	f := newHandlerFixture(t)
	rec := f.do(t, http.MethodPost, "/game/not-a-uuid/start", uuid.New(), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartSession_NoToken(t *testing.T) {
	f := newHandlerFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/game/"+uuid.NewString()+"/start", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMakeChoice_OK(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	sessionID := uuid.New()
	session := &models.GameSession{ID: sessionID, Status: models.SessionStatusInProgress}

	f.game.On("Advance", mock.Anything, sessionID, userID,
		mock.MatchedBy(func(sel service.AdvanceSelector) bool {
			return sel.ChoiceIndex != nil && *sel.ChoiceIndex == 1 && sel.HotspotIndex == nil
		}), (*bool)(nil)).Return(session, nil)

	rec := f.do(t, http.MethodPost, "/game/sessions/"+sessionID.String()+"/choice", userID, `{"choiceIndex":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	f.game.AssertExpectations(t)
}

func TestMakeChoice_DiceOutcomeForwarded(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	sessionID := uuid.New()

	f.game.On("Advance", mock.Anything, sessionID, userID, mock.Anything,
		mock.MatchedBy(func(outcome *bool) bool { return outcome != nil && *outcome })).
		Return(&models.GameSession{ID: sessionID}, nil)

	rec := f.do(t, http.MethodPost, "/game/sessions/"+sessionID.String()+"/choice", userID,
		`{"choiceIndex":0,"diceRollSuccess":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	f.game.AssertExpectations(t)
}

func TestMakeChoice_NegativeIndexRejectedByValidator(t *testing.T) {
	f := newHandlerFixture(t)
	rec := f.do(t, http.MethodPost, "/game/sessions/"+uuid.NewString()+"/choice", uuid.New(), `{"choiceIndex":-2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.game.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"story not found", models.ErrStoryNotFound, http.StatusNotFound},
		{"session not found", models.ErrSessionNotFound, http.StatusNotFound},
		{"not your session", models.ErrNotYourSession, http.StatusForbidden},
		{"story not published", models.ErrStoryNotPublished, http.StatusForbidden},
		{"preview not author", models.ErrPreviewNotAuthor, http.StatusForbidden},
		{"invalid choice index", models.ErrInvalidChoiceIndex, http.StatusBadRequest},
		{"invalid hotspot index", models.ErrInvalidHotspotIndex, http.StatusBadRequest},
		{"missing dice outcome", models.ErrMissingDiceOutcome, http.StatusUnprocessableEntity},
		{"choice locked", models.ErrChoiceLocked, http.StatusUnprocessableEntity},
		{"no start page", models.ErrNoStartPage, http.StatusUnprocessableEntity},
		{"target unavailable", models.ErrTargetUnavailable, http.StatusUnprocessableEntity},
		{"session finished", models.ErrSessionFinished, http.StatusConflict},
		{"unknown error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			userID := uuid.New()
			sessionID := uuid.New()

			f.game.On("Advance", mock.Anything, sessionID, userID, mock.Anything, mock.Anything).
				Return(nil, tc.err)

			rec := f.do(t, http.MethodPost, "/game/sessions/"+sessionID.String()+"/choice", userID, `{"choiceIndex":0}`)
			assert.Equal(t, tc.expected, rec.Code)

			var apiErr APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestGetSession_OK(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	session := &models.GameSession{ID: uuid.New(), UserID: userID}

	f.game.On("GetSession", mock.Anything, session.ID, userID).Return(session, nil)

	rec := f.do(t, http.MethodGet, "/game/sessions/"+session.ID.String(), userID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	f.game.AssertExpectations(t)
}

func TestGetCurrentPage_LockedChoicesMarked(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	sessionID := uuid.New()
	target := uuid.New()
	page := &models.Page{
		ID:      uuid.New(),
		Content: "A locked door",
		Choices: []models.Choice{
			{Text: "Walk away", TargetPageID: &target},
			{Text: "Use the key", TargetPageID: &target},
		},
	}

	f.game.On("GetCurrentPage", mock.Anything, sessionID, userID).Return(page, []bool{true, false}, nil)

	rec := f.do(t, http.MethodGet, "/game/sessions/"+sessionID.String()+"/page", userID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got CurrentPageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Choices, 2)
	assert.False(t, got.Choices[0].Locked)
	assert.True(t, got.Choices[1].Locked)
	f.game.AssertExpectations(t)
}

func TestAbandonSession_NoContent(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	sessionID := uuid.New()

	f.game.On("AbandonSession", mock.Anything, sessionID, userID).Return(nil)

	rec := f.do(t, http.MethodPost, "/game/sessions/"+sessionID.String()+"/abandon", userID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.game.AssertExpectations(t)
}

func TestListSessions_EmptyArrayNotNull(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()

	f.game.On("ListSessions", mock.Anything, userID).Return(nil, nil)

	rec := f.do(t, http.MethodGet, "/game/sessions", userID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGetPathStats_OK(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	sessionID := uuid.New()
	stats := &models.PathStats{SessionID: sessionID, SamePathCount: 2, SamePathPercentage: 40}

	f.stats.On("GetPathStats", mock.Anything, sessionID, userID).Return(stats, nil)

	rec := f.do(t, http.MethodGet, "/game/sessions/"+sessionID.String()+"/stats", userID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	f.stats.AssertExpectations(t)
}

func TestGetStoryStats_ForbiddenForNonAuthor(t *testing.T) {
	f := newHandlerFixture(t)
	userID := uuid.New()
	storyID := uuid.New()

	f.stats.On("GetStoryStats", mock.Anything, storyID, userID).Return(nil, models.ErrForbidden)

	rec := f.do(t, http.MethodGet, "/game/stories/"+storyID.String()+"/stats", userID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.stats.AssertExpectations(t)
}

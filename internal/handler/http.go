package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/middleware"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/service"
)

// GameHandler serves the play-time HTTP API.
type GameHandler struct {
	game      service.GameService
	stats     service.StatsService
	logger    *zap.Logger
	jwtSecret string
}

func NewGameHandler(game service.GameService, stats service.StatsService, logger *zap.Logger, jwtSecret string) *GameHandler {
	return &GameHandler{
		game:      game,
		stats:     stats,
		logger:    logger.Named("GameHandler"),
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes mounts the game API under /game. Everything requires a
// valid user token.
func (h *GameHandler) RegisterRoutes(e *echo.Echo) {
	authMiddleware := middleware.JWTAuthMiddleware(h.jwtSecret)

	gameGroup := e.Group("/game", authMiddleware)
	{
		gameGroup.POST("/:storyId/start", h.startSession)
		gameGroup.GET("/sessions", h.listSessions)
		gameGroup.GET("/sessions/:id", h.getSession)
		gameGroup.GET("/sessions/:id/page", h.getCurrentPage)
		gameGroup.POST("/sessions/:id/choice", h.makeChoice)
		gameGroup.POST("/sessions/:id/abandon", h.abandonSession)
		gameGroup.GET("/sessions/:id/stats", h.getPathStats)
		gameGroup.GET("/stories/:id/session", h.getActiveSession)
		gameGroup.GET("/stories/:id/stats", h.getStoryStats)
	}
}

func handleServiceError(c echo.Context, err error) error {
	var statusCode int
	var apiErr APIError

	switch {
	case errors.Is(err, models.ErrStoryNotFound),
		errors.Is(err, models.ErrPageNotFound),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrNotYourSession),
		errors.Is(err, models.ErrPreviewNotAuthor),
		errors.Is(err, models.ErrStoryNotPublished),
		errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrInvalidChoiceIndex),
		errors.Is(err, models.ErrInvalidHotspotIndex),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrMissingDiceOutcome),
		errors.Is(err, models.ErrChoiceLocked),
		errors.Is(err, models.ErrNoStartPage),
		errors.Is(err, models.ErrTargetUnavailable),
		errors.Is(err, models.ErrCurrentPageMissing):
		statusCode = http.StatusUnprocessableEntity
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrSessionFinished):
		statusCode = http.StatusConflict
		apiErr = APIError{Message: err.Error()}
	default:
		statusCode = http.StatusInternalServerError
		apiErr = APIError{Message: "Internal server error"}
	}
	return c.JSON(statusCode, apiErr)
}

// pathUUID parses a path parameter as a UUID.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" format")
	}
	return id, nil
}

func (h *GameHandler) startSession(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}
	storyID, err := pathUUID(c, "storyId")
	if err != nil {
		return err
	}

	var req StartGameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
	}

	session, err := h.game.StartSession(c.Request().Context(), storyID, userID, req.Preview)
	if err != nil {
		if !errors.Is(err, models.ErrStoryNotFound) {
			h.logger.Error("Error starting session",
				zap.String("storyID", storyID.String()),
				zap.String("userID", userID.String()),
				zap.Error(err),
			)
		}
		return handleServiceError(c, err)
	}

	mode := "play"
	if req.Preview {
		mode = "preview"
	}
	sessionsStartedTotal.WithLabelValues(mode).Inc()

	return c.JSON(http.StatusCreated, session)
}

func (h *GameHandler) makeChoice(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req MakeChoiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	selector := service.AdvanceSelector{ChoiceIndex: req.ChoiceIndex, HotspotIndex: req.HotspotIndex}
	session, err := h.game.Advance(c.Request().Context(), sessionID, userID, selector, req.DiceRollSuccess)
	if err != nil {
		return handleServiceError(c, err)
	}

	kind := "choice"
	if req.HotspotIndex != nil {
		kind = "hotspot"
	}
	choicesMadeTotal.WithLabelValues(kind).Inc()
	if session.Status == models.SessionStatusCompleted {
		sessionsCompletedTotal.Inc()
	}

	return c.JSON(http.StatusOK, session)
}

func (h *GameHandler) abandonSession(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.game.AbandonSession(c.Request().Context(), sessionID, userID); err != nil {
		return handleServiceError(c, err)
	}
	sessionsAbandonedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

func (h *GameHandler) getSession(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	session, err := h.game.GetSession(c.Request().Context(), sessionID, userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *GameHandler) getCurrentPage(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	page, selectable, err := h.game.GetCurrentPage(c.Request().Context(), sessionID, userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, newCurrentPageResponse(page, selectable))
}

func (h *GameHandler) listSessions(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}

	sessions, err := h.game.ListSessions(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Error listing sessions", zap.String("userID", userID.String()), zap.Error(err))
		return handleServiceError(c, err)
	}
	if sessions == nil {
		sessions = []models.GameSession{}
	}
	return c.JSON(http.StatusOK, sessions)
}

func (h *GameHandler) getActiveSession(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}
	storyID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	session, err := h.game.GetActiveSessionByStory(c.Request().Context(), storyID, userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *GameHandler) getPathStats(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.stats.GetPathStats(c.Request().Context(), sessionID, userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *GameHandler) getStoryStats(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return err
	}
	storyID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.stats.GetStoryStats(c.Request().Context(), storyID, userID)
	if err != nil {
		if !errors.Is(err, models.ErrStoryNotFound) && !errors.Is(err, models.ErrForbidden) {
			h.logger.Error("Error building story stats", zap.String("storyID", storyID.String()), zap.Error(err))
		}
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

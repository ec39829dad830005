package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func runAuthRequest(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uuid.UUID) {
	t.Helper()
	e := echo.New()
	var capturedUserID uuid.UUID
	handler := JWTAuthMiddleware(testSecret)(func(c echo.Context) error {
		capturedUserID, _ = UserIDFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, capturedUserID
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateTestJWT(userID, testSecret, time.Hour)
	require.NoError(t, err)

	rec, gotUserID := runAuthRequest(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	rec, _ := runAuthRequest(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	rec, _ := runAuthRequest(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	token, err := GenerateTestJWT(uuid.New(), testSecret, -time.Minute)
	require.NoError(t, err)

	rec, _ := runAuthRequest(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_WrongSecret(t *testing.T) {
	token, err := GenerateTestJWT(uuid.New(), "another-secret", time.Hour)
	require.NoError(t, err)

	rec, _ := runAuthRequest(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_NilUserID(t *testing.T) {
	token, err := GenerateTestJWT(uuid.Nil, testSecret, time.Hour)
	require.NoError(t, err)

	rec, _ := runAuthRequest(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umroh-system/pkg/config"
	"umroh-system/pkg/service"
)

func runAuth(t *testing.T, mw *AuthMiddleware, authHeader string) (*httptest.ResponseRecorder, AuthContext, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured AuthContext
	var reached bool
	handler := mw.Auth(func(c echo.Context) error {
		captured, reached = FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, captured, reached
}

func TestAuthWithValidToken(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	mw := NewAuthMiddleware(jwtSvc, config.AuthConfig{}, zap.NewNop())

	access, _, err := jwtSvc.GenerateTokens(42, "Budi Santoso", "Staff")
	require.NoError(t, err)

	rec, ac, reached := runAuth(t, mw, "Bearer "+access)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, reached)
	assert.Equal(t, 42, ac.UserID)
	assert.Equal(t, "Budi Santoso", ac.FullName)
	assert.Equal(t, "Staff", ac.Role)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	mw := NewAuthMiddleware(jwtSvc, config.AuthConfig{}, zap.NewNop())

	rec, _, reached := runAuth(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthRejectsRefreshTokenAsAccess(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	mw := NewAuthMiddleware(jwtSvc, config.AuthConfig{}, zap.NewNop())

	_, refresh, err := jwtSvc.GenerateTokens(42, "Budi Santoso", "Staff")
	require.NoError(t, err)

	rec, _, reached := runAuth(t, mw, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthDevModeInjectsPrincipal(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	mw := NewAuthMiddleware(jwtSvc, config.AuthConfig{
		DevMode:     true,
		DevUserID:   1,
		DevUserName: "Developer",
	}, zap.NewNop())

	rec, ac, reached := runAuth(t, mw, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, reached)
	assert.Equal(t, 1, ac.UserID)
	assert.Equal(t, "Developer", ac.FullName)
	assert.Equal(t, "Admin", ac.Role)
}

package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"umroh-system/pkg/config"
	"umroh-system/pkg/contextkeys"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/service"
	"umroh-system/pkg/utils"
)

// AuthContext is the authenticated principal attached to every request.
// Production requests get it from a validated JWT; development wiring
// substitutes the configured principal. There is no hardcoded bypass in
// the routing table.
type AuthContext struct {
	UserID   int
	FullName string
	Role     string
}

// FromContext extracts the AuthContext placed by the middleware.
func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextkeys.AuthContextKey).(AuthContext)
	return ac, ok
}

// UserIDFromContext returns the authenticated user id, or 0 when absent.
func UserIDFromContext(ctx context.Context) int {
	ac, _ := FromContext(ctx)
	return ac.UserID
}

type AuthMiddleware struct {
	jwtService service.JWTService
	cfg        config.AuthConfig
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, cfg config.AuthConfig, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		cfg:        cfg,
		logger:     logger,
	}
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.cfg.DevMode {
			return m.withAuthContext(c, next, AuthContext{
				UserID:   m.cfg.DevUserID,
				FullName: m.cfg.DevUserName,
				Role:     "Admin",
			})
		}

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		return m.withAuthContext(c, next, AuthContext{
			UserID:   claims.UserID,
			FullName: claims.FullName,
			Role:     claims.Role,
		})
	}
}

func (m *AuthMiddleware) withAuthContext(c echo.Context, next echo.HandlerFunc, ac AuthContext) error {
	ctx := context.WithValue(c.Request().Context(), contextkeys.AuthContextKey, ac)
	c.SetRequest(c.Request().WithContext(ctx))
	return next(c)
}

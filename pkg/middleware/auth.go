package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

// SessionCookie - cookie, которую выставляет вход через браузер
const SessionCookie = "session_token"

type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) (*services.Session, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	sessions   SessionValidator
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, sessions SessionValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		sessions:   sessions,
		logger:     logger,
	}
}

// ExtractToken - токен из заголовка "Bearer <token>" или из cookie
func ExtractToken(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", apperrors.ErrInvalidAuthHeader
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", apperrors.ErrUnauthorized
}

// Auth проверяет токен, затем сессию в Redis. Каждый успешный запрос продлевает сессию.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := ExtractToken(c)
		if err != nil {
			m.logger.Debug("AuthMiddleware: токен не передан", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := c.Request().Context()
		session, err := m.sessions.ValidateSession(ctx, claims.SessionID)
		if err != nil {
			m.logger.Info("AuthMiddleware: сессия недействительна", zap.String("session_id", claims.SessionID), zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx = context.WithValue(ctx, contextkeys.SessionIDKey, session.ID)
		ctx = context.WithValue(ctx, contextkeys.UsernameKey, session.Username)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

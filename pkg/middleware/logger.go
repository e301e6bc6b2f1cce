package middleware

import (
	"encoding/json"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/pkg/contextkeys"
	"inventory-system/pkg/utils"
)

// InjectLogger кладёт логгер в контекст echo
func InjectLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("logger", logger)
			return next(c)
		}
	}
}

type actorInfo struct {
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Host      string    `json:"host"`
	Username  string    `json:"username,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Actor собирает сведения о клиенте для журнала аудита.
// Должен стоять после Auth, чтобы в запись попало имя пользователя.
func Actor(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			info := actorInfo{
				IP:        c.RealIP(),
				UserAgent: req.UserAgent(),
				Host:      req.Host,
				Timestamp: time.Now().UTC(),
			}
			if username, ok := req.Context().Value(contextkeys.UsernameKey).(string); ok {
				info.Username = username
			}

			raw, err := json.Marshal(info)
			if err != nil {
				logger.Warn("Не удалось сериализовать данные клиента", zap.Error(err))
				return next(c)
			}
			c.SetRequest(req.WithContext(utils.WithActor(req.Context(), string(raw))))
			return next(c)
		}
	}
}

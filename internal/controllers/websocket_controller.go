package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appwebsocket "inventory-system/pkg/websocket"
)

// LiveFeedController отдаёт живую ленту выдач и возвратов.
// Маршрут стоит за AuthMiddleware: браузер передаёт сессионную cookie при handshake.
type LiveFeedController struct {
	hub      *appwebsocket.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewLiveFeedController(hub *appwebsocket.Hub, allowedOrigins []string, logger *zap.Logger) *LiveFeedController {
	return &LiveFeedController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// originChecker: без заголовка Origin (не браузер) и с "*" в списке пропускаем
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin] || origin == "http://"+r.Host || origin == "https://"+r.Host
	}
}

func (c *LiveFeedController) ServeWs(ctx echo.Context) error {
	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Upgrade уже ответил клиенту 4xx
		c.logger.Warn("WebSocket: не удалось установить соединение", zap.Error(err))
		return nil
	}
	c.hub.Serve(conn)
	c.logger.Info("WebSocket: клиент подключен", zap.String("remote", ctx.RealIP()))
	return nil
}

package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	appwebsocket "inventory-system/pkg/websocket"
)

func runLiveFeedRouter(secureGroup *echo.Group, hub *appwebsocket.Hub, allowedOrigins []string, logger *zap.Logger) {
	ctrl := controllers.NewLiveFeedController(hub, allowedOrigins, logger)
	secureGroup.GET("/live", ctrl.ServeWs)
}

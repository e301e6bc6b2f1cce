package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runLogRouter(secureGroup *echo.Group, logService services.LogServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewLogController(logService, logger)

	logs := secureGroup.Group("/logs")
	logs.GET("", ctrl.GetLogs)
	logs.GET("/statistics", ctrl.GetStatistics)
	logs.GET("/export", ctrl.Export)
}

package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runAccessoryRouter(secureGroup *echo.Group, accessoryService services.AccessoryServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewAccessoryController(accessoryService, logger)

	accessories := secureGroup.Group("/accessories")
	accessories.GET("/stats/types", ctrl.GetTypeStats)
	accessories.GET("/:id", ctrl.FindAccessory)
	accessories.PUT("/:id", ctrl.UpdateAccessory)
	accessories.DELETE("/:id", ctrl.DeleteAccessory)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runStatusRouter(api *echo.Group, statusCtrl *controllers.StatusController) {
	api.GET("/status", statusCtrl.GetStatus)
}

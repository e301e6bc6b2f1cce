package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runEquipmentRouter(
	secureGroup *echo.Group,
	equipmentService services.EquipmentServiceInterface,
	accessoryService services.AccessoryServiceInterface,
	importer services.EquipmentImporterInterface,
	logger *zap.Logger,
) {
	ctrl := controllers.NewEquipmentController(equipmentService, accessoryService, logger)
	importCtrl := controllers.NewImportController(importer, logger)

	equipment := secureGroup.Group("/equipment")
	equipment.GET("", ctrl.GetEquipments)
	equipment.GET("/category/:category", ctrl.GetByCategory)
	equipment.GET("/status/:status", ctrl.GetByStatus)
	equipment.GET("/available/list", ctrl.GetAvailable)
	equipment.GET("/stats/categories", ctrl.GetCategoryStats)
	equipment.GET("/stats/statuses", ctrl.GetStatusStats)
	equipment.GET("/meta/categories", ctrl.GetCatalog)
	equipment.GET("/:id", ctrl.FindEquipment)
	equipment.POST("", ctrl.CreateEquipment)
	equipment.POST("/import", importCtrl.ImportEquipment)
	equipment.PUT("/:id", ctrl.UpdateEquipment)
	equipment.PATCH("/:id/status", ctrl.UpdateStatus)
	equipment.DELETE("/:id", ctrl.DeleteEquipment)

	equipment.GET("/:id/accessories", ctrl.GetAccessories)
	equipment.POST("/:id/accessories", ctrl.AddAccessory)
	equipment.POST("/:id/accessories/bulk", ctrl.ReplaceAccessories)
}

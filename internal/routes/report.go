package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runReportRouter(secureGroup *echo.Group, reportService services.ReportServiceInterface, logger *zap.Logger) {
	reportController := controllers.NewReportController(reportService, logger)

	reports := secureGroup.Group("/reports")
	reports.GET("/employees", reportController.EmployeesReport)
	reports.GET("/equipment", reportController.EquipmentReport)
	reports.GET("/assignments", reportController.AssignmentsReport)
}

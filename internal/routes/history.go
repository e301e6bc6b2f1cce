package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runHistoryRouter(
	secureGroup *echo.Group,
	auditService services.AuditServiceInterface,
	assignmentService services.AssignmentServiceInterface,
	retentionDays int,
	logger *zap.Logger,
) {
	ctrl := controllers.NewHistoryController(auditService, assignmentService, retentionDays, logger)

	history := secureGroup.Group("/history")
	history.GET("/system", ctrl.GetSystemHistory)
	history.GET("/table/:table", ctrl.GetTableHistory)
	history.GET("/date-range", ctrl.GetByDateRange)
	history.GET("/action/:action", ctrl.GetByAction)
	history.GET("/equipment/:id", ctrl.GetEquipmentHistory)
	history.GET("/employee/:id", ctrl.GetEmployeeHistory)
	history.GET("/stats/audit", ctrl.GetAuditStats)
	history.GET("/stats/tables", ctrl.GetTableStats)
	history.DELETE("/cleanup", ctrl.CleanOldLogs)
}

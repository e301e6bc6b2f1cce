package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runAssignmentRouter(secureGroup *echo.Group, assignmentService services.AssignmentServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewAssignmentController(assignmentService, logger)

	assignments := secureGroup.Group("/assignments")
	assignments.GET("", ctrl.GetAssignments)
	assignments.GET("/active/list", ctrl.GetActiveAssignments)
	assignments.GET("/stats/overview", ctrl.GetStats)
	assignments.GET("/employee/:id", ctrl.GetByEmployee)
	assignments.GET("/equipment/:id", ctrl.GetByEquipment)
	assignments.GET("/:id", ctrl.FindAssignment)
	assignments.POST("", ctrl.CreateAssignment)
	assignments.POST("/:id/return", ctrl.ReturnAssignment)
	assignments.PUT("/:id", ctrl.UpdateAssignment)
}

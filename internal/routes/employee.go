package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runEmployeeRouter(secureGroup *echo.Group, employeeService services.EmployeeServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewEmployeeController(employeeService, logger)

	employees := secureGroup.Group("/employees")
	employees.GET("", ctrl.GetEmployees)
	employees.GET("/stats/departments", ctrl.GetDepartmentStats)
	employees.GET("/:id", ctrl.FindEmployee)
	employees.POST("", ctrl.CreateEmployee)
	employees.PUT("/:id", ctrl.UpdateEmployee)
	employees.DELETE("/:id", ctrl.DeleteEmployee)
}

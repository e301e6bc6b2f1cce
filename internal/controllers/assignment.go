package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type AssignmentController struct {
	assignmentService services.AssignmentServiceInterface
	logger            *zap.Logger
}

func NewAssignmentController(service services.AssignmentServiceInterface, logger *zap.Logger) *AssignmentController {
	return &AssignmentController{assignmentService: service, logger: logger}
}

func (c *AssignmentController) GetAssignments(ctx echo.Context) error {
	res, err := c.assignmentService.GetAssignments(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Zimmet listesi getirildi.", http.StatusOK)
}

func (c *AssignmentController) GetActiveAssignments(ctx echo.Context) error {
	res, err := c.assignmentService.GetActiveAssignments(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Aktif zimmetler getirildi.", http.StatusOK)
}

func (c *AssignmentController) GetByEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assignmentService.GetByEmployee(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Çalışanın zimmetleri getirildi.", http.StatusOK)
}

func (c *AssignmentController) GetByEquipment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assignmentService.GetByEquipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Donanımın zimmet geçmişi getirildi.", http.StatusOK)
}

func (c *AssignmentController) FindAssignment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assignmentService.FindAssignment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Zimmet bulundu.", http.StatusOK)
}

func (c *AssignmentController) CreateAssignment(ctx echo.Context) error {
	var payload dto.CreateAssignmentDTO
	if err := bindAndValidate(ctx, &payload, c.logger, "CreateAssignment"); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assignmentService.CreateAssignment(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Zimmet başarıyla oluşturuldu.", http.StatusCreated)
}

func (c *AssignmentController) ReturnAssignment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ReturnAssignmentDTO
	if err := bindAndValidate(ctx, &payload, c.logger, "ReturnAssignment"); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assignmentService.ReturnAssignment(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Donanım başarıyla iade alındı.", http.StatusOK)
}

func (c *AssignmentController) UpdateAssignment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateAssignmentDTO
	if err := bindAndValidate(ctx, &payload, c.logger, "UpdateAssignment"); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assignmentService.UpdateAssignment(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Zimmet notları güncellendi.", http.StatusOK)
}

func (c *AssignmentController) GetStats(ctx echo.Context) error {
	res, err := c.assignmentService.GetStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Zimmet istatistikleri getirildi.", http.StatusOK)
}

package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type HistoryController struct {
	auditService      services.AuditServiceInterface
	assignmentService services.AssignmentServiceInterface
	retentionDays     int
	logger            *zap.Logger
}

func NewHistoryController(
	auditService services.AuditServiceInterface,
	assignmentService services.AssignmentServiceInterface,
	retentionDays int,
	logger *zap.Logger,
) *HistoryController {
	return &HistoryController{
		auditService:      auditService,
		assignmentService: assignmentService,
		retentionDays:     retentionDays,
		logger:            logger,
	}
}

type recordHistory struct {
	Changes     []dto.AuditLogDTO     `json:"changes"`
	Assignments []entities.Assignment `json:"assignments"`
}

func (c *HistoryController) GetSystemHistory(ctx echo.Context) error {
	res, err := c.auditService.GetSystemHistory(ctx.Request().Context(), queryInt(ctx, "limit"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Sistem geçmişi getirildi.", http.StatusOK)
}

func (c *HistoryController) GetTableHistory(ctx echo.Context) error {
	recordID, err := queryID(ctx, "recordId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.auditService.GetTableHistory(ctx.Request().Context(), ctx.Param("table"), recordID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Tablo geçmişi getirildi.", http.StatusOK)
}

func (c *HistoryController) GetByDateRange(ctx echo.Context) error {
	res, err := c.auditService.GetByDateRange(ctx.Request().Context(), ctx.QueryParam("startDate"), ctx.QueryParam("endDate"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Tarih aralığındaki geçmiş getirildi.", http.StatusOK)
}

func (c *HistoryController) GetByAction(ctx echo.Context) error {
	res, err := c.auditService.GetByAction(ctx.Request().Context(), ctx.Param("action"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "İşlem geçmişi getirildi.", http.StatusOK)
}

func (c *HistoryController) recordHistory(ctx echo.Context, table string, assignments func(uint64) ([]entities.Assignment, error)) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	changes, err := c.auditService.GetTableHistory(ctx.Request().Context(), table, &id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	list, err := assignments(id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, recordHistory{Changes: changes, Assignments: list}, "Kayıt geçmişi getirildi.", http.StatusOK)
}

func (c *HistoryController) GetEquipmentHistory(ctx echo.Context) error {
	return c.recordHistory(ctx, entities.EquipmentTable.Name, func(id uint64) ([]entities.Assignment, error) {
		return c.assignmentService.GetByEquipment(ctx.Request().Context(), id)
	})
}

func (c *HistoryController) GetEmployeeHistory(ctx echo.Context) error {
	return c.recordHistory(ctx, entities.EmployeesTable.Name, func(id uint64) ([]entities.Assignment, error) {
		return c.assignmentService.GetByEmployee(ctx.Request().Context(), id)
	})
}

func (c *HistoryController) GetAuditStats(ctx echo.Context) error {
	res, err := c.auditService.GetStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Denetim istatistikleri getirildi.", http.StatusOK)
}

func (c *HistoryController) GetTableStats(ctx echo.Context) error {
	res, err := c.auditService.GetTableStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Tablo istatistikleri getirildi.", http.StatusOK)
}

// CleanOldLogs: daysToKeep из тела, из query или из настроек
func (c *HistoryController) CleanOldLogs(ctx echo.Context) error {
	var payload dto.CleanupDTO
	if err := bindAndValidate(ctx, &payload, c.logger, "CleanOldLogs"); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if payload.DaysToKeep == 0 {
		payload.DaysToKeep = queryInt(ctx, "daysToKeep")
	}
	if payload.DaysToKeep == 0 {
		payload.DaysToKeep = c.retentionDays
	}

	deleted, err := c.auditService.CleanOldLogs(ctx.Request().Context(), payload.DaysToKeep)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res := dto.CleanupResultDTO{Deleted: deleted, DaysToKeep: payload.DaysToKeep}
	return utils.SuccessResponse(ctx, res, "Eski kayıtlar temizlendi.", http.StatusOK)
}

package controllers

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) respond(ctx echo.Context, build func(context.Context) (*dto.ReportFile, error)) error {
	file, err := build(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Info("Отчёт сформирован", zap.String("file", file.FileName), zap.Int("bytes", len(file.Content)))
	return sendFile(ctx, file)
}

func (c *ReportController) EmployeesReport(ctx echo.Context) error {
	return c.respond(ctx, c.reportService.EmployeesReport)
}

func (c *ReportController) EquipmentReport(ctx echo.Context) error {
	return c.respond(ctx, c.reportService.EquipmentReport)
}

func (c *ReportController) AssignmentsReport(ctx echo.Context) error {
	return c.respond(ctx, c.reportService.AssignmentsReport)
}

package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type LogController struct {
	logService services.LogServiceInterface
	logger     *zap.Logger
}

func NewLogController(logService services.LogServiceInterface, logger *zap.Logger) *LogController {
	return &LogController{logService: logService, logger: logger}
}

func (c *LogController) GetLogs(ctx echo.Context) error {
	query := dto.LogQueryDTO{
		Type:  ctx.QueryParam("type"),
		Date:  ctx.QueryParam("date"),
		Page:  queryInt(ctx, "page"),
		Limit: queryInt(ctx, "limit"),
	}

	res, err := c.logService.GetLogs(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Loglar getirildi.", http.StatusOK)
}

func (c *LogController) GetStatistics(ctx echo.Context) error {
	res, err := c.logService.GetStatistics(ctx.Request().Context(), ctx.QueryParam("period"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Log istatistikleri getirildi.", http.StatusOK)
}

func (c *LogController) Export(ctx echo.Context) error {
	file, err := c.logService.Export(ctx.Request().Context(), ctx.QueryParam("type"), ctx.QueryParam("date"), ctx.QueryParam("format"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return sendFile(ctx, file)
}

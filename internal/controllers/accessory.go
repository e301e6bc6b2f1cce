package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type AccessoryController struct {
	accessoryService services.AccessoryServiceInterface
	logger           *zap.Logger
}

func NewAccessoryController(service services.AccessoryServiceInterface, logger *zap.Logger) *AccessoryController {
	return &AccessoryController{accessoryService: service, logger: logger}
}

func (c *AccessoryController) FindAccessory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.accessoryService.FindAccessory(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Aksesuar bulundu.", http.StatusOK)
}

func (c *AccessoryController) UpdateAccessory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateAccessoryDTO
	if err := bindAndValidate(ctx, &payload, c.logger, "UpdateAccessory"); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.accessoryService.UpdateAccessory(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Aksesuar başarıyla güncellendi.", http.StatusOK)
}

func (c *AccessoryController) DeleteAccessory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.accessoryService.DeleteAccessory(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Aksesuar başarıyla silindi.", http.StatusOK)
}

func (c *AccessoryController) GetTypeStats(ctx echo.Context) error {
	res, err := c.accessoryService.GetTypeStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Aksesuar istatistikleri getirildi.", http.StatusOK)
}

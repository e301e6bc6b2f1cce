package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
	"inventory-system/pkg/validation"
)

type ImportController struct {
	importer services.EquipmentImporterInterface
	logger   *zap.Logger
}

func NewImportController(importer services.EquipmentImporterInterface, logger *zap.Logger) *ImportController {
	return &ImportController{importer: importer, logger: logger}
}

// ImportEquipment принимает multipart-поле "file" с листом оборудования
func (ctrl *ImportController) ImportEquipment(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, "Dosya gönderilmedi.", apperrors.ErrBadRequest, nil),
			ctrl.logger,
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Dosya işlenemedi.", err, nil),
			ctrl.logger,
		)
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, validation.EquipmentImport); err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, err.Error(), apperrors.ErrBadRequest, nil),
			ctrl.logger,
		)
	}

	res, err := ctrl.importer.Import(c.Request().Context(), src)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctrl.logger.Info("Файл импорта обработан", zap.String("file", fileHeader.Filename), zap.Int("created", res.Created), zap.Int("failed", res.Failed))
	return utils.SuccessResponse(c, res, "İçe aktarma tamamlandı.", http.StatusOK)
}

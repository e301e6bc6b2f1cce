package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	apperrors "inventory-system/pkg/errors"
)

// bindAndValidate - разбор тела запроса и проверка тегов validate
func bindAndValidate(ctx echo.Context, payload interface{}, logger *zap.Logger, op string) error {
	if err := ctx.Bind(payload); err != nil {
		logger.Warn(op+": ошибка привязки данных", zap.Error(err))
		return apperrors.NewHttpError(http.StatusBadRequest, "İstek gövdesi geçersiz.", err, nil)
	}
	if err := ctx.Validate(payload); err != nil {
		logger.Info(op+": ошибка валидации данных", zap.Error(err))
		return err
	}
	return nil
}

// pathParam - параметр пути с раскодированием (категории содержат пробелы)
func pathParam(ctx echo.Context, name string) string {
	raw := ctx.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func queryInt(ctx echo.Context, name string) int {
	v, err := strconv.Atoi(ctx.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

// queryID - необязательный числовой query-параметр
func queryID(ctx echo.Context, name string) (*uint64, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Geçersiz ID.", err, map[string]string{name: raw})
	}
	return &id, nil
}

// sendFile отдаёт сформированный файл как вложение
func sendFile(ctx echo.Context, file *dto.ReportFile) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.FileName+`"`)
	return ctx.Blob(http.StatusOK, file.ContentType, file.Content)
}

package services

import (
	"strings"

	"go.uber.org/zap"

	apperrors "inventory-system/pkg/errors"
)

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// logServiceError - ожидаемые отказы (404/409/400) пишутся как Warn, остальное Error
func logServiceError(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if apperrors.IsExpected(err) {
		logger.Warn(msg, fields...)
		return
	}
	logger.Error(msg, fields...)
}

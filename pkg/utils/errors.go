package utils

import (
	"net/http"

	apperrors "inventory-system/pkg/errors"
)

// ErrorList - соответствие видов ошибок HTTP-кодам
var ErrorList = map[error]int{
	apperrors.ErrNotFound:           http.StatusNotFound,
	apperrors.ErrConflict:           http.StatusConflict,
	apperrors.ErrValidation:         http.StatusBadRequest,
	apperrors.ErrBadRequest:         http.StatusBadRequest,
	apperrors.ErrUnauthorized:       http.StatusUnauthorized,
	apperrors.ErrInvalidToken:       http.StatusUnauthorized,
	apperrors.ErrTokenExpired:       http.StatusUnauthorized,
	apperrors.ErrSessionExpired:     http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:  http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials: http.StatusUnauthorized,
	apperrors.ErrTooManyRequests:    http.StatusTooManyRequests,
}

var ErrorMessages = map[error]string{
	apperrors.ErrNotFound:           "Kayıt bulunamadı.",
	apperrors.ErrConflict:           "İşlem mevcut kayıtlarla çakışıyor.",
	apperrors.ErrValidation:         "Geçersiz veri.",
	apperrors.ErrBadRequest:         "Geçersiz istek.",
	apperrors.ErrUnauthorized:       "Bu işlem için giriş yapmanız gerekiyor.",
	apperrors.ErrInvalidToken:       "Oturum geçersiz. Lütfen tekrar giriş yapın.",
	apperrors.ErrTokenExpired:       "Oturum süresi doldu. Lütfen tekrar giriş yapın.",
	apperrors.ErrSessionExpired:     "Oturum süresi doldu. Lütfen tekrar giriş yapın.",
	apperrors.ErrInvalidAuthHeader:  "Geçersiz yetkilendirme başlığı.",
	apperrors.ErrInvalidCredentials: "Kullanıcı adı veya şifre hatalı.",
	apperrors.ErrTooManyRequests:    "Çok fazla başarısız deneme. Lütfen daha sonra tekrar deneyin.",
	apperrors.ErrInternalServer:     "Sunucu hatası. Lütfen daha sonra tekrar deneyin.",
}

package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT и сессии
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrSessionExpired       = fmt.Errorf("сессия истекла")

	// Авторизация
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrTooManyRequests    = fmt.Errorf("слишком много попыток")

	// Общие виды ошибок
	ErrNotFound       = fmt.Errorf("запись не найдена")
	ErrConflict       = fmt.Errorf("конфликт состояния")
	ErrValidation     = fmt.Errorf("ошибка валидации")
	ErrBadRequest     = fmt.Errorf("неверный запрос")
	ErrInternalServer = fmt.Errorf("внутренняя ошибка сервера")
)

// DomainError - ожидаемый отказ бизнес-логики с сообщением для пользователя.
// Kind всегда один из общих видов выше.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

func newDomainError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

var (
	ErrRecordNotFound              = newDomainError(ErrNotFound, "Kayıt bulunamadı.")
	ErrEmployeeNotAvailable        = newDomainError(ErrNotFound, "Bu çalışan aktif değil.")
	ErrEquipmentNotAvailable       = newDomainError(ErrConflict, "Bu donanım müsait değil.")
	ErrEquipmentAlreadyAssigned    = newDomainError(ErrConflict, "Bu donanımın zaten aktif bir zimmeti var.")
	ErrAssignmentAlreadyReturned   = newDomainError(ErrConflict, "Bu zimmet zaten iade edilmiş.")
	ErrEmployeeHasOpenAssignments  = newDomainError(ErrConflict, "Bu çalışanın aktif zimmetleri var, silinemez.")
	ErrEquipmentHasOpenAssignment  = newDomainError(ErrConflict, "Bu donanım zimmetli olduğu için silinemez.")
	ErrDuplicateEmail              = newDomainError(ErrConflict, "Bu e-posta adresi zaten kullanılıyor.")
	ErrDuplicateSerialNumber       = newDomainError(ErrConflict, "Bu seri numarası zaten kullanılıyor.")
	ErrEquipmentStatusMismatch     = newDomainError(ErrConflict, "Donanım durumu zimmet kayıtlarıyla uyuşmuyor.")
	ErrReturnReasonRequired        = newDomainError(ErrValidation, "İade nedeni zorunludur.")
	ErrAccessoryTypeNotAllowed     = newDomainError(ErrValidation, "Bu aksesuar türü donanım kategorisi için geçerli değil.")
	ErrDescriptionRequiredForOther = newDomainError(ErrValidation, "'Other' kategorisi için açıklama zorunludur.")
)

// ValidationError - отказ валидации с перечнем нарушений
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(message string, details ...string) error {
	return &ValidationError{Message: message, Details: details}
}

// IsExpected - ошибки, которые являются нормальным ответом клиенту, а не сбоем
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrTooManyRequests)
}

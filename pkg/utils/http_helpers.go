package utils

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type HTTPErrorResponse struct {
	Error     bool        `json:"error"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
	// MaxPage держит (page-1)*limit в пределах int
	MaxPage = math.MaxInt / MaxLimit
)

func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			if p > MaxPage {
				p = MaxPage
			}
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
			filterReq.Page = o/filterReq.Limit + 1
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	filterReq.WithPagination = values.Get("withPagination") != "false"

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = strings.TrimSpace(vals[0])
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = vals[0]
		}
	}

	return filterReq
}

// ParseIDParam читает числовой параметр пути
func ParseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Geçersiz ID.", err, map[string]string{name: raw})
	}
	return id, nil
}

// SuccessResponse оборачивает ответ; при переданном total тело становится {list, pagination}
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Success: true, Message: message, Timestamp: time.Now()}
	if len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		response.Data = map[string]interface{}{
			"list":       body,
			"pagination": types.NewPagination(total[0], filter.Page, filter.Limit),
		}
	} else {
		response.Data = body
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		} else if httpErr.Err != nil {
			logger.Warn("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		return writeError(c, httpErr.Code, httpErr.Message, httpErr.Details)
	}

	if msgs := ValidationMessages(err); msgs != nil {
		return writeError(c, http.StatusBadRequest, "Doğrulama hatası: "+strings.Join(msgs, "; "), msgs)
	}

	var invalid *apperrors.ValidationError
	if errors.As(err, &invalid) {
		return writeError(c, http.StatusBadRequest, invalid.Message, invalid.Details)
	}

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return writeError(c, statusFor(domainErr.Kind), domainErr.Message, nil)
	}

	for kind, code := range ErrorList {
		if errors.Is(err, kind) {
			return writeError(c, code, ErrorMessages[kind], nil)
		}
	}

	logger.Error("Unexpected Error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
	return writeError(c, http.StatusInternalServerError, ErrorMessages[apperrors.ErrInternalServer], nil)
}

// ValidationMessages - сообщения по каждому полю для ошибок validator; nil для прочих ошибок
func ValidationMessages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, validationMessage(e))
	}
	return msgs
}

func writeError(c echo.Context, code int, message string, details interface{}) error {
	return c.JSON(code, &HTTPErrorResponse{
		Error:     true,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	})
}

func statusFor(kind error) int {
	if code, ok := ErrorList[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("'%s' alanı zorunludur", e.Field())
	case "email":
		return fmt.Sprintf("'%s' geçerli bir e-posta adresi değil", e.Field())
	case "mac_addr":
		return fmt.Sprintf("'%s' geçerli bir MAC adresi değil", e.Field())
	case "employee_phone":
		return fmt.Sprintf("'%s' geçerli bir telefon numarası değil", e.Field())
	case "min":
		return fmt.Sprintf("'%s' en az %s karakter olmalıdır", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("'%s' en fazla %s karakter olabilir", e.Field(), e.Param())
	case "equipment_category":
		return fmt.Sprintf("'%s' geçerli bir donanım kategorisi değil", e.Field())
	case "equipment_status":
		return fmt.Sprintf("'%s' geçerli bir donanım durumu değil", e.Field())
	case "description_for_other":
		return "'Other' kategorisi için açıklama zorunludur"
	default:
		return fmt.Sprintf("'%s' alanı '%s' kontrolünden geçemedi", e.Field(), e.Tag())
	}
}

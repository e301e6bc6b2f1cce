package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "inventory-system/pkg/errors"
)

func TestParseFilterFromQuery(t *testing.T) {
	t.Run("значения по умолчанию", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{})
		assert.Equal(t, DefaultLimit, f.Limit)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 0, f.Offset)
		assert.True(t, f.WithPagination)
	})

	t.Run("страница, сортировка и фильтры", func(t *testing.T) {
		q, err := url.ParseQuery("search=+Dell+&filter[category]=Laptop&sort[brand]=DESC&sort[model]=up&limit=20&page=3")
		require.NoError(t, err)

		f := ParseFilterFromQuery(q)
		assert.Equal(t, "Dell", f.Search)
		assert.Equal(t, 20, f.Limit)
		assert.Equal(t, 3, f.Page)
		assert.Equal(t, 40, f.Offset)
		assert.Equal(t, map[string]string{"brand": "desc"}, f.Sort)
		assert.Equal(t, "Laptop", f.Filter["category"])
	})

	t.Run("offset задаёт страницу, лимит обрезается", func(t *testing.T) {
		q := url.Values{"offset": {"1000"}, "limit": {"10000"}, "withPagination": {"false"}}
		f := ParseFilterFromQuery(q)
		assert.Equal(t, MaxLimit, f.Limit)
		assert.Equal(t, 1000, f.Offset)
		assert.Equal(t, 3, f.Page)
		assert.False(t, f.WithPagination)
	})

	t.Run("огромная страница не переполняет offset", func(t *testing.T) {
		for _, limit := range []string{"", "500"} {
			q := url.Values{"page": {"9223372036854775807"}}
			if limit != "" {
				q.Set("limit", limit)
			}
			f := ParseFilterFromQuery(q)
			assert.Equal(t, MaxPage, f.Page)
			assert.Positive(t, f.Offset)
			assert.Equal(t, (MaxPage-1)*f.Limit, f.Offset)
		}
	})
}

func serveError(t *testing.T, err error) (int, HTTPErrorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ErrorResponse(c, err, zap.NewNop()))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Error)
	return rec.Code, body
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "HttpError",
			err:      apperrors.NewHttpError(http.StatusBadRequest, "İstek gövdesi geçersiz.", nil, nil),
			wantCode: http.StatusBadRequest,
			wantMsg:  "İstek gövdesi geçersiz.",
		},
		{
			name:     "доменная ошибка конфликта",
			err:      fmt.Errorf("создание закрепления: %w", apperrors.ErrEquipmentAlreadyAssigned),
			wantCode: http.StatusConflict,
			wantMsg:  "Bu donanımın zaten aktif bir zimmeti var.",
		},
		{
			name:     "доменная ошибка not found",
			err:      apperrors.ErrRecordNotFound,
			wantCode: http.StatusNotFound,
			wantMsg:  "Kayıt bulunamadı.",
		},
		{
			name:     "ValidationError",
			err:      apperrors.NewValidationError("Geçersiz tarih.", "startDate"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "Geçersiz tarih.",
		},
		{
			name:     "вид ошибки из списка",
			err:      fmt.Errorf("вход: %w", apperrors.ErrTooManyRequests),
			wantCode: http.StatusTooManyRequests,
			wantMsg:  ErrorMessages[apperrors.ErrTooManyRequests],
		},
		{
			name:     "неизвестная ошибка",
			err:      fmt.Errorf("connection reset"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  ErrorMessages[apperrors.ErrInternalServer],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serveError(t, tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestErrorResponse_ValidatorErrors(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	err := validator.New().Struct(payload{})
	require.Error(t, err)

	code, body := serveError(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Message, "'Name' alanı zorunludur")
}

func TestSuccessResponse_WithTotal(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=2&page=2", nil), rec)

	require.NoError(t, SuccessResponse(c, []int{3, 4}, "ok", http.StatusOK, 5))

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			List       []int `json:"list"`
			Pagination struct {
				TotalCount uint64 `json:"total_count"`
				Page       int    `json:"page"`
				TotalPages int    `json:"total_pages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []int{3, 4}, body.Data.List)
	assert.Equal(t, uint64(5), body.Data.Pagination.TotalCount)
	assert.Equal(t, 2, body.Data.Pagination.Page)
	assert.Equal(t, 3, body.Data.Pagination.TotalPages)
}

func TestParseIDParam(t *testing.T) {
	e := echo.New()
	for _, raw := range []string{"0", "-1", "abc"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		_, err := ParseIDParam(c, "id")
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr, raw)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")
	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

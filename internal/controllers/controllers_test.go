package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/services"
	"inventory-system/pkg/customvalidator"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/types"
)

// Фейки встраивают интерфейс: вызов нереализованного метода паникует,
// что сразу показывает лишнее обращение к сервису.

type fakeEmployeeService struct {
	services.EmployeeServiceInterface
	created *dto.CreateEmployeeDTO
	list    []entities.Employee
	total   uint64
	findErr error
}

func (f *fakeEmployeeService) GetEmployees(_ context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	return f.list, f.total, nil
}

func (f *fakeEmployeeService) FindEmployee(_ context.Context, id uint64) (*entities.Employee, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return &entities.Employee{ID: id, Name: "Ayşe Yılmaz", IsActive: true}, nil
}

func (f *fakeEmployeeService) CreateEmployee(_ context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	f.created = &payload
	return &entities.Employee{ID: 7, Name: payload.Name, IsActive: true}, nil
}

type fakeEquipmentService struct {
	services.EquipmentServiceInterface
	category string
}

func (f *fakeEquipmentService) CreateEquipment(_ context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	return &dto.EquipmentDTO{
		Equipment:   entities.Equipment{ID: 3, Category: payload.Category, Status: entities.StatusAvailable},
		StatusLabel: entities.StatusAvailable.Label(),
		Warning:     "Seri numarası başka bir donanımda da kayıtlı.",
	}, nil
}

func (f *fakeEquipmentService) GetByCategory(_ context.Context, category string, _ types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	f.category = category
	return []dto.EquipmentDTO{}, 0, nil
}

type fakeAssignmentService struct {
	services.AssignmentServiceInterface
	createErr error
}

func (f *fakeAssignmentService) CreateAssignment(_ context.Context, payload dto.CreateAssignmentDTO) (*entities.Assignment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &entities.Assignment{ID: 1, EmployeeID: payload.EmployeeID, EquipmentID: payload.EquipmentID}, nil
}

type fakeReportService struct {
	services.ReportServiceInterface
}

func (fakeReportService) EmployeesReport(context.Context) (*dto.ReportFile, error) {
	return &dto.ReportFile{FileName: "calisan_listesi.xlsx", ContentType: dto.XLSXContentType, Content: []byte("PK")}, nil
}

type fakeAuthService struct {
	services.AuthServiceInterface
	loggedOut string
	status    string
}

func (f *fakeAuthService) Login(_ context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	if payload.Password != "S3cret!" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &dto.LoginResponseDTO{Token: "jwt-token", Username: payload.Username, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) error {
	f.loggedOut = sessionID
	return nil
}

func (f *fakeAuthService) SessionStatus(_ context.Context, sessionID string) (*dto.SessionStatusDTO, error) {
	f.status = sessionID
	return &dto.SessionStatusDTO{Authenticated: sessionID != ""}, nil
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	v := validator.New()
	require.NoError(t, customvalidator.RegisterCustomValidations(v))
	e.Validator = customvalidator.NewEchoValidator(v)
	return e
}

func serve(e *echo.Echo, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestEmployeeController(t *testing.T) {
	svc := &fakeEmployeeService{
		list:  []entities.Employee{{ID: 1, Name: "Ayşe Yılmaz"}},
		total: 11,
	}
	ctrl := NewEmployeeController(svc, zap.NewNop())
	e := newEcho(t)
	e.GET("/employees", ctrl.GetEmployees)
	e.GET("/employees/:id", ctrl.FindEmployee)
	e.POST("/employees", ctrl.CreateEmployee)

	t.Run("список с пагинацией", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/employees?limit=5", "")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]interface{})
		pagination := data["pagination"].(map[string]interface{})
		assert.Equal(t, float64(11), pagination["total_count"])
		assert.Equal(t, float64(3), pagination["total_pages"])
	})

	t.Run("создание", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/employees", `{"name":"Can Öztürk","department":"Satış"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NotNil(t, svc.created)
		assert.Equal(t, "Satış", svc.created.Department)
	})

	t.Run("невалидное тело", func(t *testing.T) {
		svc.created = nil
		rec := serve(e, http.MethodPost, "/employees", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.created)
	})

	t.Run("ошибка валидации", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/employees", `{"name":"  ","email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["message"], "name")
		assert.Nil(t, svc.created)
	})

	t.Run("неверный id", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/employees/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("не найден", func(t *testing.T) {
		svc.findErr = apperrors.ErrRecordNotFound
		defer func() { svc.findErr = nil }()
		rec := serve(e, http.MethodGet, "/employees/99", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEquipmentController_CreateCarriesWarning(t *testing.T) {
	svc := &fakeEquipmentService{}
	ctrl := NewEquipmentController(svc, nil, zap.NewNop())
	e := newEcho(t)
	e.POST("/equipment", ctrl.CreateEquipment)
	e.GET("/equipment/category/:category", ctrl.GetByCategory)

	rec := serve(e, http.MethodPost, "/equipment", `{"category":"Laptop","serial_number":"SN-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "Seri numarası")
	assert.Equal(t, "Boşta", body["data"].(map[string]interface{})["status_tr"])

	rec = serve(e, http.MethodPost, "/equipment", `{"category":"Printer"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, http.MethodGet, "/equipment/category/Mobile%20Phone", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mobile Phone", svc.category)
}

func TestAssignmentController_ErrorKinds(t *testing.T) {
	svc := &fakeAssignmentService{}
	ctrl := NewAssignmentController(svc, zap.NewNop())
	e := newEcho(t)
	e.POST("/assignments", ctrl.CreateAssignment)

	rec := serve(e, http.MethodPost, "/assignments", `{"employee_id":1,"equipment_id":2}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(e, http.MethodPost, "/assignments", `{"employee_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.createErr = apperrors.ErrEquipmentAlreadyAssigned
	rec = serve(e, http.MethodPost, "/assignments", `{"employee_id":1,"equipment_id":2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Bu donanımın zaten aktif bir zimmeti var.", decodeBody(t, rec)["message"])

	svc.createErr = apperrors.ErrEmployeeNotAvailable
	rec = serve(e, http.MethodPost, "/assignments", `{"employee_id":1,"equipment_id":2}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.createErr = errors.New("pool closed")
	rec = serve(e, http.MethodPost, "/assignments", `{"employee_id":1,"equipment_id":2}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReportController_SendsAttachment(t *testing.T) {
	ctrl := NewReportController(fakeReportService{}, zap.NewNop())
	e := newEcho(t)
	e.GET("/reports/employees", ctrl.EmployeesReport)

	rec := serve(e, http.MethodGet, "/reports/employees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="calisan_listesi.xlsx"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, dto.XLSXContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "PK", rec.Body.String())
}

func TestAuthController(t *testing.T) {
	jwtSvc := service.NewJWTService("controller-secret", time.Hour)
	svc := &fakeAuthService{}
	ctrl := NewAuthController(svc, jwtSvc, zap.NewNop())
	e := newEcho(t)
	e.POST("/auth/login", ctrl.Login)
	e.POST("/auth/logout", ctrl.Logout)
	e.GET("/auth/status", ctrl.Status)

	t.Run("успешный вход ставит cookie", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/auth/login", `{"username":"admin","password":"S3cret!"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "session_token", cookies[0].Name)
		assert.Equal(t, "jwt-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/auth/login", `{"username":"admin","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("выход по токену", func(t *testing.T) {
		token, _, err := jwtSvc.GenerateToken("sid-42", "admin")
		require.NoError(t, err)

		rec := serve(e, http.MethodPost, "/auth/logout", "", echo.HeaderAuthorization, "Bearer "+token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sid-42", svc.loggedOut)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("статус без токена", func(t *testing.T) {
		svc.status = "unset"
		rec := serve(e, http.MethodGet, "/auth/status", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "", svc.status)
		data := decodeBody(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, false, data["authenticated"])
	})
}

func TestStatusController(t *testing.T) {
	healthy := map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	}
	e := newEcho(t)
	e.GET("/ok", NewStatusController("inventory-system", "1.0.0", time.UTC, healthy, zap.NewNop()).GetStatus)

	degraded := map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}
	e.GET("/degraded", NewStatusController("inventory-system", "1.0.0", time.UTC, degraded, zap.NewNop()).GetStatus)

	rec := serve(e, http.MethodGet, "/ok", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "UTC", data["timezone"])

	rec = serve(e, http.MethodGet, "/degraded", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	data = decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "degraded", data["status"])
	assert.Equal(t, map[string]interface{}{"postgres": "up", "redis": "down"}, data["dependencies"])
}

package routes

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/listeners"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/metrics"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
	appwebsocket "inventory-system/pkg/websocket"
)

const (
	AppName    = "inventory-system"
	AppVersion = "1.0.0"
)

type Loggers struct {
	Main       *zap.Logger
	Auth       *zap.Logger
	Inventory  *zap.Logger
	Assignment *zap.Logger
	Audit      *zap.Logger
}

// Deps - внешние зависимости, которые поднимает main
type Deps struct {
	DB      *pgxpool.Pool
	Redis   *redis.Client
	JWT     service.JWTService
	Metrics *metrics.Metrics
	Config  *config.Config

	// Validate - тот же экземпляр, что и у echo; нужен импорту из Excel
	Validate *validator.Validate

	// Events и Hub необязательны: без них живая лента не поднимается
	Events *eventbus.Bus
	Hub    *appwebsocket.Hub
}

func InitRouter(e *echo.Echo, deps Deps, loggers *Loggers) error {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	cfg := deps.Config
	location := cfg.Location()

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	txManager := repositories.NewTxManager(deps.DB)

	// --- 1. РЕПОЗИТОРИИ ---
	employeeRepo := repositories.NewEmployeeRepository(deps.DB, loggers.Inventory)
	equipmentRepo := repositories.NewEquipmentRepository(deps.DB, loggers.Inventory)
	accessoryRepo := repositories.NewAccessoryRepository(deps.DB, loggers.Inventory)
	assignmentRepo := repositories.NewAssignmentRepository(deps.DB, loggers.Assignment)
	auditRepo := repositories.NewAuditLogRepository(deps.DB, loggers.Audit)
	cacheRepo := repositories.NewRedisCacheRepository(deps.Redis)

	// --- 2. СЕРВИСЫ ---
	auditService := services.NewAuditService(auditRepo, cfg.Audit.Strict, location, deps.Metrics, loggers.Audit)
	employeeService := services.NewEmployeeService(txManager, employeeRepo, assignmentRepo, auditService, loggers.Inventory)
	equipmentService := services.NewEquipmentService(
		txManager, equipmentRepo, accessoryRepo, assignmentRepo,
		auditService, cfg.Inventory.SerialNumberPolicy, loggers.Inventory,
	)
	accessoryService := services.NewAccessoryService(txManager, accessoryRepo, equipmentRepo, auditService, loggers.Inventory)
	var publisher eventbus.Publisher
	if deps.Events != nil {
		publisher = deps.Events
	}
	assignmentService := services.NewAssignmentService(
		txManager, assignmentRepo, employeeRepo, equipmentRepo,
		auditService, deps.Metrics, publisher, loggers.Assignment,
	)
	importer := services.NewEquipmentImporter(equipmentService, deps.Validate, loggers.Inventory)
	logService := services.NewLogService(auditRepo, location, loggers.Audit)
	reportService := services.NewReportService(employeeRepo, equipmentRepo, accessoryRepo, assignmentRepo, location, loggers.Main)
	authService, err := services.NewAuthService(cacheRepo, deps.JWT, &cfg.Auth, loggers.Auth)
	if err != nil {
		return err
	}

	// --- 3. КОНТРОЛЛЕРЫ ---
	statusCtrl := controllers.NewStatusController(AppName, AppVersion, location, map[string]controllers.HealthCheck{
		"postgres": deps.DB.Ping,
		"redis": func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		},
	}, loggers.Main)

	// --- 4. РОУТЕРЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(deps.JWT, authService, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth, middleware.Actor(loggers.Main))

	runStatusRouter(api, statusCtrl)
	runAuthRouter(api, authService, deps.JWT, loggers.Auth)

	runEmployeeRouter(secureGroup, employeeService, loggers.Inventory)
	runEquipmentRouter(secureGroup, equipmentService, accessoryService, importer, loggers.Inventory)
	runAccessoryRouter(secureGroup, accessoryService, loggers.Inventory)
	runAssignmentRouter(secureGroup, assignmentService, loggers.Assignment)
	runHistoryRouter(secureGroup, auditService, assignmentService, cfg.Audit.RetentionDays, loggers.Audit)
	runLogRouter(secureGroup, logService, loggers.Audit)
	runReportRouter(secureGroup, reportService, loggers.Main)

	if deps.Events != nil && deps.Hub != nil {
		listeners.NewLiveFeedListener(deps.Hub, employeeRepo, equipmentRepo, location, loggers.Assignment).Register(deps.Events)
		runLiveFeedRouter(secureGroup, deps.Hub, cfg.Server.CORSOrigins, loggers.Main)
	}

	if deps.Metrics != nil {
		e.GET("/metrics", deps.Metrics.Handler())
	}

	loggers.Main.Info("InitRouter: Создание маршрутов завершено", zap.Duration("sessionTimeout", cfg.Auth.SessionTimeout.Round(time.Second)))
	return nil
}

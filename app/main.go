// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"inventory-system/internal/routes"
	"inventory-system/pkg/config"
	"inventory-system/pkg/customvalidator"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	applogger "inventory-system/pkg/logger"
	"inventory-system/pkg/metrics"
	appmiddleware "inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
	appwebsocket "inventory-system/pkg/websocket"
)

func main() {
	// 1. Конфиг (внутри загружается .env) и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	loggers := &routes.Loggers{
		Main:       logger,
		Auth:       logger.Named("auth"),
		Inventory:  logger.Named("inventory"),
		Assignment: logger.Named("assignment"),
		Audit:      logger.Named("audit"),
	}

	e := echo.New()
	e.HideBanner = true
	appMetrics := metrics.New()

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Sunucu hatası.", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	e.Use(appMetrics.Middleware())
	e.Use(appmiddleware.InjectLogger(logger))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.Warn("HTTP запрос", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Debug("HTTP запрос", fields...)
			return nil
		},
	}))

	if cfg.Server.RateLimitPerMinute > 0 {
		perMinute := cfg.Server.RateLimitPerMinute
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(float64(perMinute) / 60),
				Burst:     perMinute,
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusForbidden, "İstemci belirlenemedi.", err, nil), logger)
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return utils.ErrorResponse(c, apperrors.ErrTooManyRequests, logger)
			},
		}))
	}

	if cfg.Server.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
			Timeout: cfg.Server.RequestTimeout,
		}))
	}

	// 3. Валидатор
	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = customvalidator.NewEchoValidator(v)

	// 4. База данных и миграции
	ctx := context.Background()
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	dbConn, err := postgresql.ConnectDB(connectCtx, cfg.Postgres.DSN, logger)
	cancel()
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgresql.Migrate(cfg.Postgres.DSN, "up"); err != nil {
			logger.Fatal("Ошибка применения миграций", zap.Error(err))
		}
		logger.Info("✅ Миграции применены")
	}

	// 5. Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	// 6. Живая лента и роуты
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hub := appwebsocket.NewHub(logger.Named("live"))
	go hub.Run(hubCtx)
	bus := eventbus.New(logger.Named("events"))

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.TokenTTL)
	deps := routes.Deps{
		DB:       dbConn,
		Redis:    redisClient,
		JWT:      jwtSvc,
		Metrics:  appMetrics,
		Config:   cfg,
		Validate: v,
		Events:   bus,
		Hub:      hub,
	}
	if err := routes.InitRouter(e, deps, loggers); err != nil {
		logger.Fatal("Ошибка инициализации маршрутов", zap.Error(err))
	}

	if cfg.Server.PublicDir != "" {
		absPath, err := filepath.Abs(cfg.Server.PublicDir)
		if err != nil {
			logger.Fatal("не удалось получить абсолютный путь к статике", zap.Error(err))
		}
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  absPath,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics" || strings.HasPrefix(c.Request().URL.Path, "/api")
			},
		}))
	}

	// 7. Запуск и корректная остановка
	addr := ":" + cfg.Server.Port
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке сервера", zap.Error(err))
	}
	bus.Wait()
	stopHub()
}

package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/pkg/utils"
)

// HealthCheck - проверка зависимости (ping базы, redis)
type HealthCheck func(ctx context.Context) error

type StatusController struct {
	name      string
	version   string
	startedAt time.Time
	location  *time.Location
	checks    map[string]HealthCheck
	logger    *zap.Logger
}

func NewStatusController(name, version string, location *time.Location, checks map[string]HealthCheck, logger *zap.Logger) *StatusController {
	if location == nil {
		location = time.UTC
	}
	return &StatusController{
		name:      name,
		version:   version,
		startedAt: time.Now(),
		location:  location,
		checks:    checks,
		logger:    logger,
	}
}

type systemStatus struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Status       string            `json:"status"`
	Uptime       string            `json:"uptime"`
	ServerTime   string            `json:"serverTime"`
	Timezone     string            `json:"timezone"`
	Dependencies map[string]string `json:"dependencies"`
}

func (c *StatusController) GetStatus(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
	defer cancel()

	res := systemStatus{
		Name:         c.name,
		Version:      c.version,
		Status:       "ok",
		Uptime:       time.Since(c.startedAt).Truncate(time.Second).String(),
		ServerTime:   utils.FormatLocal(time.Now(), c.location),
		Timezone:     c.location.String(),
		Dependencies: make(map[string]string, len(c.checks)),
	}

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.checks[name](reqCtx); err != nil {
			c.logger.Error("Зависимость недоступна", zap.String("dependency", name), zap.Error(err))
			res.Dependencies[name] = "down"
			res.Status = "degraded"
			continue
		}
		res.Dependencies[name] = "up"
	}

	code := http.StatusOK
	if res.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return utils.SuccessResponse(ctx, res, "Sistem durumu.", code)
}

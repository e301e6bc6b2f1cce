package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, jwtSvc: jwtSvc, logger: logger}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload, ctrl.logger, "Login"); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	c.SetCookie(sessionCookie(res.Token, res.ExpiresAt))
	return utils.SuccessResponse(c, res, "Giriş başarılı.", http.StatusOK)
}

// sessionID - id сессии из токена запроса; пустая строка, если токена нет или он недействителен
func (ctrl *AuthController) sessionID(c echo.Context) string {
	token, err := middleware.ExtractToken(c)
	if err != nil {
		return ""
	}
	claims, err := ctrl.jwtSvc.ValidateToken(token)
	if err != nil {
		ctrl.logger.Debug("Токен недействителен", zap.Error(err))
		return ""
	}
	return claims.SessionID
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	if sid := ctrl.sessionID(c); sid != "" {
		if err := ctrl.authService.Logout(c.Request().Context(), sid); err != nil {
			return ctrl.errorResponse(c, err)
		}
	}

	c.SetCookie(sessionCookie("", time.Unix(0, 0)))
	return utils.SuccessResponse(c, struct{}{}, "Çıkış yapıldı.", http.StatusOK)
}

func (ctrl *AuthController) Status(c echo.Context) error {
	res, err := ctrl.authService.SessionStatus(c.Request().Context(), ctrl.sessionID(c))
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, res, "Oturum durumu.", http.StatusOK)
}

package services

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

// Session - запись сессии в Redis. Живёт SessionTimeout с момента последнего запроса.
type Session struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	LoginTime    time.Time `json:"loginTime"`
	LastActivity time.Time `json:"lastActivity"`
}

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error)
	Logout(ctx context.Context, sessionID string) error
	// ValidateSession проверяет сессию и продлевает её
	ValidateSession(ctx context.Context, sessionID string) (*Session, error)
	SessionStatus(ctx context.Context, sessionID string) (*dto.SessionStatusDTO, error)
}

type AuthService struct {
	cacheRepo    repositories.CacheRepositoryInterface
	jwtService   service.JWTService
	cfg          *config.AuthConfig
	passwordHash string
	logger       *zap.Logger
	now          func() time.Time
}

// NewAuthService - если хеш пароля администратора не задан, он вычисляется из пароля один раз
func NewAuthService(
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) (*AuthService, error) {
	hash := cfg.AdminPasswordHash
	if hash != "" {
		if err := utils.CheckPasswordHash(hash); err != nil {
			return nil, err
		}
	} else {
		if cfg.AdminPassword == "" {
			return nil, fmt.Errorf("не задан ни ADMIN_PASSWORD_HASH, ни ADMIN_PASSWORD")
		}
		var err error
		hash, err = utils.HashPassword(cfg.AdminPassword)
		if err != nil {
			return nil, err
		}
	}
	return &AuthService{
		cacheRepo:    cacheRepo,
		jwtService:   jwtService,
		cfg:          cfg,
		passwordHash: hash,
		logger:       logger,
		now:          time.Now,
	}, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func loginAttemptsKey(username string) string {
	return "login_attempts:" + strings.ToLower(username)
}

func lockoutKey(username string) string {
	return "lockout:" + strings.ToLower(username)
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	username := strings.TrimSpace(payload.Username)
	logger := s.logger.With(zap.String("username", username))

	if err := s.checkLockout(ctx, username); err != nil {
		logger.Warn("Вход заблокирован после неудачных попыток")
		return nil, err
	}

	if !s.checkCredentials(username, payload.Password) {
		s.handleFailedLoginAttempt(ctx, username)
		logger.Warn("Неверные учётные данные")
		return nil, apperrors.ErrInvalidCredentials
	}
	s.resetLoginAttempts(ctx, username)

	now := s.now()
	session := Session{
		ID:           uuid.NewString(),
		Username:     s.cfg.AdminUsername,
		LoginTime:    now,
		LastActivity: now,
	}
	if err := s.saveSession(ctx, session); err != nil {
		logger.Error("Не удалось сохранить сессию", zap.Error(err))
		return nil, err
	}

	token, expiresAt, err := s.jwtService.GenerateToken(session.ID, session.Username)
	if err != nil {
		logger.Error("Не удалось выпустить токен", zap.Error(err))
		return nil, err
	}

	logger.Info("Успешный вход", zap.String("session_id", session.ID))
	return &dto.LoginResponseDTO{Token: token, Username: session.Username, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(username)), []byte(strings.ToLower(s.cfg.AdminUsername))) == 1
	passOK := utils.ComparePasswords(s.passwordHash, password) == nil
	return userOK && passOK
}

func (s *AuthService) checkLockout(ctx context.Context, username string) error {
	if _, err := s.cacheRepo.Get(ctx, lockoutKey(username)); err == nil {
		return apperrors.NewHttpError(
			http.StatusTooManyRequests,
			fmt.Sprintf("Çok fazla başarısız deneme. Lütfen %d dakika sonra tekrar deneyin.", int(s.cfg.LockoutDuration.Minutes())),
			apperrors.ErrTooManyRequests,
			nil,
		)
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, username string) {
	attemptsKey := loginAttemptsKey(username)
	attempts, err := s.cacheRepo.IncrWithTTL(ctx, attemptsKey, s.cfg.LockoutDuration)
	if err != nil {
		s.logger.Error("Не удалось учесть неудачную попытку входа", zap.Error(err))
		return
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		_ = s.cacheRepo.Set(ctx, lockoutKey(username), "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, username string) {
	_ = s.cacheRepo.Del(ctx, loginAttemptsKey(username), lockoutKey(username))
}

func (s *AuthService) saveSession(ctx context.Context, session Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.cacheRepo.Set(ctx, sessionKey(session.ID), raw, s.cfg.SessionTimeout)
}

func (s *AuthService) loadSession(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := s.cacheRepo.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if errors.Is(err, repositories.ErrCacheMiss) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Warn("Повреждённая запись сессии", zap.String("session_id", sessionID), zap.Error(err))
		return nil, apperrors.ErrSessionExpired
	}
	return &session, nil
}

func (s *AuthService) ValidateSession(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.LastActivity = s.now()
	if err := s.saveSession(ctx, *session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.cacheRepo.Del(ctx, sessionKey(sessionID)); err != nil {
		s.logger.Error("Не удалось удалить сессию", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	s.logger.Info("Выход из системы", zap.String("session_id", sessionID))
	return nil
}

// SessionStatus не продлевает сессию
func (s *AuthService) SessionStatus(ctx context.Context, sessionID string) (*dto.SessionStatusDTO, error) {
	if sessionID == "" {
		return &dto.SessionStatusDTO{Authenticated: false}, nil
	}
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionExpired) {
			return &dto.SessionStatusDTO{Authenticated: false}, nil
		}
		return nil, err
	}
	expiresAt := session.LastActivity.Add(s.cfg.SessionTimeout)
	if ttl, err := s.cacheRepo.TTL(ctx, sessionKey(sessionID)); err == nil && ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	return &dto.SessionStatusDTO{
		Authenticated: true,
		Username:      session.Username,
		LoginTime:     &session.LoginTime,
		LastActivity:  &session.LastActivity,
		ExpiresAt:     &expiresAt,
	}, nil
}

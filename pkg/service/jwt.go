package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "inventory-system/pkg/errors"
)

// SessionClaims - токен лишь указывает на сессию в Redis; живость сессии проверяется там
type SessionClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(sessionID, username string) (string, time.Time, error)
	ValidateToken(tokenString string) (*SessionClaims, error)
	GetTokenTTL() time.Duration
}

type jwtService struct {
	SecretKey string
	TokenExp  time.Duration
	now       func() time.Time
}

func NewJWTService(secretKey string, tokenExp time.Duration) JWTService {
	return &jwtService{
		SecretKey: secretKey,
		TokenExp:  tokenExp,
		now:       time.Now,
	}
}

func (service *jwtService) GenerateToken(sessionID, username string) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(service.TokenExp)

	claims := &SessionClaims{
		SessionID: sessionID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (service *jwtService) GetTokenTTL() time.Duration {
	return service.TokenExp
}

func (service *jwtService) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(service.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithTimeFunc(service.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

package dto

import "time"

type LoginDTO struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type LoginResponseDTO struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionStatusDTO struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	LoginTime     *time.Time `json:"loginTime,omitempty"`
	LastActivity  *time.Time `json:"lastActivity,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

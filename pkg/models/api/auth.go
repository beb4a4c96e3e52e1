package api

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type DemoLoginRequest struct {
	Role string `json:"role"`
}

type User struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type LoginResponse struct {
	Message string  `json:"message"`
	Data    Session `json:"data"`
}

type VerifyResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error          string   `json:"error"`
	Details        []string `json:"details,omitempty"`
	AvailableRoles []string `json:"available_roles,omitempty"`
}

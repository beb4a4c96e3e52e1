package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/handlers/render"
	"github.com/de-tools/booking-atlas/pkg/models/api"
	authsvc "github.com/de-tools/booking-atlas/pkg/services/auth"
	"github.com/rs/zerolog"
)

// Authenticator is the part of the auth service the handler uses.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*authsvc.Session, error)
	DemoLogin(ctx context.Context, role string) (*authsvc.Session, error)
}

type Handler struct {
	auth Authenticator
}

func NewHandler(auth Authenticator) *Handler {
	return &Handler{auth: auth}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		render.Error(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	session, err := h.auth.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	h.respondSession(w, r, session, err, "login successful")
}

func (h *Handler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	var req api.DemoLoginRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.auth.DemoLogin(r.Context(), req.Role)
	if errors.Is(err, authsvc.ErrUnknownDemoRole) {
		render.JSON(w, r, http.StatusBadRequest, api.ErrorResponse{
			Error:          err.Error(),
			AvailableRoles: authsvc.DemoRoles,
		})
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	h.respondSession(w, r, session, err, "demo login successful as "+role)
}

// Verify echoes the caller resolved by the auth middleware.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	principal, ok := authsvc.PrincipalFrom(r.Context())
	if !ok {
		render.Error(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	render.JSON(w, r, http.StatusOK, api.VerifyResponse{
		Message: "token is valid",
		User:    adapters.MapPrincipalToApi(principal),
	})
}

// Logout acknowledges the request. Tokens are stateless, so clients drop them.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if principal, ok := authsvc.PrincipalFrom(r.Context()); ok {
		zerolog.Ctx(r.Context()).Info().Str("username", principal.Username).Msg("user logged out")
	}
	render.JSON(w, r, http.StatusOK, api.MessageResponse{Message: "logged out"})
}

func (h *Handler) respondSession(w http.ResponseWriter, r *http.Request, session *authsvc.Session, err error, message string) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		render.Error(w, r, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		render.InternalError(w, r, err, "login failed")
		return
	}

	render.JSON(w, r, http.StatusOK, api.LoginResponse{
		Message: message,
		Data: api.Session{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			User:      adapters.MapPrincipalToApi(session.Principal),
		},
	})
}

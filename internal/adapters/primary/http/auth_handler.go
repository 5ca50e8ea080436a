package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/helpdesk-io/helpdesk-backend/internal/auth"
	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

// AuthHandler handles login requests. Token issuance is an adapter concern:
// the core service only verifies credentials.
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService ports.AuthService, tokenManager *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		logger:       logger.With("handler", "auth"),
	}
}

// LoginRequest defines the expected JSON body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse defines the JSON response for a successful login.
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO defines the JSON response for user identity. The password hash
// never leaves the service.
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrors(w, http.StatusBadRequest, []string{"Invalid request body"})
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(user)
	if err != nil {
		h.logger.Error("token generation failed", "user_id", user.ID, "error", err)
		WriteError(w, apperrors.NewInternalError(err))
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)

	WriteData(w, http.StatusOK, LoginResponse{
		Token: token,
		User: UserDTO{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  string(user.Role),
		},
	})
}

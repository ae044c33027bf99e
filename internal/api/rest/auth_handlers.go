package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/infrastructure/auth"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/cache"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/repository"
)

// UserStore persists operator accounts
type UserStore interface {
	Create(ctx context.Context, u *repository.User) error
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
}

// AuthHandler serves login, registration and logout
type AuthHandler struct {
	users    UserStore
	authSvc  *auth.Service
	sessions *cache.SessionStore
	logger   *slog.Logger
	validate *validator.Validate
}

// NewAuthHandler creates the handler
func NewAuthHandler(users UserStore, authSvc *auth.Service, sessions *cache.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		authSvc:  authSvc,
		sessions: sessions,
		logger:   logger,
		validate: validator.New(),
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin team"`
	TeamID   string `json:"team_id,omitempty" validate:"omitempty,uuid"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string           `json:"token"`
	User  *repository.User `json:"user"`
}

// Register creates an operator account. Admin-only: accounts are provisioned
// by the league, not self-service.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "malformed request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if req.Role == auth.RoleTeam && req.TeamID == "" {
		writeValidationError(w, "team accounts require a team_id")
		return
	}

	hash, err := h.authSvc.HashPassword(req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user := &repository.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if req.TeamID != "" {
		teamID := uuid.MustParse(req.TeamID)
		user.TeamID = &teamID
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and issues a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "malformed request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		// Uniform response for unknown user and bad password.
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{
			Code:    "UNAUTHORIZED",
			Message: "invalid credentials",
		}})
		return
	}
	if err := h.authSvc.ComparePassword(user.PasswordHash, req.Password); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{
			Code:    "UNAUTHORIZED",
			Message: "invalid credentials",
		}})
		return
	}

	token, err := h.authSvc.GenerateToken(user.ID, user.Username, user.Role, user.TeamID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user logged in", "username", user.Username, "role", user.Role)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// Logout revokes the presented session token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{
			Code:    "UNAUTHORIZED",
			Message: "authentication required",
		}})
		return
	}

	if h.sessions != nil {
		remaining := time.Until(claims.ExpireAt)
		if err := h.sessions.Revoke(r.Context(), claims.TokenID, remaining); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

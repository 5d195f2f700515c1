package handler

import (
	"net/http"

	"github.com/fruta004-ux/olens-crm-api/internal/auth"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"go.uber.org/zap"
)

// AuthHandler exposes the authenticated user's own profile and the
// user directory used for owner and assignee pickers.
type AuthHandler struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewAuthHandler(userRepo *repository.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		// The login recorder may not have landed yet; answer from claims.
		respondJSON(w, http.StatusOK, map[string]string{
			"id":         userCtx.UserID,
			"name":       userCtx.DisplayName,
			"email":      userCtx.Email,
			"department": userCtx.Department,
		})
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// ListUsers returns the user directory, ordered by name.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

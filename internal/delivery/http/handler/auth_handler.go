package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OwnProfileReader interface {
	GetMyProfile(ctx context.Context, userID uuid.UUID) (*domain.ProfileView, error)
}

type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
}

type AuthHandler struct {
	profiles OwnProfileReader
	roles    RoleChecker
}

func NewAuthHandler(profiles OwnProfileReader, roles RoleChecker) *AuthHandler {
	return &AuthHandler{
		profiles: profiles,
		roles:    roles,
	}
}

type MeResponse struct {
	UserID    uuid.UUID  `json:"user_id"`
	ProfileID *uuid.UUID `json:"profile_id"`
	IsAdmin   bool       `json:"is_admin"`
}

// Me handles GET /auth/me
// @Summary Get current identity
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	resp := MeResponse{UserID: userID}
	profile, err := h.profiles.GetMyProfile(ctx, userID)
	switch {
	case err == nil:
		resp.ProfileID = &profile.ID
	case !errors.Is(err, domain.ErrNotFound):
		respondError(c, err, "failed to load profile")
		return
	}

	isAdmin, err := h.roles.HasRole(ctx, userID, domain.RoleAdmin)
	if err != nil {
		respondError(c, err, "failed to check role")
		return
	}
	resp.IsAdmin = isAdmin

	c.JSON(http.StatusOK, resp)
}

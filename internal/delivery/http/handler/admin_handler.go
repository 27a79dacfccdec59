package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminService interface {
	ListProfiles(ctx context.Context, limit, offset int) ([]*domain.ProfileView, error)
	SetVisibility(ctx context.Context, profileID uuid.UUID, isPublic, isActive bool) (*domain.Profile, error)
}

type AdminHandler struct {
	adminUseCase AdminService
}

func NewAdminHandler(adminUseCase AdminService) *AdminHandler {
	return &AdminHandler{adminUseCase: adminUseCase}
}

type SetVisibilityRequest struct {
	IsPublic *bool `json:"is_public" binding:"required"`
	IsActive *bool `json:"is_active" binding:"required"`
}

// ListProfiles handles GET /admin/profiles
// @Summary List all profiles, hidden ones included
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} domain.ProfileView
// @Failure 403 {object} ErrorResponse
// @Router /admin/profiles [get]
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	profiles, err := h.adminUseCase.ListProfiles(c.Request.Context(), deref(limit), deref(offset))
	if err != nil {
		respondError(c, err, "failed to list profiles")
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// SetVisibility handles PATCH /admin/profiles/:id/visibility
// @Summary Publish, hide, activate or deactivate a profile
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param request body SetVisibilityRequest true "Visibility flags"
// @Success 200 {object} domain.Profile
// @Failure 404 {object} ErrorResponse
// @Router /admin/profiles/{id}/visibility [patch]
func (h *AdminHandler) SetVisibility(c *gin.Context) {
	profileID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.adminUseCase.SetVisibility(c.Request.Context(), profileID, *req.IsPublic, *req.IsActive)
	if err != nil {
		respondError(c, err, "failed to update visibility")
		return
	}

	c.JSON(http.StatusOK, profile)
}

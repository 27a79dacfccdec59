package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/coparent-backend/internal/usecase/shortlist"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShortlistService interface {
	Add(ctx context.Context, userID, candidateProfileID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, candidateProfileID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*shortlist.ShortlistItem, error)
}

type ShortlistHandler struct {
	shortlistUseCase ShortlistService
}

func NewShortlistHandler(shortlistUseCase ShortlistService) *ShortlistHandler {
	return &ShortlistHandler{shortlistUseCase: shortlistUseCase}
}

type AddShortlistRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" binding:"required"`
}

// List handles GET /shortlist
// @Summary List my shortlist
// @Tags shortlist
// @Security BearerAuth
// @Produce json
// @Success 200 {array} shortlist.ShortlistItem
// @Router /shortlist [get]
func (h *ShortlistHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.shortlistUseCase.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list shortlist")
		return
	}

	c.JSON(http.StatusOK, items)
}

// Add handles POST /shortlist
// @Summary Shortlist a candidate profile
// @Description Adding an already shortlisted profile succeeds with 200.
// @Tags shortlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AddShortlistRequest true "Candidate profile"
// @Success 201 {object} SuccessResponse
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /shortlist [post]
func (h *ShortlistHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req AddShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	added, err := h.shortlistUseCase.Add(c.Request.Context(), userID, req.CandidateID)
	if err != nil {
		respondError(c, err, "failed to add to shortlist")
		return
	}

	if added {
		c.JSON(http.StatusCreated, SuccessResponse{Message: "added to shortlist"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "already shortlisted"})
}

// Remove handles DELETE /shortlist/:candidate_id
// @Summary Remove a candidate from my shortlist
// @Tags shortlist
// @Security BearerAuth
// @Produce json
// @Param candidate_id path string true "Candidate profile ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /shortlist/{candidate_id} [delete]
func (h *ShortlistHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	candidateID, ok := uuidParam(c, "candidate_id")
	if !ok {
		return
	}

	if err := h.shortlistUseCase.Remove(c.Request.Context(), userID, candidateID); err != nil {
		respondError(c, err, "failed to remove from shortlist")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "removed from shortlist"})
}

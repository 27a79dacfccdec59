package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gdugdh24/coparent-backend/internal/usecase/discover"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DiscoverService interface {
	Browse(ctx context.Context, viewerUserID uuid.UUID, filters discover.Filters, limit, offset int) (*discover.BrowseResult, error)
}

type DiscoverHandler struct {
	discoverUseCase DiscoverService
}

func NewDiscoverHandler(discoverUseCase DiscoverService) *DiscoverHandler {
	return &DiscoverHandler{discoverUseCase: discoverUseCase}
}

// Browse handles GET /discover
// @Summary Browse eligible candidate profiles
// @Tags discover
// @Security BearerAuth
// @Produce json
// @Param min_age query int false "Minimum age"
// @Param max_age query int false "Maximum age"
// @Param ethnicity query string false "Comma separated ethnicities"
// @Param language query string false "Comma separated languages"
// @Param looking_for query string false "Substring of looking_for"
// @Param custody_min query int false "Minimum custody percentage"
// @Param custody_max query int false "Maximum custody percentage"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} discover.BrowseResult
// @Failure 400 {object} ErrorResponse
// @Router /discover [get]
func (h *DiscoverHandler) Browse(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var filters discover.Filters
	if filters.MinAge, ok = queryInt(c, "min_age"); !ok {
		return
	}
	if filters.MaxAge, ok = queryInt(c, "max_age"); !ok {
		return
	}
	if filters.CustodyMin, ok = queryInt(c, "custody_min"); !ok {
		return
	}
	if filters.CustodyMax, ok = queryInt(c, "custody_max"); !ok {
		return
	}
	filters.Ethnicities = queryList(c, "ethnicity")
	filters.Languages = queryList(c, "language")
	filters.LookingFor = c.Query("looking_for")

	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	result, err := h.discoverUseCase.Browse(c.Request.Context(), userID, filters, deref(limit), deref(offset))
	if err != nil {
		respondError(c, err, "failed to browse profiles")
		return
	}

	c.JSON(http.StatusOK, result)
}

// queryList accepts both repeated parameters and comma separated values.
func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

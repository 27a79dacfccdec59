package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/usecase/guide"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GuideService interface {
	Prompts(ctx context.Context, conversationID, requesterID uuid.UUID, topicID domain.TopicID, language string) (*guide.Prompts, error)
}

type TopicHandler struct {
	tracker ConversationService
	guide   GuideService
}

func NewTopicHandler(tracker ConversationService, guide GuideService) *TopicHandler {
	return &TopicHandler{tracker: tracker, guide: guide}
}

type SetCoverageRequest struct {
	Covered *bool `json:"covered" binding:"required"`
}

type TopicCoverageResponse struct {
	*domain.ConversationTopic
	Status domain.TopicStatus `json:"status"`
}

// Catalog handles GET /topics
// @Summary List the discussion topic catalog
// @Tags topics
// @Produce json
// @Success 200 {array} domain.Topic
// @Router /topics [get]
func (h *TopicHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Topics())
}

// Checklist handles GET /conversations/:id/topics
// @Summary Topic coverage checklist
// @Description Every catalog topic with both parties' flags; topics never touched are reported as none.
// @Tags topics
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {array} domain.TopicChecklistItem
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/topics [get]
func (h *TopicHandler) Checklist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.tracker.GetTopics(c.Request.Context(), convID, userID)
	if err != nil {
		respondError(c, err, "failed to get topics")
		return
	}

	c.JSON(http.StatusOK, domain.BuildChecklist(rows))
}

// Seed handles POST /conversations/:id/topics/seed
// @Summary Create rows for every catalog topic
// @Tags topics
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {array} domain.TopicChecklistItem
// @Router /conversations/{id}/topics/seed [post]
func (h *TopicHandler) Seed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.tracker.SeedTopics(c.Request.Context(), convID, userID)
	if err != nil {
		respondError(c, err, "failed to seed topics")
		return
	}

	c.JSON(http.StatusOK, domain.BuildChecklist(rows))
}

// SetCoverage handles PUT /conversations/:id/topics/:topic_id
// @Summary Mark a topic as covered from my side
// @Tags topics
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param topic_id path string true "Topic ID"
// @Param request body SetCoverageRequest true "Coverage flag"
// @Success 200 {object} TopicCoverageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/topics/{topic_id} [put]
func (h *TopicHandler) SetCoverage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req SetCoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	row, err := h.tracker.SetTopicCoverage(c.Request.Context(), convID, userID, domain.TopicID(c.Param("topic_id")), *req.Covered)
	if err != nil {
		respondError(c, err, "failed to update topic")
		return
	}

	c.JSON(http.StatusOK, TopicCoverageResponse{ConversationTopic: row, Status: row.Status()})
}

// Prompts handles GET /conversations/:id/topics/:topic_id/prompts
// @Summary Discussion prompts for a topic
// @Tags topics
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Param topic_id path string true "Topic ID"
// @Param lang query string false "Prompt language"
// @Success 200 {object} guide.Prompts
// @Router /conversations/{id}/topics/{topic_id}/prompts [get]
func (h *TopicHandler) Prompts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	prompts, err := h.guide.Prompts(c.Request.Context(), convID, userID, domain.TopicID(c.Param("topic_id")), c.Query("lang"))
	if err != nil {
		respondError(c, err, "failed to get prompts")
		return
	}

	c.JSON(http.StatusOK, prompts)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConversationService is the conversation tracker as seen by HTTP.
type ConversationService interface {
	GetOrCreate(ctx context.Context, currentUserID, candidateID uuid.UUID) (*domain.ConversationDetail, bool, error)
	Get(ctx context.Context, conversationID, requesterID uuid.UUID) (*domain.ConversationDetail, error)
	ListForUser(ctx context.Context, currentUserID uuid.UUID) ([]*domain.ConversationDetail, error)
	SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, text string) (*domain.Message, error)
	ListMessages(ctx context.Context, conversationID, requesterID uuid.UUID, since *time.Time) ([]*domain.Message, error)
	UpdateStatus(ctx context.Context, conversationID, requesterID uuid.UUID, status domain.ConversationStatus) (*domain.Conversation, error)
	GetTopics(ctx context.Context, conversationID, requesterID uuid.UUID) ([]*domain.ConversationTopic, error)
	SetTopicCoverage(ctx context.Context, conversationID, requesterID uuid.UUID, topicID domain.TopicID, covered bool) (*domain.ConversationTopic, error)
	SeedTopics(ctx context.Context, conversationID, requesterID uuid.UUID) ([]*domain.ConversationTopic, error)
}

type ConversationHandler struct {
	tracker ConversationService
}

func NewConversationHandler(tracker ConversationService) *ConversationHandler {
	return &ConversationHandler{tracker: tracker}
}

type StartConversationRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" binding:"required"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type UpdateStatusRequest struct {
	Status domain.ConversationStatus `json:"status" binding:"required"`
}

// List handles GET /conversations
// @Summary List my conversations
// @Tags conversations
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.ConversationDetail
// @Router /conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.tracker.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list conversations")
		return
	}

	c.JSON(http.StatusOK, list)
}

// Start handles POST /conversations
// @Summary Get or create the conversation with a candidate
// @Description Returns 201 when the conversation was created by this call and 200 when it already existed.
// @Tags conversations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body StartConversationRequest true "Candidate identity"
// @Success 201 {object} domain.ConversationDetail
// @Success 200 {object} domain.ConversationDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /conversations [post]
func (h *ConversationHandler) Start(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	detail, created, err := h.tracker.GetOrCreate(c.Request.Context(), userID, req.CandidateID)
	if err != nil {
		respondError(c, err, "failed to start conversation")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, detail)
}

// Get handles GET /conversations/:id
// @Summary Get a conversation
// @Tags conversations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} domain.ConversationDetail
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /conversations/{id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.tracker.Get(c.Request.Context(), convID, userID)
	if err != nil {
		respondError(c, err, "failed to get conversation")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateStatus handles PATCH /conversations/:id/status
// @Summary Change conversation status
// @Tags conversations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} domain.Conversation
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/status [patch]
func (h *ConversationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	conv, err := h.tracker.UpdateStatus(c.Request.Context(), convID, userID, req.Status)
	if err != nil {
		respondError(c, err, "failed to update status")
		return
	}

	c.JSON(http.StatusOK, conv)
}

// ListMessages handles GET /conversations/:id/messages
// @Summary Poll messages
// @Description Pass since (RFC 3339) to receive only messages created after it.
// @Tags conversations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Param since query string false "Exclusive lower bound"
// @Success 200 {array} domain.Message
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/messages [get]
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "since must be an RFC 3339 timestamp", Field: "since"})
			return
		}
		since = &t
	}

	msgs, err := h.tracker.ListMessages(c.Request.Context(), convID, userID, since)
	if err != nil {
		respondError(c, err, "failed to list messages")
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// SendMessage handles POST /conversations/:id/messages
// @Summary Send a message
// @Tags conversations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/messages [post]
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	// text is validated by the tracker so whitespace-only bodies get the same error
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	msg, err := h.tracker.SendMessage(c.Request.Context(), convID, userID, req.Text)
	if err != nil {
		respondError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, msg)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"board-service/internal/middleware"
	"board-service/internal/models"
	"board-service/internal/observability"
	"board-service/internal/service"
	"board-service/internal/telemetry"
)

// MessageHandler exposes the message lifecycle over HTTP. It only translates
// transport input into service calls and error kinds into statuses; every
// business rule lives in the service.
type MessageHandler struct {
	svc     *service.MessageService
	emitter *telemetry.AuditEmitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(svc *service.MessageService, emitter *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{svc: svc, emitter: emitter}
}

// PostMessage creates a message on an owner's board. Open to any visitor;
// an absent author means an anonymous post.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	var req struct {
		UID     string         `json:"uid"`
		Message string         `json:"message"`
		Author  *models.Author `json:"author"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.svc.Post(c.Request.Context(), req.UID, req.Message, req.Author)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	observability.IncMessageCreated()
	h.emit(c, "posted", msg)
	c.JSON(http.StatusCreated, msg)
}

// ListMessages returns one page of an owner's message history.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	ownerUID := c.Query("uid")
	page := positiveIntQuery(c, "page", service.DefaultPage)
	size := positiveIntQuery(c, "size", service.DefaultSize)

	list, err := h.svc.List(c.Request.Context(), ownerUID, page, size, middleware.TokenFromContext(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetMessage returns a single message by owner and id.
func (h *MessageHandler) GetMessage(c *gin.Context) {
	msg, err := h.svc.Get(c.Request.Context(), c.Query("uid"), c.Param("message_id"), middleware.TokenFromContext(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// PostReply appends the owner's one-time reply to a message.
func (h *MessageHandler) PostReply(c *gin.Context) {
	var req struct {
		UID   string `json:"uid"`
		Reply string `json:"reply"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.svc.PostReply(c.Request.Context(), middleware.TokenFromContext(c), req.UID, c.Param("message_id"), req.Reply)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	observability.IncMessageReplied()
	h.emit(c, "replied", msg)
	c.JSON(http.StatusCreated, msg)
}

// UpdateMessage toggles the deny flag on a message.
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	var req struct {
		UID  string `json:"uid"`
		Deny *bool  `json:"deny"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.svc.UpdateMessage(c.Request.Context(), middleware.TokenFromContext(c), req.UID, c.Param("message_id"), req.Deny)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	observability.IncMessageModerated(msg.Denied())
	h.emit(c, "moderated", msg)
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) emit(c *gin.Context, eventType string, msg models.Message) {
	if h.emitter == nil {
		return
	}
	h.emitter.Emit(c.Request.Context(), eventType, msg.OwnerUID, msg.ID, requestIDFromContext(c), observability.IPFromRequest(c.Request))
}

// writeServiceError maps each service error kind to its transport status.
func writeServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, service.ErrNoCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
	case errors.Is(err, service.ErrAlreadyReplied):
		c.JSON(http.StatusConflict, gin.H{"error": "message already has a reply"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

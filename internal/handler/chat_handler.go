package handler

import (
	"net/http"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles direct-message HTTP endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessage godoc
// @Summary Send a direct message
// @Description Send a message to another user. The conversation is keyed by the participant pair; any client-supplied conversation_id is overridden.
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.SendMessageRequest true "Send message request"
// @Success 201 {object} model.DirectMessage
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	msg, err := h.chatService.Send(c.Request.Context(), userID, req.RecipientID, req.Body, req.Attachments, req.ConversationID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// GetConversations godoc
// @Summary List the current user's conversations
// @Description Returns the latest message of each conversation the user participates in, newest first.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.DirectMessage
// @Router /conversations [get]
func (h *ChatHandler) GetConversations(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	summaries, err := h.chatService.ConversationSummaries(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetMessages godoc
// @Summary Get all messages of a conversation
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param key path string true "Conversation key"
// @Success 200 {array} model.DirectMessage
// @Failure 403 {object} model.ErrorResponse
// @Router /conversations/{key}/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	messages, err := h.chatService.List(c.Param("key"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// MarkAsRead godoc
// @Summary Mark all messages in a conversation as read
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param key path string true "Conversation key"
// @Success 200 {object} model.SuccessResponse
// @Router /conversations/{key}/read [post]
func (h *ChatHandler) MarkAsRead(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	if err := h.chatService.MarkRead(c.Param("key"), userID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Messages marked as read"})
}

// DeleteConversation godoc
// @Summary Delete a conversation's messages and attachments
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param key path string true "Conversation key"
// @Success 200 {object} model.SuccessResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /conversations/{key} [delete]
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	if err := h.chatService.DeleteConversation(c.Request.Context(), c.Param("key"), userID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Conversation deleted"})
}

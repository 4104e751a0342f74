// internal/handlers/message.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/middleware"
	"github.com/javajoker/agrimarket-backend/internal/services"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// GET /api/messages/conversations
func (h *MessageHandler) GetConversations(c *gin.Context) {
	users, err := h.messageService.ListConversationPeers(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, users)
}

// GET /api/messages/history/:other_user_id
func (h *MessageHandler) GetHistory(c *gin.Context) {
	otherID, ok := idParam(c, "other_user_id", i18n.KeyUserNotFound)
	if !ok {
		return
	}

	messages, err := h.messageService.History(c.Request.Context(), middleware.CurrentUser(c).ID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, messages)
}

// POST /api/messages/send
func (h *MessageHandler) SendMessage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if _, err := h.messageService.Send(c.Request.Context(), middleware.CurrentUser(c).ID, &req); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusCreated, i18n.T(lang, i18n.KeyMessageSent))
}

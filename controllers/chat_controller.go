package controllers

import (
	"net/http"

	"pupcare/services"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

type askInput struct {
	Question string `json:"question" binding:"required"`
	Range    string `json:"range"`
}

// POST /puppies/:id/chat
func (cc *ChatController) Ask(c *gin.Context) {
	var in askInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key, ok := services.ParseRange(in.Range)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be 7d, 30d, ytd or all"})
		return
	}

	out, err := cc.Chat.Ask(c.Request.Context(), puppyIDFromCtx(c), in.Question, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

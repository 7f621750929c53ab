package controllers

import (
	"Spotter/services/chat"
	"Spotter/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type sendMessageRequest struct {
	Text string `json:"text"`
}

// failChat maps chat service errors onto the REST error taxonomy.
func failChat(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrMatchNotFound):
		utils.Fail(c, http.StatusNotFound, "Match not found")
	case errors.Is(err, chat.ErrNotParticipant):
		utils.Fail(c, http.StatusForbidden, "You are not part of this match")
	case errors.Is(err, chat.ErrEmptyText), errors.Is(err, chat.ErrTextTooLong):
		utils.Fail(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[CHAT] unexpected error: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// ListMatches godoc
// @Summary List the caller's matches
// @Description Every match containing the caller with counterparty profile, last message and unread count, newest match first.
// @Tags matches
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/matches [get]
// @Security ApiKeyAuth
func ListMatches(db *gorm.DB, chatService *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		summaries, err := chatService.ListMatches(user)
		if err != nil {
			failChat(c, err)
			return
		}
		utils.Success(c, http.StatusOK, summaries)
	}
}

// GetMatchMessages godoc
// @Summary Get the full message history of a match
// @Tags matches
// @Produce json
// @Param id path string true "Match id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/matches/{id}/messages [get]
// @Security ApiKeyAuth
func GetMatchMessages(db *gorm.DB, chatService *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		match, counterparty, messages, err := chatService.ListMessages(c.Param("id"), user)
		if err != nil {
			failChat(c, err)
			return
		}

		utils.Success(c, http.StatusOK, gin.H{
			"match": gin.H{
				"id":        match.ID,
				"createdAt": match.CreatedAt,
			},
			"counterparty": counterparty.Public(),
			"messages":     messages,
		})
	}
}

// SendMatchMessage godoc
// @Summary Send a message in a match
// @Description Persists the message and responds immediately; the push to the counterparty is queued and not awaited.
// @Tags matches
// @Accept json
// @Produce json
// @Param id path string true "Match id"
// @Param body body sendMessageRequest true "Message"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/matches/{id}/messages [post]
// @Security ApiKeyAuth
func SendMatchMessage(db *gorm.DB, chatService *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		message, err := chatService.CreateMessage(c.Param("id"), user, req.Text)
		if err != nil {
			failChat(c, err)
			return
		}
		utils.Success(c, http.StatusCreated, message)
	}
}

package controllers

import (
	models "Spotter/models/postgres"
	"Spotter/services/push"
	"Spotter/utils"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createInvitationRequest struct {
	RecipientUsername string    `json:"recipientUsername" binding:"required"`
	Activity          string    `json:"activity" binding:"required,max=200"`
	ProposedAt        time.Time `json:"proposedAt" binding:"required"`
}

type updateInvitationRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted declined cancelled"`
}

// CreateInvitation godoc
// @Summary Invite another user to work out
// @Tags invitations
// @Accept json
// @Produce json
// @Param body body createInvitationRequest true "Invitation"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/invitations [post]
// @Security ApiKeyAuth
func CreateInvitation(db *gorm.DB, dispatcher *push.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req createInvitationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var recipient models.User
		if err := db.Where("username = ?", req.RecipientUsername).First(&recipient).Error; err != nil {
			utils.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		if recipient.ID == user.ID {
			utils.Fail(c, http.StatusBadRequest, "You cannot invite yourself")
			return
		}

		invitation := models.Invitation{
			SenderID:    user.ID,
			RecipientID: recipient.ID,
			Activity:    req.Activity,
			ProposedAt:  req.ProposedAt,
			Status:      models.InvitationPending,
		}
		if err := db.Create(&invitation).Error; err != nil {
			log.Printf("[INVITE] creating invitation: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		if dispatcher != nil {
			dispatcher.Enqueue(recipient.ID, "New workout invitation",
				fmt.Sprintf("%s wants to work out with you", user.DisplayName),
				map[string]string{"type": "invitation", "invitationId": invitation.ID})
		}

		utils.Success(c, http.StatusCreated, invitation)
	}
}

// ListInvitations godoc
// @Summary List invitations
// @Description box=received (default) or box=sent.
// @Tags invitations
// @Produce json
// @Param box query string false "received or sent"
// @Success 200 {object} map[string]interface{}
// @Router /auth/invitations [get]
// @Security ApiKeyAuth
func ListInvitations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		query := db.Order("created_at DESC")
		if c.DefaultQuery("box", "received") == "sent" {
			query = query.Where("sender_id = ?", user.ID)
		} else {
			query = query.Where("recipient_id = ?", user.ID)
		}

		var invitations []models.Invitation
		if err := query.Find(&invitations).Error; err != nil {
			log.Printf("[INVITE] listing invitations: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.Success(c, http.StatusOK, invitations)
	}
}

// UpdateInvitation godoc
// @Summary Accept, decline or cancel an invitation
// @Description The recipient may accept/decline, the sender may cancel; only transitions out of pending are allowed.
// @Tags invitations
// @Accept json
// @Produce json
// @Param id path string true "Invitation id"
// @Param body body updateInvitationRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/invitations/{id} [patch]
// @Security ApiKeyAuth
func UpdateInvitation(db *gorm.DB, dispatcher *push.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req updateInvitationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var invitation models.Invitation
		if err := db.Where("id = ?", c.Param("id")).First(&invitation).Error; err != nil {
			utils.Fail(c, http.StatusNotFound, "Invitation not found")
			return
		}

		switch req.Status {
		case models.InvitationAccepted, models.InvitationDeclined:
			if invitation.RecipientID != user.ID {
				utils.Fail(c, http.StatusForbidden, "Only the recipient can accept or decline")
				return
			}
		case models.InvitationCancelled:
			if invitation.SenderID != user.ID {
				utils.Fail(c, http.StatusForbidden, "Only the sender can cancel")
				return
			}
		}

		if !models.ValidInvitationTransition(invitation.Status, req.Status) {
			utils.Fail(c, http.StatusBadRequest,
				fmt.Sprintf("Cannot change status from %s to %s", invitation.Status, req.Status))
			return
		}

		invitation.Status = req.Status
		if err := db.Save(&invitation).Error; err != nil {
			log.Printf("[INVITE] updating invitation %s: %v", invitation.ID, err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		if dispatcher != nil && req.Status == models.InvitationAccepted {
			dispatcher.Enqueue(invitation.SenderID, "Invitation accepted",
				fmt.Sprintf("%s accepted your workout invitation", user.DisplayName),
				map[string]string{"type": "invitation", "invitationId": invitation.ID})
		}

		utils.Success(c, http.StatusOK, invitation)
	}
}

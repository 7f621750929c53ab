package controllers

import (
	models "Spotter/models/postgres"
	"Spotter/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type registerTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=ios android"`
}

type deleteTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterPushToken godoc
// @Summary Register a device push token
// @Description Upsert: re-registering an existing token reassigns it to the caller.
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body registerTokenRequest true "Token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /auth/notifications/token [post]
// @Security ApiKeyAuth
func RegisterPushToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req registerTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		token := models.PushToken{
			Token:    req.Token,
			UserID:   user.ID,
			Platform: req.Platform,
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
		}).Create(&token).Error
		if err != nil {
			log.Printf("[PUSH-TOKEN] upserting token: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.Success(c, http.StatusOK, token)
	}
}

// DeletePushToken godoc
// @Summary Delete a device push token
// @Description Idempotent: deleting an unknown token still answers 200.
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body deleteTokenRequest true "Token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /auth/notifications/token [delete]
// @Security ApiKeyAuth
func DeletePushToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req deleteTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		err = db.Where("token = ? AND user_id = ?", req.Token, user.ID).
			Delete(&models.PushToken{}).Error
		if err != nil {
			log.Printf("[PUSH-TOKEN] deleting token: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.Success(c, http.StatusOK, gin.H{"message": "Token deleted"})
	}
}

package controllers

import (
	models "Spotter/models/postgres"
	"Spotter/services/push"
	"Spotter/utils"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type swipeRequest struct {
	TargetUsername string `json:"targetUsername" binding:"required"`
	Action         string `json:"action" binding:"required,oneof=like pass"`
}

// PostSwipe godoc
// @Summary Swipe on a candidate
// @Description Records a like or pass. A mutual like creates the match and notifies both users.
// @Tags swipes
// @Accept json
// @Produce json
// @Param body body swipeRequest true "Swipe"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/swipes [post]
// @Security ApiKeyAuth
func PostSwipe(db *gorm.DB, dispatcher *push.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req swipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var target models.User
		if err := db.Where("username = ?", req.TargetUsername).First(&target).Error; err != nil {
			utils.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		if target.ID == user.ID {
			utils.Fail(c, http.StatusBadRequest, "You cannot swipe on yourself")
			return
		}

		var existing int64
		db.Model(&models.Swipe{}).
			Where("actor_id = ? AND target_id = ?", user.ID, target.ID).
			Count(&existing)
		if existing > 0 {
			utils.Fail(c, http.StatusBadRequest, "You already swiped on this user")
			return
		}

		swipe := models.Swipe{
			ActorID:  user.ID,
			TargetID: target.ID,
			Action:   req.Action,
		}
		if err := db.Create(&swipe).Error; err != nil {
			log.Printf("[SWIPE] creating swipe: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		if req.Action != models.SwipeLike {
			utils.Success(c, http.StatusCreated, gin.H{"matched": false})
			return
		}

		// Mutual like?
		var reverse int64
		db.Model(&models.Swipe{}).
			Where("actor_id = ? AND target_id = ? AND action = ?", target.ID, user.ID, models.SwipeLike).
			Count(&reverse)
		if reverse == 0 {
			utils.Success(c, http.StatusCreated, gin.H{"matched": false})
			return
		}

		alreadyMatched, err := utils.MatchExists(db, user.ID, target.ID)
		if err != nil {
			log.Printf("[SWIPE] checking existing match: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if alreadyMatched {
			utils.Success(c, http.StatusCreated, gin.H{"matched": false})
			return
		}

		match := models.Match{UserAID: user.ID, UserBID: target.ID}
		if err := db.Create(&match).Error; err != nil {
			log.Printf("[SWIPE] creating match: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		if dispatcher != nil {
			data := map[string]string{"type": "match", "matchId": match.ID}
			dispatcher.Enqueue(target.ID, "It's a match!",
				fmt.Sprintf("You and %s liked each other", user.DisplayName), data)
			dispatcher.Enqueue(user.ID, "It's a match!",
				fmt.Sprintf("You and %s liked each other", target.DisplayName), data)
		}

		utils.Success(c, http.StatusCreated, gin.H{"matched": true, "match": match})
	}
}

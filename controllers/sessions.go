package controllers

import (
	models "Spotter/models/postgres"
	"Spotter/utils"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createSessionRequest struct {
	Title       string    `json:"title" binding:"required,max=100"`
	Activity    string    `json:"activity" binding:"required,max=100"`
	Location    string    `json:"location" binding:"max=200"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}

type updateSessionRequest struct {
	Status string `json:"status" binding:"required,oneof=completed cancelled"`
}

// CreateSession godoc
// @Summary Schedule a workout session
// @Description The creator is added as the first participant.
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body createSessionRequest true "Session"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /auth/sessions [post]
// @Security ApiKeyAuth
func CreateSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		session := models.WorkoutSession{
			CreatorID:   user.ID,
			Title:       req.Title,
			Activity:    req.Activity,
			Location:    req.Location,
			ScheduledAt: req.ScheduledAt,
			Status:      models.SessionScheduled,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&session).Error; err != nil {
				return err
			}
			return tx.Create(&models.SessionParticipant{
				SessionID: session.ID,
				UserID:    user.ID,
			}).Error
		})
		if err != nil {
			log.Printf("[SESSION] creating session: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.Success(c, http.StatusCreated, session)
	}
}

// ListSessions godoc
// @Summary List the caller's workout sessions
// @Description Sessions the caller created or joined, soonest first.
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/sessions [get]
// @Security ApiKeyAuth
func ListSessions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		joined := db.Model(&models.SessionParticipant{}).
			Select("session_id").
			Where("user_id = ?", user.ID)

		var sessions []models.WorkoutSession
		err = db.Where("creator_id = ? OR id IN (?)", user.ID, joined).
			Order("scheduled_at ASC").
			Find(&sessions).Error
		if err != nil {
			log.Printf("[SESSION] listing sessions: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.Success(c, http.StatusOK, sessions)
	}
}

// JoinSession godoc
// @Summary Join a scheduled workout session
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/sessions/{id}/join [post]
// @Security ApiKeyAuth
func JoinSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var session models.WorkoutSession
		if err := db.Where("id = ?", c.Param("id")).First(&session).Error; err != nil {
			utils.Fail(c, http.StatusNotFound, "Session not found")
			return
		}
		if session.Status != models.SessionScheduled {
			utils.Fail(c, http.StatusBadRequest, "Session is no longer open")
			return
		}

		var existing int64
		db.Model(&models.SessionParticipant{}).
			Where("session_id = ? AND user_id = ?", session.ID, user.ID).
			Count(&existing)
		if existing > 0 {
			utils.Fail(c, http.StatusBadRequest, "You already joined this session")
			return
		}

		participant := models.SessionParticipant{SessionID: session.ID, UserID: user.ID}
		if err := db.Create(&participant).Error; err != nil {
			log.Printf("[SESSION] joining session %s: %v", session.ID, err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.Success(c, http.StatusOK, participant)
	}
}

// UpdateSession godoc
// @Summary Complete or cancel a session
// @Description Creator only; only transitions out of scheduled are allowed.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body updateSessionRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/sessions/{id} [patch]
// @Security ApiKeyAuth
func UpdateSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req updateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var session models.WorkoutSession
		if err := db.Where("id = ?", c.Param("id")).First(&session).Error; err != nil {
			utils.Fail(c, http.StatusNotFound, "Session not found")
			return
		}
		if session.CreatorID != user.ID {
			utils.Fail(c, http.StatusForbidden, "Only the creator can update a session")
			return
		}

		if !models.ValidSessionTransition(session.Status, req.Status) {
			utils.Fail(c, http.StatusBadRequest,
				fmt.Sprintf("Cannot change status from %s to %s", session.Status, req.Status))
			return
		}

		session.Status = req.Status
		if err := db.Save(&session).Error; err != nil {
			log.Printf("[SESSION] updating session %s: %v", session.ID, err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.Success(c, http.StatusOK, session)
	}
}

package controllers

import (
	models "Spotter/models/postgres"
	"Spotter/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type updateProfileRequest struct {
	DisplayName *string         `json:"displayName"`
	Bio         *string         `json:"bio"`
	City        *string         `json:"city"`
	Preferences *datatypes.JSON `json:"preferences"`
}

// GetMyProfile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func GetMyProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}
		utils.Success(c, http.StatusOK, user)
	}
}

// UpdateMyProfile godoc
// @Summary Update profile fields
// @Description Partial update: only the fields present in the body change.
// @Tags users
// @Accept json
// @Produce json
// @Param body body updateProfileRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /auth/me [patch]
// @Security ApiKeyAuth
func UpdateMyProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		if req.DisplayName != nil {
			user.DisplayName = *req.DisplayName
		}
		if req.Bio != nil {
			user.Bio = *req.Bio
		}
		if req.City != nil {
			user.City = *req.City
		}
		if req.Preferences != nil {
			user.Preferences = *req.Preferences
		}

		if err := db.Save(user).Error; err != nil {
			log.Printf("[PROFILE] saving user %d: %v", user.ID, err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.Success(c, http.StatusOK, user)
	}
}

// GetUserPublicInfo godoc
// @Summary Get another user's public profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /auth/users/{username} [get]
// @Security ApiKeyAuth
func GetUserPublicInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := utils.CurrentUser(db, c); err != nil {
			return
		}

		var user models.User
		if err := db.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
			utils.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		utils.Success(c, http.StatusOK, user.Public())
	}
}

// Discover godoc
// @Summary List candidate workout partners
// @Description Users the caller has not swiped on yet, excluding themselves. Optional city filter.
// @Tags users
// @Produce json
// @Param city query string false "Filter by city"
// @Success 200 {object} map[string]interface{}
// @Router /auth/discover [get]
// @Security ApiKeyAuth
func Discover(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CurrentUser(db, c)
		if err != nil {
			return
		}

		// Anyone already swiped on (liked or passed) stays hidden; matched
		// users are a subset of liked ones, so this also hides matches.
		swiped := db.Model(&models.Swipe{}).
			Select("target_id").
			Where("actor_id = ?", user.ID)

		query := db.Model(&models.User{}).
			Where("id <> ?", user.ID).
			Where("id NOT IN (?)", swiped)
		if city := c.Query("city"); city != "" {
			query = query.Where("city = ?", city)
		}

		var candidates []models.User
		if err := query.Order("created_at DESC").Find(&candidates).Error; err != nil {
			log.Printf("[DISCOVER] fetching candidates: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		profiles := make([]models.PublicProfile, len(candidates))
		for i, candidate := range candidates {
			profiles[i] = candidate.Public()
		}
		utils.Success(c, http.StatusOK, profiles)
	}
}

package utils

import (
	"Spotter/middleware"
	models "Spotter/models/postgres"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUser resolves the authenticated caller from the bearer token. On
// failure the response has already been written; callers just return.
func CurrentUser(db *gorm.DB, c *gin.Context) (*models.User, error) {
	email, err := middleware.JWT_decoder(c)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false, "error": "User not found",
		})
		return nil, err
	}
	return &user, nil
}

// FindMatch fetches a match by id, mapping the gorm not-found error to nil.
func FindMatch(db *gorm.DB, matchID string) (*models.Match, error) {
	var match models.Match
	if err := db.Where("id = ?", matchID).First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

// MatchExists reports whether two users already have a match, regardless of
// the order the pair is stored in.
func MatchExists(db *gorm.DB, userA, userB uint) (bool, error) {
	if userA > userB {
		userA, userB = userB, userA
	}
	var count int64
	err := db.Model(&models.Match{}).
		Where("user_a_id = ? AND user_b_id = ?", userA, userB).
		Count(&count).Error
	return count > 0, err
}

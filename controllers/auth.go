package controllers

import (
	"Spotter/middleware"
	models "Spotter/models/postgres"
	"Spotter/utils"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type signUpRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp godoc
// @Summary Create an account
// @Description Registers a new user and returns the profile plus a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signUpRequest true "Account data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var count int64
		db.Model(&models.User{}).
			Where("email = ? OR username = ?", req.Email, req.Username).
			Count(&count)
		if count > 0 {
			utils.Fail(c, http.StatusConflict, "Email or username already taken")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[SIGNUP] hashing password: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		user := models.User{
			Email:        req.Email,
			Username:     req.Username,
			PasswordHash: string(hash),
			DisplayName:  req.DisplayName,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("[SIGNUP] creating user: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		token, err := middleware.GenerateJWT(user.Email)
		if err != nil {
			log.Printf("[SIGNUP] issuing token: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		utils.Success(c, http.StatusCreated, gin.H{"user": user, "token": token})
	}
}

// Login godoc
// @Summary Log in
// @Description Returns the profile and a bearer token; also sets the cookie session used by the web client.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		token, err := middleware.GenerateJWT(user.Email)
		if err != nil {
			log.Printf("[LOGIN] issuing token: %v", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		session := sessions.Default(c)
		session.Set("Email", user.Email)
		if err := session.Save(); err != nil {
			log.Printf("[LOGIN] saving session: %v", err)
		}

		utils.Success(c, http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// Logout godoc
// @Summary Log out
// @Description Deletes the cookie session of the web client. Bearer tokens stay valid until expiry.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [delete]
// @Security ApiKeyAuth
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete("Email")
	if err := session.Save(); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to save session")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"message": "Successfully logged out"})
}

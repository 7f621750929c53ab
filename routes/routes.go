package routes

import (
	"Spotter/controllers"
	"Spotter/middleware"
	"Spotter/services/chat"
	"Spotter/services/push"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, chatService *chat.Service, dispatcher *push.Dispatcher) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/signup", controllers.SignUp(db))

	api.POST("/login", controllers.Login(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.GetMyProfile(db))
		authentication.PATCH("/me", controllers.UpdateMyProfile(db))
		authentication.GET("/users/:username", controllers.GetUserPublicInfo(db))

		authentication.GET("/discover", controllers.Discover(db))
		authentication.POST("/swipes", controllers.PostSwipe(db, dispatcher))

		authentication.GET("/matches", controllers.ListMatches(db, chatService))
		authentication.GET("/matches/:id/messages", controllers.GetMatchMessages(db, chatService))
		authentication.POST("/matches/:id/messages", controllers.SendMatchMessage(db, chatService))

		authentication.POST("/notifications/token", controllers.RegisterPushToken(db))
		authentication.DELETE("/notifications/token", controllers.DeletePushToken(db))

		authentication.POST("/invitations", controllers.CreateInvitation(db, dispatcher))
		authentication.GET("/invitations", controllers.ListInvitations(db))
		authentication.PATCH("/invitations/:id", controllers.UpdateInvitation(db, dispatcher))

		authentication.POST("/sessions", controllers.CreateSession(db))
		authentication.GET("/sessions", controllers.ListSessions(db))
		authentication.POST("/sessions/:id/join", controllers.JoinSession(db))
		authentication.PATCH("/sessions/:id", controllers.UpdateSession(db))
	}
}

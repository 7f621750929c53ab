package socketio_utils

import (
	"Spotter/middleware"
	models "Spotter/models/postgres"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// VerifyUserConnection authenticates a socket.io client from its handshake
// auth object and resolves the matching user row. On failure it emits an
// "error" event and the connection is left unregistered.
func VerifyUserConnection(client *socket.Socket, db *gorm.DB) (bool, *models.User) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		log.Println("[SOCKET-AUTH] no auth data provided in handshake")
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return false, nil
	}

	email, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		log.Printf("[SOCKET-AUTH] invalid JWT: %v", err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Set it on the 'authorization' field with the 'Bearer ' prefix.",
		})
		return false, nil
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Printf("[SOCKET-AUTH] user lookup failed: %v", err)
		client.Emit("error", gin.H{"error": "Authentication failed: could not find user"})
		return false, nil
	}

	return true, &user
}

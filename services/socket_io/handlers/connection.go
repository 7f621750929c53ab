package handlers

import (
	models "Spotter/models/postgres"
	"Spotter/services/redis"
	socketio_types "Spotter/services/socket_io/types"
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

// HandleDisconnecting cleans up when a socket.io client goes away: registry
// entry, active room tracking and redis presence.
func HandleDisconnecting(user *models.User, client *socket.Socket,
	sio *socketio_types.SocketServer, redisClient *redis.RedisClient) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] user %s disconnecting", user.Username)

		sio.RemoveConnection(user.Username, client)

		if err := redisClient.SetUserOffline(user.Username); err != nil {
			log.Printf("[DISCONNECT-ERROR] clearing presence for %s: %v", user.Username, err)
		}

		log.Printf("[DISCONNECT-DONE] user %s disconnected", user.Username)
	}
}

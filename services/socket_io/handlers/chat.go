package handlers

import (
	models "Spotter/models/postgres"
	"Spotter/services/chat"
	"Spotter/services/redis"
	socketio_types "Spotter/services/socket_io/types"
	"Spotter/utils"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// matchIDArg extracts the match id from the first event argument. Clients
// may send it positionally ("m1") or as an object ({"matchId": "m1"}).
func matchIDArg(args []interface{}) (string, bool) {
	if len(args) < 1 {
		return "", false
	}
	switch v := args[0].(type) {
	case string:
		return v, v != ""
	case map[string]interface{}:
		matchID, ok := v["matchId"].(string)
		return matchID, ok && matchID != ""
	}
	return "", false
}

// messageArgs extracts match id and text from a send_message event, either
// positional ("m1", "hey") or an object ({"matchId": "m1", "text": "hey"}).
// Text bounds are not checked here; the chat service validates them.
func messageArgs(args []interface{}) (string, string, bool) {
	if len(args) < 1 {
		return "", "", false
	}
	if payload, ok := args[0].(map[string]interface{}); ok {
		matchID, idOK := payload["matchId"].(string)
		text, textOK := payload["text"].(string)
		return matchID, text, idOK && matchID != "" && textOK
	}
	if len(args) < 2 {
		return "", "", false
	}
	matchID, ok := args[0].(string)
	if !ok || matchID == "" {
		return "", "", false
	}
	text, ok := args[1].(string)
	return matchID, text, ok
}

// HandleJoinChat puts the client in the room of one of their matches. A
// connection has at most one active chat room: joining a new one leaves the
// previous room implicitly.
func HandleJoinChat(db *gorm.DB, redisClient *redis.RedisClient, client *socket.Socket,
	user *models.User, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		matchID, ok := matchIDArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid match id"})
			return
		}

		match, err := utils.FindMatch(db, matchID)
		if err != nil {
			log.Printf("[JOIN-ERROR] fetching match %s: %v", matchID, err)
			client.Emit("error", gin.H{"error": "Database error"})
			return
		}
		if match == nil {
			client.Emit("error", gin.H{"error": "Match not found"})
			return
		}
		if !match.HasParticipant(user.ID) {
			client.Emit("error", gin.H{"error": "You are not part of this match"})
			return
		}

		room := socket.Room(matchID)
		if previous := sio.SetActiveRoom(user.Username, room); previous != "" && previous != room {
			client.Leave(previous)
		}
		client.Join(room)

		// Opening the chat reads it
		if err := redisClient.ResetUnread(matchID, user.ID); err != nil {
			log.Printf("[JOIN] resetting unread for match %s: %v", matchID, err)
		}

		log.Printf("[JOIN] user %s joined chat %s", user.Username, matchID)
		client.Emit("chat_joined", gin.H{"matchId": matchID})
	}
}

// HandleLeaveChat removes the client from a match room.
func HandleLeaveChat(client *socket.Socket, user *models.User,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		matchID, ok := matchIDArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid match id"})
			return
		}

		client.Leave(socket.Room(matchID))
		if room, exists := sio.GetActiveRoom(user.Username); exists && room == socket.Room(matchID) {
			sio.ClearActiveRoom(user.Username)
		}
		log.Printf("[LEAVE] user %s left chat %s", user.Username, matchID)
	}
}

// HandleSendMessage persists a message through the same service path as the
// REST endpoint; the service takes care of the new_message broadcast, the
// unread bump and the push to the counterparty.
func HandleSendMessage(chatService *chat.Service, client *socket.Socket,
	user *models.User) func(args ...interface{}) {
	return func(args ...interface{}) {
		matchID, text, ok := messageArgs(args)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid message format"})
			return
		}

		message, err := chatService.CreateMessage(matchID, user, text)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrMatchNotFound),
				errors.Is(err, chat.ErrNotParticipant),
				errors.Is(err, chat.ErrEmptyText),
				errors.Is(err, chat.ErrTextTooLong):
				client.Emit("error", gin.H{"error": err.Error()})
			default:
				log.Printf("[SEND-ERROR] match %s: %v", matchID, err)
				client.Emit("error", gin.H{"error": "Could not send message"})
			}
			return
		}

		client.Emit("message_sent", message)
	}
}

// HandleTypingStart relays a typing indicator to the rest of the room.
func HandleTypingStart(client *socket.Socket, user *models.User) func(args ...interface{}) {
	return func(args ...interface{}) {
		matchID, ok := matchIDArg(args)
		if !ok {
			return
		}
		client.To(socket.Room(matchID)).Emit("user_typing", gin.H{
			"matchId":  matchID,
			"username": user.Username,
		})
	}
}

// HandleTypingStop relays the end of a typing indicator.
func HandleTypingStop(client *socket.Socket, user *models.User) func(args ...interface{}) {
	return func(args ...interface{}) {
		matchID, ok := matchIDArg(args)
		if !ok {
			return
		}
		client.To(socket.Room(matchID)).Emit("user_stopped_typing", gin.H{
			"matchId":  matchID,
			"username": user.Username,
		})
	}
}

package socket_io

import (
	"Spotter/services/chat"
	"Spotter/services/redis"
	"Spotter/services/socket_io/handlers"
	socketio_types "Spotter/services/socket_io/types"
	socketio_utils "Spotter/services/socket_io/utils"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// NewSocketServer builds the server shell; the socket.io instance itself is
// created in Start.
func NewSocketServer() *MySocketServer {
	return (*MySocketServer)(socketio_types.NewSocketServer())
}

// Start mounts the socket.io endpoint on the gin engine and wires the chat
// events. Auth happens once per connection, at handshake time.
func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB,
	redisClient *redis.RedisClient, chatService *chat.Service) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// Higher ping interval/timeout to reduce network load and support
	// slower mobile networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		success, user := socketio_utils.VerifyUserConnection(client, db)
		if !success {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(user.Username, client)

		if err := redisClient.SetUserOnline(user.Username); err != nil {
			log.Printf("[CONNECT] setting presence for %s: %v", user.Username, err)
		}
		log.Printf("[CONNECT] user %s connected (socket %s)", user.Username, client.Id())

		// Join the room of one of the user's matches (leaves the previous
		// chat room implicitly)
		client.On("join_chat", handlers.HandleJoinChat(db, redisClient, client, user,
			(*socketio_types.SocketServer)(sio)))

		client.On("leave_chat", handlers.HandleLeaveChat(client, user,
			(*socketio_types.SocketServer)(sio)))

		client.On("send_message", handlers.HandleSendMessage(chatService, client, user))

		client.On("typing_start", handlers.HandleTypingStart(client, user))

		client.On("typing_stop", handlers.HandleTypingStop(client, user))

		client.On("disconnecting", handlers.HandleDisconnecting(user, client,
			(*socketio_types.SocketServer)(sio), redisClient))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range signalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	log.Println("Socket server started")
}

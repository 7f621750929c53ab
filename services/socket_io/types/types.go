package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer holds the socket.io server plus the connection registry.
// One connection per username: registering a second connection for the same
// user replaces the first, it never accumulates.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track username -> socket connection
	UserConnections map[string]*socket.Socket
	// Map to track username -> currently joined chat room (one at most)
	ActiveRooms map[string]socket.Room
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[string]*socket.Socket),
		ActiveRooms:     make(map[string]socket.Room),
	}
}

func (s *SocketServer) AddConnection(username string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[username] = client
}

// RemoveConnection drops the registry entry, but only if it still belongs
// to the given client: a disconnect of a replaced connection must not kick
// out its replacement.
func (s *SocketServer) RemoveConnection(username string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if current, exists := s.UserConnections[username]; exists && current == client {
		delete(s.UserConnections, username)
		delete(s.ActiveRooms, username)
	}
}

func (s *SocketServer) GetConnection(username string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.UserConnections[username]
	return client, exists
}

// SetActiveRoom records the chat room the user currently has open and
// returns the previous one (empty when there was none).
func (s *SocketServer) SetActiveRoom(username string, room socket.Room) socket.Room {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	previous := s.ActiveRooms[username]
	s.ActiveRooms[username] = room
	return previous
}

func (s *SocketServer) GetActiveRoom(username string) (socket.Room, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	room, exists := s.ActiveRooms[username]
	return room, exists
}

func (s *SocketServer) ClearActiveRoom(username string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.ActiveRooms, username)
}

// BroadcastToMatch and EmitToUser implement the chat service's Broadcaster
// interface, so the REST path can reach connected clients too.

func (s *SocketServer) BroadcastToMatch(matchID string, event string, payload interface{}) {
	if s.Sio_server == nil {
		return
	}
	s.Sio_server.To(socket.Room(matchID)).Emit(event, payload)
}

func (s *SocketServer) EmitToUser(username string, event string, payload interface{}) {
	if client, exists := s.GetConnection(username); exists {
		client.Emit(event, payload)
	}
}

// UserInRoom reports whether the chat room the user currently has open is
// the given match.
func (s *SocketServer) UserInRoom(username string, matchID string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.ActiveRooms[username] == socket.Room(matchID)
}

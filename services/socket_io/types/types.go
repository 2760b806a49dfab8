package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// Identity is who is behind a socket connection. Guests have no UserID.
type Identity struct {
	UserID string
	Email  string
}

func (i Identity) Guest() bool {
	return i.UserID == ""
}

// SocketServer is a struct that contains the socket.io server and a map of socket connections.
// It is used to handle socket.io connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track socket id -> identity of the connected user
	Connections map[socket.SocketId]Identity
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Connections: make(map[socket.SocketId]Identity),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(id socket.SocketId, who Identity) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[id] = who
}

func (s *SocketServer) RemoveConnection(id socket.SocketId) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, id)
}

func (s *SocketServer) GetConnection(id socket.SocketId) (Identity, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	who, exists := s.Connections[id]
	return who, exists
}

func (s *SocketServer) ConnectionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Connections)
}

// SessionRoom is the room every client watching a game session joins.
func SessionRoom(sessionID string) socket.Room {
	return socket.Room("game_session:" + sessionID)
}

// EmitToSession sends event to every client in the session's room. It is a
// no-op until the socket server is started.
func (s *SocketServer) EmitToSession(sessionID, event string, payload any) {
	if s == nil || s.Sio_server == nil {
		return
	}
	s.Sio_server.To(SessionRoom(sessionID)).Emit(event, payload)
}

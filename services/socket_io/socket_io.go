package socket_io

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"

	"PartyHub/services/socket_io/handlers"
	socketio_types "PartyHub/services/socket_io/types"
	socketio_utils "PartyHub/services/socket_io/utils"
	"PartyHub/utils/logger"
)

type MySocketServer socketio_types.SocketServer

type Options struct {
	Origins []string
	Debug   bool
}

// Start mounts the socket.io endpoint on router and registers the game
// session events.
func (sio *MySocketServer) Start(router *gin.Engine, sessions handlers.Sessions, verifier socketio_utils.TokenVerifier, opts Options) {
	log.DEBUG = opts.Debug
	c := socket.DefaultServerOptions()
	c.SetServeClient(false)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      corsOrigin(opts.Origins),
		Credentials: true,
	})

	// KEY: inicializar el map, sino panikea
	if sio.Connections == nil {
		sio.Connections = make(map[socket.SocketId]socketio_types.Identity)
	}
	server := (*socketio_types.SocketServer)(sio)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		who, ok := socketio_utils.VerifyUserConnection(client, verifier)
		if !ok {
			client.Disconnect(true)
			return
		}
		server.AddConnection(client.Id(), who)
		logger.Debugf("[SOCKET] %s connected (user %q)", client.Id(), who.UserID)

		// Watch a game session: joins its room and receives the current state
		client.On(handlers.EventJoinSession, handlers.HandleJoinSession(sessions, client, who))

		// Stop watching a game session
		client.On(handlers.EventLeaveSession, handlers.HandleLeaveSession(client))

		// Apply an action; the resulting state goes to everyone in the room
		client.On(handlers.EventGameAction, handlers.HandleGameAction(sessions, client, server))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(client, server))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	logger.Infof("Socket server started")
}

// Close stops the socket server. Safe to call when Start never ran.
func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}

func corsOrigin(origins []string) interface{} {
	switch len(origins) {
	case 0:
		return "*"
	case 1:
		return origins[0]
	}
	return origins
}

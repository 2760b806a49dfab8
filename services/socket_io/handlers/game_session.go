package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"

	"PartyHub/services/gamesessions"
	socketio_types "PartyHub/services/socket_io/types"
	"PartyHub/utils/apperror"
	"PartyHub/utils/logger"
)

const (
	EventJoinSession  = "join_session"
	EventLeaveSession = "leave_session"
	EventGameAction   = "game_action"
	EventGameState    = "game_state"
	EventError        = "error"

	handlerTimeout = 5 * time.Second
)

var errMissingSessionID = apperror.BadRequest("missing_session_id", "Missing game session id")

// Sessions is what the socket handlers need from the game session service.
type Sessions interface {
	Get(ctx context.Context, id string) (*gamesessions.Session, error)
	Apply(ctx context.Context, id string, action json.RawMessage) (*gamesessions.Session, error)
}

// HandleJoinSession joins the client to a session room and sends it the
// current state.
func HandleJoinSession(sessions Sessions, client *socket.Socket, who socketio_types.Identity) func(args ...interface{}) {
	return func(args ...interface{}) {
		sessionID, err := SessionIDArg(args)
		if err != nil {
			client.Emit(EventError, ErrorPayload("", err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		sess, err := sessions.Get(ctx, sessionID)
		if err != nil {
			client.Emit(EventError, ErrorPayload("", err))
			return
		}

		client.Join(socketio_types.SessionRoom(sessionID))
		logger.Debugf("[JOIN] socket %s (user %q) joined session %s", client.Id(), who.UserID, sessionID)
		client.Emit(EventGameState, sess)
	}
}

func HandleLeaveSession(client *socket.Socket) func(args ...interface{}) {
	return func(args ...interface{}) {
		sessionID, err := SessionIDArg(args)
		if err != nil {
			client.Emit(EventError, ErrorPayload("", err))
			return
		}
		client.Leave(socketio_types.SessionRoom(sessionID))
	}
}

// HandleGameAction applies an action and broadcasts the new state to the
// whole room. Rejected actions are only reported to the sender.
func HandleGameAction(sessions Sessions, client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		sessionID, action, err := ActionArgs(args)
		if err != nil {
			client.Emit(EventError, ErrorPayload("", err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		sess, err := sessions.Apply(ctx, sessionID, action)
		if err != nil {
			game := ""
			if current, getErr := sessions.Get(ctx, sessionID); getErr == nil {
				game = current.Game
			}
			client.Emit(EventError, ErrorPayload(game, err))
			return
		}

		sio.EmitToSession(sessionID, EventGameState, sess)
	}
}

// HandleDisconnecting forgets the connection; socket.io drops room
// membership on its own.
func HandleDisconnecting(client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		sio.RemoveConnection(client.Id())
		logger.Debugf("[DISCONNECT] socket %s left", client.Id())
	}
}

// SessionIDArg reads the session id from the first event argument, either a
// bare string or {"sessionId": "..."}.
func SessionIDArg(args []interface{}) (string, error) {
	if len(args) == 0 {
		return "", errMissingSessionID
	}
	switch v := args[0].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case map[string]interface{}:
		if id, ok := v["sessionId"].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errMissingSessionID
}

// ActionArgs accepts (sessionId, action) or ({sessionId, action}).
func ActionArgs(args []interface{}) (string, json.RawMessage, error) {
	sessionID, err := SessionIDArg(args)
	if err != nil {
		return "", nil, err
	}

	var action interface{}
	if obj, ok := args[0].(map[string]interface{}); ok {
		action = obj["action"]
	} else if len(args) > 1 {
		action = args[1]
	}

	switch a := action.(type) {
	case nil:
		return "", nil, apperror.BadRequest("missing_action", "Missing game action")
	case string:
		if !json.Valid([]byte(a)) {
			// a bare action type such as "start"
			raw, _ := json.Marshal(map[string]string{"type": a})
			return sessionID, raw, nil
		}
		return sessionID, json.RawMessage(a), nil
	default:
		raw, err := json.Marshal(a)
		if err != nil {
			return "", nil, apperror.BadRequest("bad_action", "Malformed game action")
		}
		return sessionID, raw, nil
	}
}

// ErrorPayload is what clients receive on the error event.
func ErrorPayload(game string, err error) gin.H {
	var e apperror.Error
	if game != "" || isGameError(err) {
		e = apperror.ForGame(game, err)
	} else {
		e = apperror.Normalize(err)
	}
	apperror.Report(e)

	out := gin.H{"message": e.Message, "severity": e.Severity}
	if e.Code != "" {
		out["code"] = e.Code
	}
	return out
}

func isGameError(err error) bool {
	return errors.Is(err, gamesessions.ErrSessionNotFound) ||
		errors.Is(err, gamesessions.ErrUnknownGame) ||
		errors.Is(err, gamesessions.ErrConflict)
}

package socketio_utils

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"

	socketio_types "PartyHub/services/socket_io/types"
	"PartyHub/services/supabase"
	"PartyHub/utils/logger"
)

// TokenVerifier validates Supabase access tokens.
type TokenVerifier interface {
	Verify(token string) (*supabase.Claims, error)
}

// VerifyUserConnection reads the optional access token a client sends in its
// handshake auth data ({"authorization": "Bearer <token>"}). Clients without
// a token join as guests; a token that doesn't verify rejects the connection.
func VerifyUserConnection(client *socket.Socket, verifier TokenVerifier) (socketio_types.Identity, bool) {
	authData, _ := client.Handshake().Auth.(map[string]interface{})
	return IdentityFromAuth(authData, verifier, func(msg string) {
		client.Emit("error", gin.H{"message": msg, "code": "unauthorized"})
	})
}

// IdentityFromAuth is the socket-independent half of VerifyUserConnection.
func IdentityFromAuth(authData map[string]interface{}, verifier TokenVerifier, reject func(string)) (socketio_types.Identity, bool) {
	raw, _ := authData["authorization"].(string)
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if token == "" {
		return socketio_types.Identity{}, true
	}

	if verifier == nil {
		reject("Authentication is not configured")
		return socketio_types.Identity{}, false
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		logger.Debugf("[SOCKET] rejected handshake token: %v", err)
		reject("Authentication failed: invalid access token")
		return socketio_types.Identity{}, false
	}

	return socketio_types.Identity{UserID: claims.Subject, Email: claims.Email}, true
}

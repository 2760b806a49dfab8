package utils

/**
 * Key formats for the (key, value) pairs stored in Redis
 */

import "fmt"

func FormatGameSessionKey(sessionID string) string {
	return fmt.Sprintf("game_session:%s", sessionID)
}

func FormatGameSessionPattern() string {
	return "game_session:*"
}

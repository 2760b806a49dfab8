package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type gameMessage struct {
	code     string
	text     string
	status   int
	severity Severity
}

// Known error strings coming out of the game reducers and session layer.
var gameMessages = map[string]gameMessage{
	"action not allowed in current phase": {"invalid_action", "That move isn't available right now.", http.StatusConflict, SeverityWarning},
	"unknown action":                      {"unknown_action", "That move doesn't exist in this game.", http.StatusBadRequest, SeverityWarning},
	"not enough players":                  {"not_enough_players", "You need more players to start this game.", http.StatusBadRequest, SeverityWarning},
	"duplicate player name":               {"duplicate_player", "Every player needs a different name.", http.StatusBadRequest, SeverityWarning},
	"invalid answer choice":               {"invalid_choice", "Pick one of the listed answers.", http.StatusBadRequest, SeverityWarning},
	"deck is empty":                       {"empty_deck", "This game has no cards to play with.", http.StatusBadRequest, SeverityWarning},
	"malformed game payload":              {"bad_payload", "The game couldn't understand that request.", http.StatusBadRequest, SeverityWarning},
	"game session not found":              {"session_not_found", "That game has ended or never existed.", http.StatusNotFound, SeverityInfo},
	"unknown game":                        {"unknown_game", "We don't have that game.", http.StatusNotFound, SeverityInfo},
	"game session is busy":                {"session_busy", "Someone else just made a move, try again.", http.StatusConflict, SeverityWarning},
}

// ForGame normalizes a game failure. Known backend errors become friendly
// text; anything else is reported as "<game>: <message>".
func ForGame(game string, v any) Error {
	e := Normalize(v)

	if m, ok := lookupGameMessage(v); ok {
		e.Message = m.text
		e.Code = m.code
		e.Status = m.status
		e.Severity = m.severity
	} else if game != "" {
		e.Message = fmt.Sprintf("%s: %s", game, e.Message)
	}

	if game != "" {
		e = e.WithContext("game", game)
	}
	return e
}

func lookupGameMessage(v any) (gameMessage, bool) {
	switch t := v.(type) {
	case string:
		m, ok := gameMessages[t]
		return m, ok
	case error:
		return lookupChain(t)
	}
	return gameMessage{}, false
}

func lookupChain(err error) (gameMessage, bool) {
	for err != nil {
		if m, ok := gameMessages[err.Error()]; ok {
			return m, true
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				if m, ok := lookupChain(e); ok {
					return m, true
				}
			}
			return gameMessage{}, false
		}
		err = errors.Unwrap(err)
	}
	return gameMessage{}, false
}

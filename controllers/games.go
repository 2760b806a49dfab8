package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"PartyHub/middleware"
	"PartyHub/services/gamesessions"
	"PartyHub/utils"
	"PartyHub/utils/apperror"
)

const (
	eventGameState    = "game_state"
	eventSessionEnded = "session_ended"
)

type GameSessions interface {
	GameLister
	Create(ctx context.Context, game, ownerID string, setup json.RawMessage) (*gamesessions.Session, error)
	Get(ctx context.Context, id string) (*gamesessions.Session, error)
	Apply(ctx context.Context, id string, action json.RawMessage) (*gamesessions.Session, error)
	End(ctx context.Context, id string) error
}

// Broadcaster pushes session updates to the clients watching a session.
type Broadcaster interface {
	EmitToSession(sessionID, event string, payload any)
}

// @Summary List games
// @Tags games
// @Produce json
// @Success 200 {object} object{games=[]string}
// @Router /api/games [get]
func ListGames(sessions GameSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"games": sessions.Games()})
	}
}

// @Summary Start a game session
// @Description Creates a session from the game's setup (players, rounds, timers...). Guests can play too.
// @Tags games
// @Accept json
// @Produce json
// @Param game path string true "Game name"
// @Param setup body object false "Game setup"
// @Success 201 {object} gamesessions.Session
// @Failure 400 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /api/games/{game}/sessions [post]
func CreateGameSession(sessions GameSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		game := c.Param("game")

		setup, err := c.GetRawData()
		if err != nil {
			failGame(c, game, err)
			return
		}

		owner := ""
		if user, ok := middleware.GetCurrentUser(c); ok {
			owner = user.ID.String()
		}

		sess, err := sessions.Create(c.Request.Context(), game, owner, setup)
		if err != nil {
			failGame(c, game, err)
			return
		}
		c.JSON(http.StatusCreated, sess)
	}
}

// @Summary Get a game session
// @Tags games
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} gamesessions.Session
// @Failure 404 {object} object{message=string}
// @Router /api/games/sessions/{id} [get]
func GetGameSession(sessions GameSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			failGame(c, "", err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary Apply a game action
// @Description Runs one action (start, begin_turn, correct, answer, tick...) through the game and broadcasts the new state to the session room
// @Tags games
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param action body object true "Action, e.g. {\"type\":\"correct\"}"
// @Success 200 {object} gamesessions.Session
// @Failure 400 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Failure 409 {object} object{message=string}
// @Router /api/games/sessions/{id}/actions [post]
func ApplyGameAction(sessions GameSessions, rooms Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		action, err := c.GetRawData()
		if err != nil || len(action) == 0 {
			utils.Fail(c, apperror.BadRequest("missing_action", "Missing game action"))
			return
		}

		sess, err := sessions.Apply(c.Request.Context(), id, action)
		if err != nil {
			game := ""
			if current, getErr := sessions.Get(c.Request.Context(), id); getErr == nil {
				game = current.Game
			}
			failGame(c, game, err)
			return
		}

		rooms.EmitToSession(id, eventGameState, sess)
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary End a game session
// @Description Discards the session. Sessions started by a signed in user can only be ended by that user.
// @Tags games
// @Param id path string true "Session id"
// @Success 204
// @Failure 403 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /api/games/sessions/{id} [delete]
func EndGameSession(sessions GameSessions, rooms Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		sess, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			failGame(c, "", err)
			return
		}
		if sess.OwnerID != "" {
			user, ok := middleware.GetCurrentUser(c)
			if !ok || user.ID.String() != sess.OwnerID {
				utils.Fail(c, apperror.Forbidden("Only the host can end this game"))
				return
			}
		}

		if err := sessions.End(c.Request.Context(), id); err != nil {
			failGame(c, sess.Game, err)
			return
		}
		rooms.EmitToSession(id, eventSessionEnded, gin.H{"id": id})
		c.Status(http.StatusNoContent)
	}
}

func failGame(c *gin.Context, game string, err error) {
	e := apperror.ForGame(game, err)
	utils.Fail(c, &e)
}

package controllers

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"PartyHub/middleware"
	"PartyHub/models/postgres"
	"PartyHub/services/profiles"
	"PartyHub/utils"
	"PartyHub/utils/apperror"
)

type ProfileStore interface {
	ProfileEnsurer
	UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) (*postgres.Profile, error)
	GetStats(ctx context.Context, id uuid.UUID) (*postgres.UserStats, error)
	RecordGame(ctx context.Context, id uuid.UUID, r profiles.GameResult) (*postgres.UserStats, error)
}

// GameLister lists the games stats can be recorded for.
type GameLister interface {
	Games() []string
}

type profileResponse struct {
	*postgres.Profile
	ProActive bool `json:"proActive"`
}

func newProfileResponse(p *postgres.Profile) profileResponse {
	return profileResponse{Profile: p, ProActive: p.HasActivePro(time.Now())}
}

// @Summary Get own profile
// @Description Returns the signed in user's profile, creating it on first access
// @Tags profile
// @Produce json
// @Success 200 {object} profileResponse
// @Failure 401 {object} object{message=string}
// @Router /api/profile [get]
// @Security ApiKeyAuth
func GetProfile(store ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetCurrentUser(c)

		p, err := store.EnsureProfile(c.Request.Context(), user.ID, user.Email)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, newProfileResponse(p))
	}
}

// @Summary Update own profile
// @Description Changes the display name (1-50 characters)
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body object{displayName=string} true "New display name"
// @Success 200 {object} profileResponse
// @Failure 400 {object} object{message=string}
// @Failure 401 {object} object{message=string}
// @Router /api/profile [patch]
// @Security ApiKeyAuth
func UpdateProfile(store ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetCurrentUser(c)

		var req struct {
			DisplayName string `json:"displayName"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, apperror.BadRequest("bad_request", "Invalid request body"))
			return
		}

		if _, err := store.EnsureProfile(c.Request.Context(), user.ID, user.Email); err != nil {
			utils.Fail(c, err)
			return
		}
		p, err := store.UpdateDisplayName(c.Request.Context(), user.ID, req.DisplayName)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, newProfileResponse(p))
	}
}

// @Summary Get own stats
// @Description Games played and won, points, favorite game and per-game play counts
// @Tags stats
// @Produce json
// @Success 200 {object} postgres.UserStats
// @Failure 401 {object} object{message=string}
// @Router /api/stats [get]
// @Security ApiKeyAuth
func GetStats(store ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetCurrentUser(c)

		st, err := store.GetStats(c.Request.Context(), user.ID)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

type gameResultRequest struct {
	Game   string `json:"game"`
	Won    bool   `json:"won"`
	Points int    `json:"points"`
}

// @Summary Record a finished game
// @Description Adds one finished game to the signed in user's stats
// @Tags stats
// @Accept json
// @Produce json
// @Param result body gameResultRequest true "Game result"
// @Success 201 {object} postgres.UserStats
// @Failure 400 {object} object{message=string}
// @Failure 401 {object} object{message=string}
// @Router /api/stats/games [post]
// @Security ApiKeyAuth
func RecordGame(store ProfileStore, games GameLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetCurrentUser(c)

		var req gameResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, apperror.BadRequest("bad_request", "Invalid request body"))
			return
		}
		req.Game = strings.TrimSpace(req.Game)
		if !slices.Contains(games.Games(), req.Game) {
			utils.Fail(c, apperror.BadRequest("unknown_game", "We don't have that game."))
			return
		}

		if _, err := store.EnsureProfile(c.Request.Context(), user.ID, user.Email); err != nil {
			utils.Fail(c, err)
			return
		}
		st, err := store.RecordGame(c.Request.Context(), user.ID, profiles.GameResult{
			Game:   req.Game,
			Won:    req.Won,
			Points: req.Points,
		})
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, st)
	}
}

package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"PartyHub/middleware"
	"PartyHub/models/postgres"
	"PartyHub/services/supabase"
	"PartyHub/utils"
	"PartyHub/utils/apperror"
	"PartyHub/utils/logger"
)

// AuthProvider is the hosted auth service.
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	SignUp(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileEnsurer creates the profile row of a user on first sign in.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, id uuid.UUID, email string) (*postgres.Profile, error)
}

type credentials struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
}

type authResponse struct {
	Profile      *postgres.Profile `json:"profile"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int               `json:"expiresIn"`
}

var errBadCredentials = apperror.Unauthorized("Invalid email or password!")

// @Summary Sign in
// @Description Signs in with email and password. The tokens are stored in the session cookie and also returned for API clients.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{email=string,password=string} true "Credentials"
// @Success 200 {object} authResponse
// @Failure 400 {object} object{message=string}
// @Failure 401 {object} object{message=string}
// @Router /auth/login [post]
func Login(auth AuthProvider, profiles ProfileEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBind(&req); err != nil {
			utils.Fail(c, apperror.BadRequest("bad_credentials", "Email and a password of at least 6 characters are required"))
			return
		}

		s, err := auth.SignInWithPassword(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			var apiErr *supabase.APIError
			if errors.As(err, &apiErr) && apiErr.HTTPStatus() < http.StatusInternalServerError {
				utils.Fail(c, errBadCredentials)
				return
			}
			utils.Fail(c, err)
			return
		}

		startSession(c, s, profiles, http.StatusOK)
	}
}

// @Summary Sign up
// @Description Creates an account. When email confirmation is on no session is started.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{email=string,password=string} true "Credentials"
// @Success 201 {object} authResponse
// @Success 202 {object} object{message=string,confirmationRequired=boolean}
// @Failure 400 {object} object{message=string}
// @Router /auth/signup [post]
func SignUp(auth AuthProvider, profiles ProfileEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBind(&req); err != nil {
			utils.Fail(c, apperror.BadRequest("bad_credentials", "Email and a password of at least 6 characters are required"))
			return
		}

		s, err := auth.SignUp(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			utils.Fail(c, err)
			return
		}

		if s.AccessToken == "" {
			c.JSON(http.StatusAccepted, gin.H{
				"message":              "Check your email to confirm your account",
				"confirmationRequired": true,
			})
			return
		}
		startSession(c, s, profiles, http.StatusCreated)
	}
}

// @Summary Sign out
// @Description Revokes the session with the auth provider and clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func Logout(auth AuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := middleware.AccessToken(c); token != "" {
			if err := auth.SignOut(c.Request.Context(), token); err != nil {
				logger.Warnf("[AUTH] sign out with provider failed: %v", err)
			}
		}

		if err := middleware.ClearAuthSession(sessions.Default(c)); err != nil {
			utils.Fail(c, apperror.Wrap(http.StatusInternalServerError, "session", "Failed to save session", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
	}
}

func startSession(c *gin.Context, s *supabase.Session, profiles ProfileEnsurer, status int) {
	id, err := uuid.Parse(s.User.ID)
	if err != nil {
		utils.Fail(c, apperror.New(http.StatusBadGateway, "bad_user", "Auth provider returned an invalid user"))
		return
	}

	profile, err := profiles.EnsureProfile(c.Request.Context(), id, s.User.Email)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if err := middleware.SaveAuthSession(sessions.Default(c), s.AccessToken, s.RefreshToken); err != nil {
		utils.Fail(c, apperror.Wrap(http.StatusInternalServerError, "session", "No session!", err))
		return
	}

	c.JSON(status, authResponse{
		Profile:      profile,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
	})
}

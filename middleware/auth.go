package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"PartyHub/services/supabase"
	"PartyHub/utils/logger"
)

const (
	sessionAccessToken  = "access_token"
	sessionRefreshToken = "refresh_token"
	currentUserKey      = "currentUser"

	// Tokens closer than this to expiry are refreshed ahead of time.
	refreshLeeway = 60 * time.Second
)

type CurrentUser struct {
	ID    uuid.UUID
	Email string
	Role  string
}

type TokenVerifier interface {
	Verify(token string) (*supabase.Claims, error)
}

type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*supabase.Session, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}

// RefreshSession resolves the caller. API clients send a bearer token, which
// is only verified. Browsers carry tokens in the session cookie; those are
// refreshed with Supabase when they are about to expire, and a session whose
// refresh fails is cleared.
func RefreshSession(verifier TokenVerifier, refresher TokenRefresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := verifier.Verify(token); err == nil {
				setCurrentUser(c, claims)
			}
			c.Next()
			return
		}

		session := sessions.Default(c)
		access, _ := session.Get(sessionAccessToken).(string)
		refresh, _ := session.Get(sessionRefreshToken).(string)
		if access == "" && refresh == "" {
			c.Next()
			return
		}

		claims, err := verifier.Verify(access)
		if err == nil && claims.ExpiresIn(time.Now()) > refreshLeeway {
			setCurrentUser(c, claims)
			c.Next()
			return
		}

		if refresh == "" || refresher == nil {
			clearSession(session)
			c.Next()
			return
		}

		fresh, err := refresher.Refresh(c.Request.Context(), refresh)
		if err != nil {
			logger.Infof("[AUTH] session refresh failed: %v", err)
			clearSession(session)
			c.Next()
			return
		}

		claims, err = verifier.Verify(fresh.AccessToken)
		if err != nil {
			logger.Warnf("[AUTH] refreshed token did not verify: %v", err)
			clearSession(session)
			c.Next()
			return
		}

		if err := SaveAuthSession(session, fresh.AccessToken, fresh.RefreshToken); err != nil {
			logger.Errorf("[AUTH] saving refreshed session: %v", err)
		}
		setCurrentUser(c, claims)
		c.Next()
	}
}

// SaveAuthSession stores a token pair in the cookie session.
func SaveAuthSession(session sessions.Session, accessToken, refreshToken string) error {
	session.Set(sessionAccessToken, accessToken)
	session.Set(sessionRefreshToken, refreshToken)
	return session.Save()
}

// ClearAuthSession drops the tokens from the cookie session.
func ClearAuthSession(session sessions.Session) error {
	session.Delete(sessionAccessToken)
	session.Delete(sessionRefreshToken)
	return session.Save()
}

// AccessToken returns the access token the request authenticated with.
func AccessToken(c *gin.Context) string {
	if token, ok := bearerToken(c); ok {
		return token
	}
	token, _ := sessions.Default(c).Get(sessionAccessToken).(string)
	return token
}

func clearSession(session sessions.Session) {
	if err := ClearAuthSession(session); err != nil {
		logger.Errorf("[AUTH] clearing session: %v", err)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

func setCurrentUser(c *gin.Context, claims *supabase.Claims) {
	id, err := claims.UserID()
	if err != nil {
		return
	}
	c.Set(currentUserKey, CurrentUser{ID: id, Email: claims.Email, Role: claims.Role})
}

// GetCurrentUser returns the user RefreshSession resolved, if any.
func GetCurrentUser(c *gin.Context) (CurrentUser, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return CurrentUser{}, false
	}
	u, ok := v.(CurrentUser)
	return u, ok
}

// RequireUser is a simple middleware to check there is a signed in user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCurrentUser(c); !ok {
			// Abort the request with the appropriate error code
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "You need to sign in first", "code": "unauthorized"})
			return
		}
		// Continue down the chain to handler etc
		c.Next()
	}
}

// RequireAdmin lets through signed in users whose profile is an admin.
func RequireAdmin(admins AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "You need to sign in first", "code": "unauthorized"})
			return
		}

		isAdmin, err := admins.IsAdmin(c.Request.Context(), user.ID)
		if err != nil {
			logger.Errorf("[AUTH] admin check for %s: %v", user.ID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not check permissions"})
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admins only", "code": "forbidden"})
			return
		}
		c.Next()
	}
}

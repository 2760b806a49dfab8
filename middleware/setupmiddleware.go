package middleware

import (
	"crypto/rand"
	"crypto/sha256"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/hkdf"

	"PartyHub/config"
	"PartyHub/utils/logger"
)

const (
	SessionCookieName = "partyhub_session"
	sessionMaxAge     = 30 * 24 * time.Hour
)

func SetUpMiddleware(r *gin.Engine, cfg *config.Config) {
	hashKey, blockKey := sessionKeys(cfg.SessionKey)
	store := cookie.NewStore(hashKey, blockKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.UseHTTPS || cfg.Prod,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionCookieName, store))

	r.Use(cors.New(corsConfig(cfg.Origins)))
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

// sessionKeys derives the cookie signing and encryption keys from SESSION_KEY.
// Without a key (local development only) random keys are used, so sessions
// don't survive a restart.
func sessionKeys(secret string) (hashKey, blockKey []byte) {
	hashKey = make([]byte, 64)
	blockKey = make([]byte, 32)

	if secret == "" {
		logger.Warnf("[WARN] SESSION_KEY not set, using ephemeral session keys")
		if _, err := rand.Read(hashKey); err != nil {
			panic(err)
		}
		if _, err := rand.Read(blockKey); err != nil {
			panic(err)
		}
		return hashKey, blockKey
	}

	kdf := hkdf.New(sha256.New, []byte(secret), []byte("partyhub-session"), []byte("cookie-keys"))
	if _, err := io.ReadFull(kdf, hashKey); err != nil {
		panic(err)
	}
	if _, err := io.ReadFull(kdf, blockKey); err != nil {
		panic(err)
	}
	return hashKey, blockKey
}

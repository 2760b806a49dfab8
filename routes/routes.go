package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"PartyHub/controllers"
	"PartyHub/middleware"
)

// Deps are the services the HTTP API is built on. Webhooks may be nil when
// Stripe is not configured; Health entries may be nil for disabled backends.
type Deps struct {
	Auth      controllers.AuthProvider
	Verifier  middleware.TokenVerifier
	Refresher middleware.TokenRefresher
	Profiles  interface {
		controllers.ProfileStore
		controllers.GrantStore
		middleware.AdminChecker
	}
	Checkout  controllers.CheckoutCreator
	Webhooks  controllers.WebhookHandler
	Sessions  controllers.GameSessions
	Rooms     controllers.Broadcaster
	Health    map[string]controllers.Pinger
	StaticDir string
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	// utils global
	router.Use(middleware.RefreshSession(d.Verifier, d.Refresher))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/ping", controllers.Ping)
	router.GET("/healthz", controllers.Health(d.Health))

	auth := router.Group("/auth")
	{
		auth.POST("/login", controllers.Login(d.Auth, d.Profiles))
		auth.POST("/signup", controllers.SignUp(d.Auth, d.Profiles))
		auth.POST("/logout", controllers.Logout(d.Auth))
	}

	api := router.Group("/api")
	{
		api.POST("/checkout", controllers.CreateCheckout(d.Checkout))
		api.POST("/stripe/webhook", controllers.StripeWebhook(d.Webhooks))

		api.GET("/games", controllers.ListGames(d.Sessions))
		api.POST("/games/:game/sessions", controllers.CreateGameSession(d.Sessions))
		api.GET("/games/sessions/:id", controllers.GetGameSession(d.Sessions))
		api.POST("/games/sessions/:id/actions", controllers.ApplyGameAction(d.Sessions, d.Rooms))
		api.DELETE("/games/sessions/:id", controllers.EndGameSession(d.Sessions, d.Rooms))
	}

	// Routes that require authentication
	authenticated := api.Group("/", middleware.RequireUser())
	{
		authenticated.GET("/profile", controllers.GetProfile(d.Profiles))
		authenticated.PATCH("/profile", controllers.UpdateProfile(d.Profiles))
		authenticated.GET("/stats", controllers.GetStats(d.Profiles))
		authenticated.POST("/stats/games", controllers.RecordGame(d.Profiles, d.Sessions))
	}

	admin := api.Group("/admin", middleware.RequireAdmin(d.Profiles))
	{
		admin.GET("/pro-grants", controllers.ListProGrants(d.Profiles))
		admin.POST("/pro-grants", controllers.CreateProGrant(d.Profiles))
	}

	// Pages: redirect by auth state, then the built frontend
	router.NoRoute(middleware.RouteGuard(), controllers.Frontend(d.StaticDir))
}

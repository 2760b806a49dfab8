package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"PartyHub/config"
	"PartyHub/controllers"
	_ "PartyHub/docs"
	"PartyHub/games/registry"
	"PartyHub/middleware"
	"PartyHub/routes"
	"PartyHub/services/gamesessions"
	"PartyHub/services/payments"
	"PartyHub/services/profiles"
	"PartyHub/services/redis"
	"PartyHub/services/socket_io"
	socketio_types "PartyHub/services/socket_io/types"
	"PartyHub/services/supabase"
	"PartyHub/utils"
	"PartyHub/utils/logger"
)

// @title PartyHub API
// @version 1.0
// @description Gin-Gonic server for the PartyHub party games site
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Error loading configuration: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.Prod); err != nil {
		logger.Fatalf("Error setting up logger: %v", err)
	}
	defer logger.Sync()

	logger.Infof("Setting up server...")

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := config.ConnectGORM(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to PostgreSQL: %v", err)
	}

	// Only migrate in development or during deployment
	if cfg.MigratePostgres {
		logger.Infof("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			logger.Warnf("Database migration failed: %v", err)
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redis.CloseRedis(redisClient)

	// Game sessions live in Redis when available so several instances can share them
	var store gamesessions.Store = gamesessions.NewMemoryStore(cfg.GameSessionTTL)
	health := map[string]controllers.Pinger{
		"postgres": controllers.PingFunc(sqlDB.PingContext),
		"redis":    nil,
	}
	if redisClient != nil {
		store = redis.NewSessionStore(redisClient, cfg.GameSessionTTL)
		health["redis"] = redisClient
		if n, err := redisClient.CountGameSessions(ctx); err == nil {
			logger.Infof("%d game sessions waiting in Redis", n)
		}
	}
	sessions := gamesessions.NewService(store, registry.Default())

	profileService := profiles.New(gormDB)
	verifier := supabase.NewVerifier(cfg.Supabase.JWTSecret)
	authClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	if cfg.Supabase.URL == "" {
		logger.Warnf("SUPABASE_URL not set, sign in will fail")
	}

	var stripeSessions payments.SessionCreator
	if cfg.Stripe.SecretKey != "" {
		stripeSessions = payments.NewStripeSessions(cfg.Stripe.SecretKey)
	} else {
		logger.Warnf("STRIPE_SECRET_KEY not set, checkout is disabled")
	}
	checkout := payments.NewCheckout(payments.NewCatalog(cfg.Stripe.Prices), stripeSessions, cfg.SiteURL)

	var webhooks controllers.WebhookHandler
	if cfg.Stripe.WebhookSecret != "" {
		webhooks = payments.NewWebhooks(cfg.Stripe.WebhookSecret, profileService)
	}

	r := gin.New()
	r.Use(gin.Recovery(), utils.Logger(), utils.ErrorHandler())
	middleware.SetUpMiddleware(r, cfg)

	sio := socketio_types.NewSocketServer()
	(*socket_io.MySocketServer)(sio).Start(r, sessions, verifier, socket_io.Options{
		Origins: cfg.Origins,
		Debug:   cfg.LogLevel == "debug",
	})
	defer (*socket_io.MySocketServer)(sio).Close()

	routes.SetupRoutes(r, routes.Deps{
		Auth:      authClient,
		Verifier:  verifier,
		Refresher: authClient,
		Profiles:  profileService,
		Checkout:  checkout,
		Webhooks:  webhooks,
		Sessions:  sessions,
		Rooms:     sio,
		Health:    health,
		StaticDir: cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		Handler:           r,
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		logger.Infof("Listening on %s://%s", cfg.Scheme(), srv.Addr)
		if cfg.UseHTTPS {
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Error starting server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
}

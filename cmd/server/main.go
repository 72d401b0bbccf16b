package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tunelink/internal/auth"
	"tunelink/internal/cache"
	"tunelink/internal/config"
	"tunelink/internal/handlers"
	"tunelink/internal/models"
	"tunelink/internal/repositories"
	"tunelink/internal/services"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := models.NewDatabase(ctx, cfg.MongodbURL, cfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(shutdownCtx); err != nil {
			slog.Error("Failed to close MongoDB connection", "error", err)
		}
	}()

	if err := db.CreateIndexes(ctx); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	valkeyCache, err := cache.NewValkeyCache(cfg.ValkeyURL)
	if err != nil {
		slog.Error("Failed to connect to Valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyCache.Close()

	// Repositories. Link reads on the landing-page path go through the cache.
	linkRepo := repositories.NewCachedLinkRepository(
		repositories.NewMongoLinkRepository(db),
		valkeyCache,
	)
	clickRepo := repositories.NewMongoClickRepository(db)
	userRepo := repositories.NewMongoUserRepository(db)

	// Platform backends register only when credentials are configured.
	resolutionService := services.NewTrackResolutionService()
	if cfg.SpotifyEnabled() {
		resolutionService.RegisterPlatform(services.NewSpotifyService(cfg.SpotifyClientID, cfg.SpotifyClientSecret))
		slog.Info("Registered platform", "platform", services.PlatformSpotify)
	}
	if cfg.YoutubeEnabled() {
		resolutionService.RegisterPlatform(services.NewYoutubeService(cfg.YoutubeAPIKey))
		slog.Info("Registered platform", "platform", services.PlatformYoutube)
	}

	analyticsService := services.NewAnalyticsService(linkRepo, clickRepo)
	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	authHandler := handlers.NewAuthHandler(userRepo, tokenIssuer)
	linkHandler := handlers.NewLinkHandler(resolutionService, linkRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	healthHandler := handlers.NewHealthHandler(db, valkeyCache, resolutionService)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", auth.Middleware(tokenIssuer), authHandler.Me)
		}

		api.GET("/links/:slug", linkHandler.GetLink)
		api.POST("/analytics/click", analyticsHandler.RecordClick)

		protected := api.Group("")
		protected.Use(auth.Middleware(tokenIssuer))
		{
			protected.POST("/links", linkHandler.CreateLink)
			protected.GET("/links", linkHandler.ListLinks)
			protected.PUT("/links/:id", linkHandler.UpdateLink)
			protected.DELETE("/links/:id", linkHandler.DeleteLink)
			protected.GET("/analytics/:linkId", analyticsHandler.GetSummary)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}

	slog.Info("Server stopped")
}

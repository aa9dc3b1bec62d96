package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/draws-backend/api/routes"
	"github.com/ArowuTest/draws-backend/internal/config"
	"github.com/ArowuTest/draws-backend/internal/handlers"
	"github.com/ArowuTest/draws-backend/internal/services"
	"github.com/ArowuTest/draws-backend/internal/storage"
	"github.com/ArowuTest/draws-backend/pkg/notify"
	"github.com/ArowuTest/draws-backend/pkg/socialapi"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	config.NewLogger(cfg, os.Stdout)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := storage.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to open storage", "error", err, "driver", cfg.Storage.Driver)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.Close(ctx); err != nil {
			slog.Error("Error closing storage", "error", err)
		}
	}()

	comments := socialapi.NewClient(socialapi.Config{
		InstagramBaseURL: cfg.Social.InstagramBaseURL,
		TiktokBaseURL:    cfg.Social.TiktokBaseURL,
		APIKey:           cfg.Social.APIKey,
		MockAPI:          cfg.Social.MockAPI,
		Timeout:          cfg.Social.Timeout,
		CacheSize:        cfg.Social.CacheSize,
		CacheTTL:         cfg.Social.CacheTTL,
	})

	drawService := services.NewDrawService(repos.Draws, repos.Results)
	tossService := services.NewTossService(repos.Draws, repos.Results, comments, cfg.Draws.ResultsLimit)
	santaService := services.NewSecretSantaService(repos.SecretSantas, &services.GatewayNotifier{
		Gateway: newGateway(cfg.Notify),
		BaseURL: cfg.Notify.BaseURL,
	})
	authService := services.NewAuthService(cfg)

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		DrawHandler:        handlers.NewDrawHandler(drawService, tossService),
		SecretSantaHandler: handlers.NewSecretSantaHandler(santaService),
		AuthHandler:        handlers.NewAuthHandler(authService),
		AdminHandler:       handlers.NewAdminHandler(drawService, cfg.Draws.PurgeDays),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server exiting")
}

func newGateway(cfg config.NotifyConfig) notify.Gateway {
	if cfg.Mode == config.NotifyWebhook {
		return notify.NewWebhookGateway(cfg.WebhookURL, cfg.Secret, cfg.Timeout)
	}
	slog.Warn("Secret santa notifications are not delivered in mock mode")
	return notify.NewMockGateway("secret-santa")
}

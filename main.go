package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-admin-api/config"
	"restaurant-admin-api/events"
	"restaurant-admin-api/handlers"
	"restaurant-admin-api/logger"
	"restaurant-admin-api/middleware"
	"restaurant-admin-api/repository"
	"restaurant-admin-api/routes"
	"restaurant-admin-api/services"
	"restaurant-admin-api/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.OpenDB(ctx, cfg)
	if err != nil {
		log.Fatal("database unavailable", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("no kafka brokers configured, order events are dropped")
	}

	validation.Register()
	svc := services.New(repository.NewStore(db), publisher, log)
	if cfg.AdminEmail != "" {
		if err := svc.Auth.EnsureStaff(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal("bootstrap staff account", zap.Error(err))
		}
	}

	tokens := middleware.Tokens{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}
	router := routes.NewRouter(handlers.New(svc, tokens, log), tokens, svc.Auth, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

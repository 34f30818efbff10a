package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GiovaTC/HEXA-IBM/config"
	"github.com/GiovaTC/HEXA-IBM/database"
	"github.com/GiovaTC/HEXA-IBM/handlers"
	"github.com/GiovaTC/HEXA-IBM/logging"
	"github.com/GiovaTC/HEXA-IBM/orchestrator"
	"github.com/GiovaTC/HEXA-IBM/watson"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Loading config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Creating logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	if !cfg.Watson.Configured() {
		logger.Warn("Watson credentials not set; confirmation requests will be rejected")
	}
	processor, err := orchestrator.New(
		orchestrator.Config{Modulus: cfg.Modulus},
		store,
		watson.New(cfg.Watson, logger),
		logger,
	)
	if err != nil {
		logger.Fatal("Creating orchestrator", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.New(processor, store, logger), logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting trig record server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutting down HTTP server", zap.Error(err))
	}
	logger.Info("HTTP server gracefully stopped")
}

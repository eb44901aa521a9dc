package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindmaps/config"
	"mindmaps/internal/document/repository"
	"mindmaps/internal/document/service"
	"mindmaps/internal/storage"
	"mindmaps/pkg/logger"
	"mindmaps/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Sugar.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel)
	defer logger.Log.Sync()

	persistent, err := storage.New(storage.Options{
		Backend:     cfg.StoreBackend,
		DataDir:     cfg.DataDir,
		PostgresDSN: cfg.Database.DSN(),
		QuotaBytes:  cfg.QuotaBytes,
	})
	if err != nil {
		logger.Sugar.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	if c, ok := persistent.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				logger.Sugar.Errorf("Failed to close %s store: %v", cfg.StoreBackend, err)
			}
		}()
	}

	services := service.NewUserServices(
		persistent,
		repository.NewRemoteRepository(cfg.RemoteBaseURL, cfg.RemoteTimeout),
	)

	if cfg.JWTSecret == "" {
		logger.Sugar.Warn("JWT_SECRET is not set; every request will be rejected")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.Setup(services, cfg.JWTSecret, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Sugar.Infof("Mindmaps storage listening on %s (store=%s, remote=%s)", cfg.Addr, cfg.StoreBackend, cfg.RemoteBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Sugar.Info("Server stopped")
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/adapters/messaging"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/adapters/outbox"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/config"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/logging"
)

func main() {
	cfg, err := config.LoadRelayConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, "outbox-relay")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.AnnouncementQueue, logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer broker.Close()

	relay := outbox.NewRelay(db, cfg.DatabaseURL, broker, logger)

	healthMux := http.NewServeMux()
	healthMux.Handle("/metrics", promhttp.Handler())
	healthMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, relay.IsHealthy())
	})
	healthMux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, relay.IsReady())
	})

	healthServer := &http.Server{
		Addr:    cfg.HealthAddress,
		Handler: healthMux,
	}

	go func() {
		logger.Info("starting health server", zap.String("address", cfg.HealthAddress))
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting event processing worker")
		if err := relay.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errChan:
		logger.Error("fatal worker error, shutting down", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func writeStatus(w http.ResponseWriter, ok bool) {
	status := "UP"
	httpStatus := http.StatusOK
	if !ok {
		status = "DOWN"
		httpStatus = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    status,
		"component": "outbox-relay",
	})
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/adapters/repository"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/adapters/sessiontoken"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/adapters/terminal"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/config"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/services"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, "clinic-terminal")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	// One interactive session per process: the connection is exclusively
	// owned, no pooling.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}

	store := repository.NewSQLStore(db)
	defer store.Close()

	var tokens ports.SessionTokenStore
	if cfg.ResumeEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, session resume disabled", zap.Error(err))
		} else {
			tokens = sessiontoken.NewTokenStore(cfg.JWTPrivateKey, cfg.JWTPublicKey, redisClient, cfg.SessionTokenPath)
		}
	}

	authService := services.NewAuthService(store, tokens)
	svc := terminal.Services{
		Auth:          authService,
		Records:       services.NewRecordService(store, authService),
		Appointments:  services.NewAppointmentService(store, authService),
		Announcements: services.NewAnnouncementService(store, authService),
		Bills:         services.NewBillService(store, authService),
	}

	session := domain.NewSession()
	if err := authService.Resume(ctx, session); err != nil {
		logger.Warn("session resume failed", zap.Error(err))
	} else if session.Authenticated() {
		logger.Info("session resumed",
			zap.String("email", session.Email),
			zap.String("tier", string(session.Tier)))
	}

	// An interrupt during the input read exits cleanly; a command already
	// submitted to the store runs to completion on the server side.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("interrupt received, exiting")
		_ = logger.Sync()
		os.Exit(0)
	}()

	prompter := terminal.NewPrompter(os.Stdin, os.Stdout)
	registry := terminal.NewCommandRegistry(svc, prompter, os.Stdout)
	dispatcher := terminal.NewDispatcher(registry, session, prompter, os.Stdout, logger)

	fmt.Fprint(os.Stdout, terminal.HelpText)

	if err := dispatcher.Run(ctx); err != nil {
		logger.Fatal("terminal stopped", zap.Error(err))
	}
}

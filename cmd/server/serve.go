package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/honeynil/player-service/internal/api"
	"github.com/honeynil/player-service/internal/config"
	"github.com/honeynil/player-service/internal/infrastructure/kafka"
	redisclient "github.com/honeynil/player-service/internal/infrastructure/redis"
	"github.com/honeynil/player-service/internal/observability"
	"github.com/honeynil/player-service/internal/repository"
	"github.com/honeynil/player-service/internal/repository/memory"
	postgres "github.com/honeynil/player-service/internal/repository/postgres"
	redisrepo "github.com/honeynil/player-service/internal/repository/redis"
	service "github.com/honeynil/player-service/internal/services"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var httpAddr, store string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if store != "" {
				cfg.Store = store
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "addr", "", "HTTP listen address (env: HTTP_ADDR)")
	cmd.Flags().StringVar(&store, "store", "", "Storage backend: postgres, redis, memory (env: STORE)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем логи, метрики, трейсы
	shutdownObservability, err := observability.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownObservability(shutdownCtx); err != nil {
			slog.Error("observability shutdown failed", "error", err)
		}
	}()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			slog.Error("failed to close store", "store", cfg.Store, "error", err)
		}
	}()

	var publisher kafka.EventPublisher = kafka.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		slog.Info("no Kafka brokers configured, player events disabled")
	}
	defer publisher.Close()

	svc := service.NewPlayerService(repo, publisher)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.SetupRouter(svc, cfg.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.HTTPAddr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// openRepository builds the player store selected by cfg.Store. The returned
// func releases its connections.
func openRepository(ctx context.Context, cfg *config.Config) (repository.PlayerRepository, func() error, error) {
	switch cfg.Store {
	case config.StorePostgres:
		// Подключаемся к Postgres
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repo := postgres.NewPostgresPlayerRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil
	case config.StoreRedis:
		client, err := redisclient.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.NewRedisPlayerRepository(client), client.Close, nil
	case config.StoreMemory:
		return memory.New(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

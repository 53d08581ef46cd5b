// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jobdesk/jobdesk/internal/auth"
	categorypg "github.com/jobdesk/jobdesk/internal/category/postgres"
	"github.com/jobdesk/jobdesk/internal/config"
	"github.com/jobdesk/jobdesk/internal/httpapi"
	jobpg "github.com/jobdesk/jobdesk/internal/job/postgres"
	"github.com/jobdesk/jobdesk/internal/logging"
	notificationpg "github.com/jobdesk/jobdesk/internal/notification/postgres"
	"github.com/jobdesk/jobdesk/internal/observability"
	"github.com/jobdesk/jobdesk/internal/onboarding"
	"github.com/jobdesk/jobdesk/internal/session"
	"github.com/jobdesk/jobdesk/internal/store"
	userpg "github.com/jobdesk/jobdesk/internal/user/postgres"
)

// Default values for serve command flags.
const (
	defaultListenAddr  = "127.0.0.1:8080"
	defaultMetricsAddr = "127.0.0.1:9100"
	defaultSessionTTL  = 24 * time.Hour
	defaultLogFormat   = "json"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JobDesk API server",
		Long: `Start the API server, the metrics/health endpoint, and the session
store. Pending database migrations are applied on startup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().String("listen-addr", defaultListenAddr, "API listen address")
	cmd.Flags().String("metrics-addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection string (or DATABASE_URL)")
	cmd.Flags().String("redis-addr", "", "Redis address for sessions (empty = in-memory sessions)")
	cmd.Flags().Duration("session-ttl", defaultSessionTTL, "session lifetime")
	cmd.Flags().Int("hash-workers", 0, "max concurrent password hashes (0 = GOMAXPROCS)")
	cmd.Flags().String("log-format", defaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, cmd *cobra.Command) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("jobdesk", version, cfg.LogFormat)
	logger := slog.Default()

	logger.Info("starting jobdesk",
		"listen_addr", cfg.ListenAddr,
		"log_format", cfg.LogFormat,
	)

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	logger.Info("connected to database")

	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	logger.Info("database schema up to date")

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	hasher := auth.NewGatedHasher(auth.NewArgon2idHasher(), cfg.HashWorkers)
	users := userpg.NewUserRepository(pool)
	categories := categorypg.NewCategoryRepository(pool)
	jobs := jobpg.NewJobRepository(pool)
	notifications := notificationpg.NewNotificationRepository(pool)

	authSvc, err := auth.NewService(users, hasher)
	if err != nil {
		return err
	}
	onboardingSvc, err := onboarding.NewService(sessions, users, hasher)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			return pool.Ping(ctx) == nil
		})
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
	}

	apiServer, err := httpapi.NewServer(cfg.ListenAddr, httpapi.Deps{
		Logger:        logger,
		Sessions:      sessions,
		Onboarding:    onboardingSvc,
		Auth:          authSvc,
		Users:         users,
		Categories:    categories,
		Jobs:          jobs,
		Notifications: notifications,
		Metrics:       metrics,
		SessionTTL:    cfg.SessionTTL,
	})
	if err != nil {
		return err
	}

	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServers(nil, obsServer)
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("JobDesk started")
	logger.Info("jobdesk ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	stopServers(apiServer, obsServer)
	logger.Info("shutdown complete")
	return nil
}

// newSessionStore picks Redis or in-memory sessions based on configuration.
// The returned cleanup function is always safe to call.
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // ping error takes precedence
		return nil, nil, oops.Code("REDIS_CONNECT_FAILED").With("addr", cfg.RedisAddr).Wrap(err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Debug("error closing redis client", "error", err)
		}
	}
	return session.NewRedisStore(client, cfg.SessionTTL), cleanup, nil
}

// stopServers shuts down the given servers, tolerating nils.
func stopServers(api *httpapi.Server, obs *observability.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if api != nil {
		if err := api.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping api server", "error", err)
		}
	}
	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}
}

// monitorServerErrors cancels the context when a server reports an error,
// triggering graceful shutdown of the whole process. It exits when an error
// is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}

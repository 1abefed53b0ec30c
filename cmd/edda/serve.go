package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/api"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/auth"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/cache"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/config"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/logging"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/metrics"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/observability"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/store"
	"github.com/spf13/cobra"
)

func loadConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	config.LoadFromEnv(cfg)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		listenAddr string
		logLevel   string
		logFormat  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Server.HTTPAddr = listenAddr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Logging.Format = logFormat
			}
			logging.InitStructured(cfg.Logging.Format, cfg.Logging.Level)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := observability.Init(ctx, observability.Config{
				Enabled:     cfg.Observability.TracingEnabled,
				Exporter:    cfg.Observability.Exporter,
				Endpoint:    cfg.Observability.Endpoint,
				ServiceName: "edda-api",
				SampleRate:  cfg.Observability.SampleRate,
			}); err != nil {
				logging.Op().Warn("tracing disabled", "error", err)
			}
			if cfg.Observability.MetricsEnabled {
				metrics.InitPrometheus("edda", nil)
			}

			var repo store.Repository
			if cfg.Postgres.DSN == "" {
				logging.Op().Warn("no postgres DSN configured, using in-memory store")
				repo = store.NewMemoryStore()
			} else {
				pg, err := store.NewPostgresStore(ctx, cfg.Postgres.DSN)
				if err != nil {
					return fmt.Errorf("connect postgres: %w", err)
				}
				repo = pg
			}
			defer repo.Close()

			redisStore := cache.NewRedisStore(ctx, cache.RedisStoreConfig{
				Addr:      cfg.Redis.Addr,
				Password:  cfg.Redis.Password,
				DB:        cfg.Redis.DB,
				KeyPrefix: cfg.Redis.KeyPrefix,
			})
			defer redisStore.Close()
			go redisStore.Run(ctx, cfg.Redis.ProbeInterval)

			responseCache := cache.NewResponseCache(redisStore, cache.Options{
				Bypass:    cfg.CacheBypassed,
				OpTimeout: cfg.Cache.OpTimeout,
			})
			if cfg.CacheBypassed() {
				logging.Op().Warn("response cache disabled for development")
			}

			var authenticators []auth.Authenticator
			if cfg.Auth.Enabled {
				jwtAuth, err := auth.NewJWTAuthenticator(auth.JWTAuthConfig{
					Secret: cfg.Auth.Secret,
					Issuer: cfg.Auth.Issuer,
				})
				if err != nil {
					return fmt.Errorf("auth: %w", err)
				}
				authenticators = append(authenticators, jwtAuth)
			}

			httpServer := api.StartHTTPServer(cfg.Server.HTTPAddr, api.ServerConfig{
				Repo:           repo,
				Cache:          responseCache,
				CacheStore:     redisStore,
				Authenticators: authenticators,
				PublicPaths:    cfg.Auth.PublicPaths,
			})
			logging.Op().Info("EDDA API started",
				"addr", cfg.Server.HTTPAddr,
				"environment", cfg.Environment,
				"redis", cfg.Redis.Addr,
				"auth", cfg.Auth.Enabled)

			<-ctx.Done()
			logging.Op().Info("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logging.Op().Error("shutdown http server", "error", err)
			}
			responseCache.Wait()
			if err := observability.Shutdown(shutdownCtx); err != nil {
				logging.Op().Warn("shutdown tracing", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&listenAddr, "listen", ":3001", "HTTP listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		configPath string
		userID     string
		role       string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed JWT for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			jwtAuth, err := auth.NewJWTAuthenticator(auth.JWTAuthConfig{
				Secret: cfg.Auth.Secret,
				Issuer: cfg.Auth.Issuer,
			})
			if err != nil {
				return err
			}
			token, err := jwtAuth.Sign(userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&userID, "user", "", "User id placed in the id and sub claims")
	cmd.Flags().StringVar(&role, "role", "admin", "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

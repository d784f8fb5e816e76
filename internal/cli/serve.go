package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/worktrace/internal/api"
	"github.com/terraincognita07/worktrace/internal/config"
	"github.com/terraincognita07/worktrace/internal/db"
	"github.com/terraincognita07/worktrace/internal/observability"
	"github.com/terraincognita07/worktrace/internal/services"
)

const (
	csrfCookieName   = "worktrace_csrf"
	csrfHeaderLookup = "header:X-CSRF-Token"
	shutdownTimeout  = 10 * time.Second
	redisPingTimeout = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if path, _ := cmd.Flags().GetString("db"); path != "" {
				cfg.DBPath = path
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	log := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	shutdownTracing, err := observability.InitTracing(sigCtx, log, cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	needsSetup, err := services.NewAuthService(db.NewUserRepository(database)).RequiresInitialSetup()
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if needsSetup {
		log.Warn("no accounts yet, run `worktrace create-admin --email <address>` to add one")
	}

	handler, err := api.NewHandler(database, api.Options{
		SecretKey:        cfg.SecretKey,
		Location:         cfg.Location,
		CookieSecure:     cfg.CookieSecure,
		AllowOverlap:     cfg.AllowOverlap,
		DefaultCurrency:  cfg.DefaultCurrency,
		HealthCheckToken: cfg.HealthCheckToken,
		Logger:           log,
		LoginLimiter:     newLoginLimiter(sigCtx, cfg.RedisURL, log),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Worktrace",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(observability.RequestIDMiddleware())
	app.Use(observability.MetricsMiddleware())
	app.Use(observability.TracingMiddleware())
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))
	api.RegisterRoutes(app, handler)

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("worktrace listening",
		"addr", "0.0.0.0:"+cfg.Port,
		"db", cfg.DBPath,
		"tz", cfg.Location.String(),
		"version", Version,
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// csrfMiddlewareConfig reads the token from a header; the cookie stays
// HttpOnly because clients fetch the token from /api/auth/csrf.
func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      csrfHeaderLookup,
		CookieName:     csrfCookieName,
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

// newLoginLimiter shares failed-login counters through Redis when REDIS_URL is
// set and reachable, and keeps them in process memory otherwise.
func newLoginLimiter(ctx context.Context, redisURL string, log *slog.Logger) api.LoginLimiter {
	if redisURL == "" {
		return nil
	}
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("invalid REDIS_URL, using in-memory login limiter", "error", err)
		return nil
	}
	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, using in-memory login limiter", "error", err)
		_ = client.Close()
		return nil
	}
	log.Info("login limiter backed by redis", "addr", options.Addr)
	return api.NewRedisLoginLimiter(client, log)
}

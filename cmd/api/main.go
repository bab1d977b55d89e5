// Package main is the entrypoint for the tasknest API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/tasknest/tasknest/internal/audit"
	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/bootstrap"
	"github.com/tasknest/tasknest/internal/cache"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/handler"
	"github.com/tasknest/tasknest/internal/metrics"
	"github.com/tasknest/tasknest/internal/middleware"
	"github.com/tasknest/tasknest/internal/repository"
	"github.com/tasknest/tasknest/internal/server"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/weather"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("failed to migrate database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		return errors.New("database migration failed")
	}
	logger.Info("database migrations applied")

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New("database unavailable")
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return errors.New("redis unavailable")
	}
	logger.Info("connected to Redis")

	hasher := auth.NewPasswordHasher(auth.DefaultArgon2Params)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	recorder := metrics.NewInMemory()

	if cfg.SeedUsersPath != "" {
		if err := seedUsers(ctx, cfg.SeedUsersPath, repo, hasher, logger); err != nil {
			repo.Close()
			_ = cacheClient.Close()
			return err
		}
	}

	var publisher audit.Publisher
	var streamPublisher *audit.StreamPublisher
	if cfg.AuditStreamEnabled {
		streamPublisher = audit.NewStreamPublisher(cacheClient.Client(), logger, recorder)
		publisher = streamPublisher
	}
	auditLogger := audit.NewLogger(logger, publisher, recorder)

	weatherClient := weather.NewClient(cfg.WeatherAPIURL, weather.NewHTTPClient(cfg.WeatherTimeout))

	authService := service.NewAuthService(repo, hasher, tokens, logger, recorder)
	userService := service.NewUserService(repo, hasher, logger)
	todoService := service.NewTodoService(repo, weatherClient, logger, recorder)
	managerService := service.NewManagerService(repo, repo, repo, logger, recorder)
	commentService := service.NewCommentService(repo, repo, logger, recorder)

	errs := handler.NewErrorWriter(logger)
	rateLimit := func(scope string) func(next http.Handler) http.Handler {
		return middleware.RateLimitAuth(middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: cacheClient,
			Metrics: recorder,
			Enabled: cfg.RateLimitAuthEnabled,
			RPS:     cfg.RateLimitAuthRPS,
			Burst:   cfg.RateLimitAuthBurst,
			Scope:   scope,
		})
	}

	// Validated by config.Load.
	trustedProxies, _ := cfg.GetTrustedProxies()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := handler.NewRouter(handler.RouterConfig{
		Logger:             logger,
		IsDevelopment:      cfg.IsDevelopment(),
		CORS:               corsCfg,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		TrustedProxies:     trustedProxies,
		Authenticate:       middleware.JWTAuth(middleware.AuthConfig{Logger: logger, Tokens: tokens}),
		RequireAdmin:       middleware.RequireAdmin(logger),
		SignupLimit:        rateLimit("signup"),
		SigninLimit:        rateLimit("signin"),
		Audit:              auditLogger,
		Errors:             errs,
		Handlers: handler.Handlers{
			Health: handler.NewHealthHandler(logger,
				handler.Dependency{Name: "postgres", Checker: repo},
				handler.Dependency{Name: "redis", Checker: cacheClient},
			),
			Auth:     handler.NewAuthHandler(authService, errs, logger),
			Users:    handler.NewUserHandler(userService, errs, logger),
			Todos:    handler.NewTodoHandler(todoService, errs, logger),
			Managers: handler.NewManagerHandler(managerService, errs, logger),
			Comments: handler.NewCommentHandler(commentService, errs, logger),
			Metrics:  handler.NewMetricsHandler(recorder),
		},
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: the audit drain runs first, then Redis, then Postgres.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})
	if streamPublisher != nil {
		srv.OnShutdown("audit-publisher", streamPublisher.Drain)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"rate_limit_auth", cfg.RateLimitAuthEnabled,
		"audit_stream", cfg.AuditStreamEnabled,
	)

	return srv.Run(ctx)
}

func seedUsers(ctx context.Context, path string, repo *repository.Repository, hasher *auth.PasswordHasher, logger *slog.Logger) error {
	file, err := bootstrap.LoadSeedFile(path)
	if err != nil {
		return err
	}
	res, err := bootstrap.NewSeeder(repo, hasher, logger).Apply(ctx, file)
	if err != nil {
		return err
	}
	logger.Info("seed users applied", "created", res.Created, "skipped", res.Skipped)
	return nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}

// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/natefinch/lumberjack"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joonyo2/yugwan/internal/admin"
	"github.com/joonyo2/yugwan/internal/archive"
	"github.com/joonyo2/yugwan/internal/auth"
	"github.com/joonyo2/yugwan/internal/board"
	"github.com/joonyo2/yugwan/internal/config"
	"github.com/joonyo2/yugwan/internal/contest"
	"github.com/joonyo2/yugwan/internal/core"
	"github.com/joonyo2/yugwan/internal/health"
	"github.com/joonyo2/yugwan/internal/join"
	"github.com/joonyo2/yugwan/internal/member"
	"github.com/joonyo2/yugwan/internal/middleware"
	"github.com/joonyo2/yugwan/internal/popup"
	"github.com/joonyo2/yugwan/internal/server"
)

const (
	drainDelay = 5 * time.Second

	intakePerHour = 20
	intakeBurst   = 5
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	generateKeys := flag.Bool("generate-keys", false, "write a new ES256 key pair to the configured paths and exit")
	flag.Parse()

	if *generateKeys {
		if err := writeKeys(*configPath); err != nil {
			slog.Error("key generation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func writeKeys(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
		return err
	}

	slog.Info("key pair written",
		"private", cfg.JWT.PrivateKeyPath,
		"public", cfg.JWT.PublicKeyPath,
	)
	return nil
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	authRepo := auth.NewRepository(db.DB)

	memberSvc := member.NewService(member.NewRepository(db.DB), db, member.NewRepository, authRepo)
	memberHandler := member.NewHandler(memberSvc)

	authSvc := auth.NewService(authRepo, jwtManager, memberSvc, auth.NewRedisBlacklist(redis.Client))
	authHandler := auth.NewHandler(authSvc)

	boardSvc := board.NewService(board.NewRepository(db.DB), memberSvc)
	boardHandler := board.NewHandler(boardSvc)

	archiveSvc := archive.NewService(archive.NewRepository(db.DB), db, archive.NewRepository)
	archiveHandler := archive.NewHandler(archiveSvc)

	contestSvc := contest.NewService(
		contest.NewRepository(db.DB),
		db,
		contest.NewRepository,
		contest.NewFileStore(cfg.Media.Root, cfg.Media.MaxUploadBytes),
		contest.NewAlimtalk(cfg.Notify, nil),
		cfg.Media.MaxUploadBytes,
	)
	contestHandler := contest.NewHandler(contestSvc)

	joinSvc := join.NewService(join.NewRepository(db.DB), db, join.NewRepository)
	joinHandler := join.NewHandler(joinSvc)

	popupHandler := popup.NewHandler(popup.NewService(popup.NewRepository(db.DB)))

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Members:    memberSvc,
		Sessions:   authSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.Metrics)
	router.Use(middleware.OptionalAuth(authSvc))
	router.Use(middleware.TieredRateLimiter(redis.Client, middleware.DefaultTiers))

	healthHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)
	adminOnly := middleware.RequireAdmin

	credentialLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: redis_rate.Limit{
			Rate:   cfg.RateLimit.Requests,
			Burst:  cfg.RateLimit.Burst,
			Period: cfg.RateLimit.Window,
		},
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	}).Handler

	intakeLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerHour(intakePerHour, intakeBurst),
		KeyFunc:  middleware.KeyByUserAndEndpoint,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandler.RegisterRoutes(r, authenticator, credentialLimit)
			memberHandler.RegisterRoutes(r, authenticator, adminOnly)
			boardHandler.RegisterRoutes(r, authenticator, optionalAuth, adminOnly)
		})

		archiveHandler.RegisterRoutes(r, optionalAuth, authenticator, boardHandler.Require)
		contestHandler.RegisterRoutes(r, authenticator, adminOnly, intakeLimit)
		joinHandler.RegisterRoutes(r, optionalAuth, authenticator, adminOnly, intakeLimit)
		popupHandler.RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

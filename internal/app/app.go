package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/brainlink/internal/account"
	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/config"
	"github.com/MrSnakeDoc/brainlink/internal/dashboard"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/views"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/redis"
	"github.com/MrSnakeDoc/brainlink/internal/scheduler"
	"github.com/MrSnakeDoc/brainlink/internal/session"
	"github.com/MrSnakeDoc/brainlink/internal/version"
	"github.com/MrSnakeDoc/brainlink/internal/viewer"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	dashboards  *dashboard.Registry
	janitor     *scheduler.DashboardJanitor
	cancel      context.CancelFunc
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	client, err := backend.New(backend.Options{
		BaseURL:   cfg.BackendURL,
		Timeout:   cfg.BackendTimeout,
		UserAgent: version.UserAgent("brainlink-web"),
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Invalid backend configuration: %v", err)
		os.Exit(1)
	}

	// Sessions live in Redis when configured, in memory otherwise
	var (
		store       session.Store
		redisClient *goredis.Client
		mode        = "memory"
	)
	if cfg.UseRedis() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.Connect(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
		mode = "redis"
		loggerClient.Info("Redis session store initialized")
	} else {
		store = session.NewMemoryStore()
		loggerClient.Warn("no redis configured, sessions are kept in memory and lost on restart")
	}

	sessions := session.NewManager(store, session.Options{
		TTL:          cfg.SessionTTL,
		SecureCookie: cfg.SecureCookie,
	}, loggerClient)

	ctx, cancel := context.WithCancel(context.Background())
	dashboards := dashboard.NewRegistry(ctx, client, sessions, dashboard.Options{
		PollInterval: cfg.PollInterval,
		PublicURL:    cfg.PublicURL,
		StaleAfter:   dashboard.DefaultStaleAfter,
	}, loggerClient)

	janitor := scheduler.NewDashboardJanitor(
		dashboards,
		loggerClient,
		cfg.JanitorInterval,
		cfg.IdleThreshold,
	)

	renderer, err := views.New()
	if err != nil {
		loggerClient.Errorf("Failed to parse templates: %v", err)
		os.Exit(1)
	}

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		AuthBurst:        cfg.AuthBurst,
		AuthRefillPerMin: cfg.AuthRefillPerMin,
		Sessions:         sessions,
		SessionMode:      mode,
		Dashboards:       dashboards,
		Accounts:         account.NewService(client, sessions, loggerClient),
		Viewer:           viewer.New(client, loggerClient),
		Views:            renderer,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		dashboards:  dashboards,
		janitor:     janitor,
		cancel:      cancel,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting BrainLink %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("BrainLink %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)
	a.logger.Info("backend configured",
		logger.String("url", a.cfg.BackendURL),
		logger.String("public_url", a.cfg.PublicURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.janitor.Start(ctx)
	a.logger.Info("dashboard janitor started",
		logger.Duration("interval", a.cfg.JanitorInterval),
		logger.Duration("idle_threshold", a.cfg.IdleThreshold))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.shutdownBackground()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.shutdownBackground()
	a.logger.Info("✅ BrainLink stopped cleanly")
	return nil
}

// shutdownBackground stops the janitor, unmounts every dashboard and closes Redis.
func (a *App) shutdownBackground() {
	a.janitor.Stop()
	a.dashboards.Close()
	a.cancel()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/iotcentral/internal/auth"
	"github.com/olegiv/iotcentral/internal/cache"
	"github.com/olegiv/iotcentral/internal/captcha"
	"github.com/olegiv/iotcentral/internal/chat"
	"github.com/olegiv/iotcentral/internal/clock"
	"github.com/olegiv/iotcentral/internal/config"
	"github.com/olegiv/iotcentral/internal/handler"
	"github.com/olegiv/iotcentral/internal/live"
	"github.com/olegiv/iotcentral/internal/logging"
	"github.com/olegiv/iotcentral/internal/metrics"
	"github.com/olegiv/iotcentral/internal/middleware"
	"github.com/olegiv/iotcentral/internal/render"
	"github.com/olegiv/iotcentral/internal/scheduler"
	"github.com/olegiv/iotcentral/internal/session"
	"github.com/olegiv/iotcentral/internal/store"
	"github.com/olegiv/iotcentral/internal/telemetry"
	"github.com/olegiv/iotcentral/internal/version"
	"github.com/olegiv/iotcentral/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Chat transcripts outlive a browser tab but not a working day.
const transcriptTTL = 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "IoT Central - fleet monitoring dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_SESSION_SECRET        Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_DB_PATH               SQLite database path (default: ./data/iotcentral.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_SERVER_HOST           Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_LOG_LEVEL             debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_REDIS_URL             Redis URL for chat transcripts (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_CHAT_API_URL          Chat completions base URL\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_CHAT_API_KEY          Chat completions key (optional, enables chat)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_CHAT_MODEL            Chat model name\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_RECAPTCHA_SITE_KEY    reCAPTCHA v3 site key (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_RECAPTCHA_SECRET_KEY  reCAPTCHA v3 secret (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_FEED_INTERVAL         Live feed period (default: 3s)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_STREAM_INTERVAL       Traffic stream period (default: 2s)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IOTC_EVENT_RETENTION_DAYS  System event retention (default: 30)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records also go to the system event log.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.IsDevelopment() {
		if err := store.SeedDemoOperator(ctx, db, auth.HashPassword); err != nil {
			return fmt.Errorf("seeding demo operator: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	transcripts, backend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: transcriptTTL,
	})
	defer func() { _ = transcripts.Close() }()
	if cfg.UseRedisCache() && backend != "redis" {
		slog.Warn(handler.LogCacheInit, "backend", backend, "note", "Redis unavailable, using fallback")
	} else {
		slog.Info(handler.LogCacheInit, "backend", backend)
	}

	chatClient := chat.NewClient(chat.ClientConfig{
		BaseURL: cfg.ChatAPIURL,
		APIKey:  cfg.ChatAPIKey,
	})
	chatService := chat.NewService(chatClient, transcripts, cfg.ChatModel, transcriptTTL, clock.Real{}, logger)
	if !cfg.ChatEnabled() {
		slog.Warn("chat assistant disabled: IOTC_CHAT_API_KEY is not set")
	}

	var gateway *auth.LocalGateway
	if cfg.RecaptchaEnabled() {
		gateway = auth.NewLocalGateway(db, sessionManager, captcha.New(cfg.RecaptchaSecretKey))
		slog.Info("reCAPTCHA enabled for sign-up")
	} else {
		gateway = auth.NewLocalGateway(db, sessionManager, nil)
	}

	gen := telemetry.NewGenerator(clock.Real{}, nil)
	liveCfg := live.DefaultConfig()
	liveCfg.FeedInterval = cfg.FeedInterval
	liveCfg.StreamInterval = cfg.StreamInterval
	hub := live.NewHub(gen, clock.Real{}, liveCfg, logger)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
		Funcs: template.FuncMap{
			"recaptchaEnabled": cfg.RecaptchaEnabled,
			"recaptchaSiteKey": func() string { return cfg.RecaptchaSiteKey },
			"chatEnabled":      cfg.ChatEnabled,
		},
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	sched := scheduler.New(db, cfg.EventRetentionDays, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()
	if _, err := sched.PurgeEvents(ctx); err != nil {
		slog.Warn("initial event purge failed", "error", err)
	}

	// Live sessions end when this context is cancelled on shutdown.
	baseCtx, cancelLive := context.WithCancel(context.Background())
	defer cancelLive()

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	securityConfig.ExcludePaths = []string{handler.RouteMetrics}
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !cfg.IsDevelopment())

	r.Use(middleware.RequestPath)

	// 10 requests per second with burst of 20 per IP
	globalRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)
	r.Use(globalRateLimiter.Middleware())
	slog.Info("rate limiter initialized", "rate", "10 req/s", "burst", 20)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	authHandler := handler.NewAuthHandler(renderer, sessionManager, gateway, loginProtection)
	dashboardHandler := handler.NewDashboardHandler(renderer, sessionManager, chatService, gen)
	chatHandler := handler.NewChatHandler(sessionManager, chatService)
	liveHandler := handler.NewLiveHandler(baseCtx, hub, sessionManager, logger)
	eventsHandler := handler.NewEventsHandler(db)
	healthHandler := handler.NewHealthHandler(db, hub, transcripts, versionInfo)

	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteHealthLive, healthHandler.Liveness)
	r.Get(handler.RouteHealthReady, healthHandler.Readiness)
	r.Handle(handler.RouteMetrics, promhttp.Handler())

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get(handler.RouteRoot, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, handler.RouteDashboard, http.StatusSeeOther)
	})

	// The socket upgrade must not be wrapped by LoadAndSave, which buffers
	// the response.
	r.Group(func(r chi.Router) {
		r.Use(session.LoadOnly(sessionManager))
		r.Use(middleware.RequireSignIn(gateway))
		r.Get(handler.RouteLive, liveHandler.Serve)
	})

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(csrfMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfSignedIn(sessionManager, handler.RouteDashboard))
			r.Get(handler.RouteSignIn, authHandler.SignInForm)
			r.With(loginProtection.Middleware()).Post(handler.RouteSignIn, authHandler.SignIn)
			r.Post(handler.RouteSignInProvider, authHandler.SignInWithProvider)
			r.Get(handler.RouteSignUp, authHandler.SignUpForm)
			r.With(loginProtection.Middleware()).Post(handler.RouteSignUp, authHandler.SignUp)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSignIn(gateway))
			r.Post(handler.RouteSignOut, authHandler.SignOut)

			r.Get(handler.RouteDashboard, dashboardHandler.Show)
			r.Get(handler.RouteEvents, eventsHandler.List)
			r.Get(handler.RouteDashboardView, dashboardHandler.Show)
			r.Post(handler.RouteSelectView, dashboardHandler.Select)
			r.Post(handler.RouteSidebar, dashboardHandler.ToggleSidebar)
			r.Post(handler.RouteSettings, dashboardHandler.UpdateSettings)
			r.Post(handler.RouteChat, chatHandler.Send)
			r.Post(handler.RouteChatReset, chatHandler.Reset)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Hijacked WebSocket connections are not tracked by Shutdown.
	cancelLive()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

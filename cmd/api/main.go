// Package main is the entrypoint for the trackr API server.
package main

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/trackr/trackr/internal/auth"
	"github.com/trackr/trackr/internal/config"
	"github.com/trackr/trackr/internal/handler"
	"github.com/trackr/trackr/internal/middleware"
	"github.com/trackr/trackr/internal/server"
	"github.com/trackr/trackr/internal/service"
	"github.com/trackr/trackr/internal/supabase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize the collaborator client
	client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		logger.Error("failed to initialize supabase client", "error", err)
		os.Exit(1)
	}

	// Initialize the token verifier: local HS256 when a secret is
	// configured, remote lookup against the collaborator otherwise.
	verifier, err := auth.NewVerifier(cfg.SupabaseJWTSecret, client)
	if err != nil {
		logger.Error("failed to initialize token verifier", "error", err)
		os.Exit(1)
	}

	// Initialize services
	applicationService := service.NewApplicationService(client)
	userService := service.NewUserService(client, client)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(client, logger)
	applicationHandler := handler.NewApplicationHandler(applicationService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	// Setup router
	r := setupRouter(h, healthHandler, applicationHandler, userHandler, verifier, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"supabase_url", cfg.SupabaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
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
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	applicationHandler *handler.ApplicationHandler,
	userHandler *handler.UserHandler,
	verifier *auth.Verifier,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Welcome)

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Verifier: verifier,
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", userHandler.Login)
		r.Post("/signup", userHandler.Signup)

		r.Put("/user/{id}", userHandler.UpdateProfile)
		r.Delete("/user/{id}", userHandler.DeleteUser)
		r.Put("/change-password/{id}", userHandler.ChangePassword)

		r.Get("/applications", applicationHandler.List)
		r.Post("/applications", applicationHandler.Create)
		r.Get("/dash-stats", applicationHandler.DashStats)

		// Mutating a single record requires a verified caller identity so
		// ownership can be enforced.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(authCfg))
			r.Put("/applications/{id}", applicationHandler.Update)
			r.Delete("/applications/{id}", applicationHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

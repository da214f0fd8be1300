package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/arturoeanton/campus-wellness-api/internal/adapter/ai"
	"github.com/arturoeanton/campus-wellness-api/internal/adapter/identity"
	"github.com/arturoeanton/campus-wellness-api/internal/adapter/store"
	"github.com/arturoeanton/campus-wellness-api/internal/handler"
	"github.com/arturoeanton/campus-wellness-api/internal/middleware"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
	"github.com/arturoeanton/campus-wellness-api/internal/service"
	"github.com/arturoeanton/campus-wellness-api/pkg/config"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting campus wellness api",
		"port", cfg.Port,
		"ai_provider", cfg.AIProvider,
		"ai_timeout", cfg.AITimeout,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	if err := pgStore.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// ── Redis (role claim store) ─────────────────────────────────────────
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Verification falls back to token roles while Redis is down.
		slog.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "error", err)
	}
	cancel()

	// ── Adapters ─────────────────────────────────────────────────────────
	idp := identity.NewJWTProvider(identity.Config{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		ExpiresIn: time.Duration(cfg.JWTExpiration) * time.Hour,
	}, rdb)

	completions, err := newCompletionProvider(cfg)
	if err != nil {
		slog.Error("failed to configure AI provider", "error", err)
		os.Exit(1)
	}

	// ── Services ─────────────────────────────────────────────────────────
	userService := service.NewUserService(pgStore, idp, pgStore,
		service.NewRolePolicy(cfg.AdminCap, cfg.ModeratorCap), cfg.ClaimSyncMaxTries)
	authService := service.NewAuthService(pgStore, userService, pgStore)
	alertBus := service.NewAlertBus()
	aiService := service.NewAIService(completions, pgStore, alertBus, cfg.AITimeout, cfg.AIMaxRetries)
	moderationService := service.NewModerationService(pgStore, pgStore)

	service.StartClaimReconciler(ctx, userService, cfg.ClaimSyncInterval, 30*time.Second)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.AITimeout*time.Duration(cfg.AIMaxRetries+1) + 15*time.Second,
		BodyLimit:    256 * 1024,
		Immutable:    true, // params and headers outlive the handler in alerts and audit entries
		ErrorHandler: handler.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))
	if cfg.MetricsEnabled {
		app.Use(middleware.Metrics())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
	app.Use(middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow))
	app.Use(middleware.Audit(pgStore))

	// ── Public Routes ────────────────────────────────────────────────────
	handler.NewHealthHandler(pgStore).Register(app)

	// ── Protected Routes ─────────────────────────────────────────────────
	api := app.Group("/api", middleware.Authenticate(idp))

	handler.NewAuthHandler(authService).Register(api)
	handler.NewUserHandler(userService).Register(api)
	handler.NewPostHandler(moderationService).Register(api)
	handler.NewWellnessHandler(
		service.NewCheckinService(pgStore),
		service.NewPathwayService(pgStore),
		service.NewStreakService(pgStore),
	).Register(api)
	handler.NewAIHandler(aiService).Register(api)
	handler.NewAlertHandler(pgStore, alertBus).Register(api)
	handler.NewBookingHandler(
		service.NewAppointmentService(pgStore),
		service.NewSessionService(pgStore),
	).Register(api)
	handler.NewAuditHandler(pgStore).Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("fiber listening", "port", cfg.Port)
	if err := app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newCompletionProvider(cfg *config.Config) (port.CompletionProvider, error) {
	switch cfg.AIProvider {
	case "ollama":
		return ai.NewOllamaProvider(ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaModel,
			Token:   cfg.OllamaToken,
		}), nil
	case "openai":
		return ai.NewOpenAIProvider(ai.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}
}

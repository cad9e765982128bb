package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/api/handlers"
	mw "github.com/SeoyeongHwang/AugmentedSelf-v0/internal/api/middleware"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/buildconfig"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/config"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/events"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/llm"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/service"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and the pieces main needs for lifecycle management.
type App struct {
	Router    *chi.Mux
	Limiter   *mw.RateLimiter
	metrics   *mw.Metrics
	startTime time.Time
}

// NewApp wires stores, the model client, services and handlers. ev receives
// card events; pass events.Noop{} when NATS is not configured.
func NewApp(db *pgxpool.Pool, ev domain.EventPublisher, logger *zap.Logger) *App {
	// Stores
	userStore := store.NewUserStore(db)
	cardStore := store.NewCardStore(db)
	onboardingStore := store.NewOnboardingStore(db)

	// Model client via provider factory
	llmProvider := config.LLMProvider()
	completer, err := llm.NewClient(llmProvider, config.LLMAPIKey(), config.LLMModel())
	if err != nil {
		// Every generation then falls back to the mock deck.
		logger.Warn("LLM client initialization failed", zap.String("provider", llmProvider), zap.Error(err))
		completer = &llm.MockClient{Error: err}
	} else {
		logger.Info("LLM client initialized", zap.String("provider", llmProvider))
	}

	issuer := mw.NewTokenIssuer(jwtSecret(logger))

	genCfg := service.GenerationConfig{
		Timeout:         config.LLMTimeout(),
		MaxRetries:      config.LLMMaxRetries(),
		MaxTokens:       config.LLMMaxTokens(),
		Temperature:     config.LLMTemperature(),
		JournalMaxChars: config.JournalMaxChars(),
	}

	// Services
	authSvc := service.NewAuthService(userStore, issuer.SignToken, config.TokenTTL())
	generationSvc := service.NewGenerationService(completer, cardStore, onboardingStore, ev, genCfg, logger)
	cardSvc := service.NewCardService(cardStore, ev, logger)
	onboardingSvc := service.NewOnboardingService(onboardingStore, ev, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	aspectHandler := handlers.NewSelfAspectHandler(generationSvc)
	cardHandler := handlers.NewCardHandler(cardSvc)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingSvc)

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		Limiter:   mw.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst()),
		metrics:   &mw.Metrics{},
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)           // Generate/extract request ID first
	r.Use(middleware.RealIP)      // Extract real IP
	r.Use(app.metrics.Middleware) // Collect metrics
	r.Use(mw.Logging(logger))     // Log all requests
	r.Use(middleware.Recoverer)   // Recover from panics
	r.Use(app.Limiter.Middleware) // Rate limiting

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Account bootstrap (no auth)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(mw.JWTAuth(issuer))

			r.Get("/auth/me", authHandler.Me)

			r.Post("/self-aspects", aspectHandler.Generate)
			r.Post("/analyze-content", aspectHandler.Analyze)

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", cardHandler.List)
				r.Put("/{id}/status", cardHandler.UpdateStatus)
			})

			r.Route("/onboarding", func(r chi.Router) {
				r.Get("/", onboardingHandler.Get)
				r.Post("/complete", onboardingHandler.Complete)
			})
		})
	})

	return app
}

// jwtSecret returns JWT_SECRET, or a random per-process secret when unset.
func jwtSecret(logger *zap.Logger) string {
	if s := config.JWTSecret(); s != "" {
		return s
	}
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	logger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	return hex.EncodeToString(b)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"build":  buildconfig.VersionInfo(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		counters := app.metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds":     uptime.Seconds(),
			"uptime_human":       uptime.Round(time.Second).String(),
			"request_count":      counters.Requests,
			"error_count":        counters.Errors,
			"server_error_count": counters.ServerErrs,
			"rate_limited_count": counters.RateLimited,
			"in_flight":          counters.InFlight,
			"rate_limit_clients": app.Limiter.Len(),
			"goroutines":         runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"version":    buildconfig.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.UserStore       = (*store.UserStore)(nil)
	_ domain.CardStore       = (*store.CardStore)(nil)
	_ domain.OnboardingStore = (*store.OnboardingStore)(nil)
	_ domain.Completer       = (*llm.OpenAIClient)(nil)
	_ domain.Completer       = (*llm.AnthropicClient)(nil)
	_ domain.Completer       = (*llm.GeminiClient)(nil)
	_ domain.Completer       = (*llm.CerebrasClient)(nil)
	_ domain.Completer       = (*llm.MockClient)(nil)
	_ domain.EventPublisher  = (*events.Publisher)(nil)
	_ domain.EventPublisher  = events.Noop{}
)

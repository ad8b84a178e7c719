package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	appLogger "github.com/FACorreiaa/go-trip-planner/app/logger"
	"github.com/FACorreiaa/go-trip-planner/app/tracer"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/chat"
	"github.com/FACorreiaa/go-trip-planner/internal/api/detailed"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/api/recommendation"
	"github.com/FACorreiaa/go-trip-planner/internal/api/records"
	"github.com/FACorreiaa/go-trip-planner/internal/router"
)

// @title        Trip Planner API
// @version      1.0
// @description  Conversational trip-planning assistant: chat, recommendations, itineraries and bucket lists.
// @BasePath     /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// tint in development, JSON everywhere else
	logger := appLogger.New(os.Getenv("APP_ENV"), os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	providers, err := tracer.InitTracingAndMetrics("trip-planner")
	if err != nil {
		return err
	}

	controller, recommender, err := newCompletions(ctx, cfg)
	if err != nil {
		return err
	}

	lookup, err := newLookup(cfg, logger)
	if err != nil {
		return err
	}

	sink, closeSink, err := newSink(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	handler := router.SetupRouter(router.Config{
		Handlers:          buildHandlers(cfg, controller, recommender, lookup, sink, logger),
		Logger:            logger,
		RequestsPerMinute: 120,
		Timeout:           cfg.Server.Timeout,
	})

	// Must outlast the router timeout
	writeTimeout := cfg.Server.Timeout + 10*time.Second
	apiSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Handlers.Prometheus.Port),
		Handler:           providers.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, srv := range map[string]*http.Server{"api": apiSrv, "metrics": metricsSrv} {
		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("server", name), slog.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		// gctx is already done; shutdown needs a fresh deadline
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		return errors.Join(
			apiSrv.Shutdown(shutdownCtx),
			metricsSrv.Shutdown(shutdownCtx),
			providers.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}

// buildHandlers wires every pipeline to its HTTP handler. controller serves
// itineraries and plans; recommender serves the chat recommendations.
func buildHandlers(cfg config.Config, controller, recommender generativeAI.TextCompletion, lookup places.Lookup, sink records.Sink, logger *slog.Logger) []router.Routable {
	enricher := places.NewEnricher(lookup, cfg.Places.RateInterval, logger)

	itineraries := itinerary.NewPipeline(controller, itinerary.Config{
		MaxTripDays:         cfg.Planner.MaxTripDays,
		MaxActivitiesPerDay: cfg.Planner.MaxActivitiesPerDay,
		Temperature:         cfg.AI.Controller.Temperature,
		HistoryTTL:          time.Duration(cfg.Planner.EditHistoryTTLMinute) * time.Minute,
	}, logger)
	plans := itinerary.NewPlanService(controller, cfg.Sessions.TTL, logger)

	dayPipeline := detailed.NewPipeline(controller, enricher, detailed.Config{
		MaxTokens:   cfg.Planner.DetailedMaxTokens,
		Temperature: cfg.AI.Controller.Temperature,
	}, logger)

	recs := recommendation.NewPipeline(recommender, enricher, recommendation.Config{
		MaxTokens:   cfg.AI.Recommendation.MaxTokens,
		Temperature: cfg.AI.Recommendation.Temperature,
	}, logger)
	sessions := chat.NewSessionStore(cfg.Sessions.TTL, logger)

	return []router.Routable{
		chat.NewHandler(chat.NewService(recs, sink, nil, logger), sessions, logger),
		itinerary.NewHandler(itineraries, plans, sink, logger),
		detailed.NewHandler(dayPipeline, logger),
		records.NewHandler(sink, logger),
	}
}

func newCompletions(ctx context.Context, cfg config.Config) (controller, recommender generativeAI.TextCompletion, err error) {
	if cfg.AI.UseGemini {
		g := cfg.AI.Gemini
		controller, err = generativeAI.NewGeminiClient(ctx, generativeAI.GeminiConfig{APIKey: g.APIKey, Model: g.Model, Timeout: g.Timeout})
	} else {
		c := cfg.AI.Controller
		controller, err = generativeAI.NewOpenAIClient(generativeAI.OpenAIConfig{
			Name: c.Name, APIKey: c.APIKey, BaseURL: c.BaseURL, Model: c.Model, Timeout: c.Timeout,
		})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("controller completion backend: %w", err)
	}

	r := cfg.AI.Recommendation
	recommender, err = generativeAI.NewOpenAIClient(generativeAI.OpenAIConfig{
		Name: r.Name, APIKey: r.APIKey, BaseURL: r.BaseURL, Model: r.Model, Timeout: r.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("recommendation completion backend: %w", err)
	}
	return controller, recommender, nil
}

// newLookup builds the place lookup for the configured provider: "google",
// "nominatim" or "chain" (Google first when a key is set, then Nominatim).
// Results are memoised for the configured TTL.
func newLookup(cfg config.Config, logger *slog.Logger) (places.Lookup, error) {
	pc := cfg.Places
	var chain places.Chain

	if pc.APIKey != "" && (pc.Provider == "google" || pc.Provider == "chain" || pc.Provider == "") {
		google, err := places.NewGoogleLookup(pc.APIKey)
		if err != nil {
			return nil, fmt.Errorf("google places lookup: %w", err)
		}
		chain = append(chain, google)
	}
	// Nominatim is keyless and always goes last
	if pc.Provider != "google" {
		osm, err := places.NewNominatimLookup(pc.NominatimURL, pc.UserAgent, 10*time.Second)
		if err != nil {
			return nil, fmt.Errorf("nominatim lookup: %w", err)
		}
		chain = append(chain, osm)
	}
	if len(chain) == 0 {
		logger.Warn("No place lookup configured, enrichment disabled")
	}
	return places.NewCached(chain, pc.CacheTTL), nil
}

// newSink opens the Postgres sink when enabled and falls back to memory otherwise.
func newSink(ctx context.Context, cfg config.Config, logger *slog.Logger) (records.Sink, func(), error) {
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if errors.Is(err, database.ErrNotConfigured) {
		logger.Info("Postgres disabled, keeping records in memory")
		return records.NewMemorySink(), func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return nil, nil, err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return nil, nil, err
	}
	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, nil, errors.New("database not ready after waiting")
	}
	return records.NewPostgresSink(pool, logger), pool.Close, nil
}

package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/FACorreiaa/go-trip-planner/app/logger"
	_ "github.com/FACorreiaa/go-trip-planner/docs"
)

// Routable is implemented by every feature handler.
type Routable interface {
	Routes(r chi.Router)
}

// Config contains dependencies needed for the router setup.
type Config struct {
	Handlers       []Routable
	Logger         *slog.Logger
	AllowedOrigins []string
	// RequestsPerMinute limits API calls per client IP. Zero disables the limit.
	RequestsPerMinute int
	// Timeout bounds every request, including detailed itinerary streams.
	Timeout time.Duration
}

// SetupRouter builds the application router with the shared middleware stack,
// health check, swagger UI and every handler mounted under /api/v1.
func SetupRouter(cfg Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.Logger != nil {
		r.Use(appLogger.StructuredLogger(cfg.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}
	r.Use(middleware.Compress(5, "application/json"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RequestsPerMinute > 0 {
			r.Use(httprate.LimitByIP(cfg.RequestsPerMinute, time.Minute))
		}
		for _, h := range cfg.Handlers {
			h.Routes(r)
		}
	})

	return r
}

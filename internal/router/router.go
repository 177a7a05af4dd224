package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"loom-backend/internal/handlers"
	"loom-backend/internal/middleware"
)

func New(
	aiHandler *handlers.AIHandler,
	ingestHandler *handlers.IngestHandler,
	frontendURL string,
	rateLimitPerMin int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// One limiter shared by every route that fans out to AI providers.
	aiLimiter := middleware.NewRateLimiter(rateLimitPerMin, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(aiLimiter.Middleware)
			r.Post("/ai/generate", aiHandler.Generate)
			r.Post("/ingest", ingestHandler.Ingest)
		})
	})

	return r
}

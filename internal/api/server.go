// Package api serves the waterfall calculator and saved scenarios over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/waterfall-cli/internal/intake"
	"github.com/sells-group/waterfall-cli/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options configures the router.
type Options struct {
	Store            store.Store
	Defaults         intake.Defaults
	CORSOrigins      []string
	RatePerSec       float64
	Burst            int
	SweepConcurrency int
}

type server struct {
	store            store.Store
	defaults         intake.Defaults
	sweepConcurrency int
}

// NewRouter builds the HTTP handler. A zero RatePerSec disables rate limiting.
func NewRouter(opts Options) http.Handler {
	s := &server{
		store:            opts.Store,
		defaults:         opts.Defaults,
		sweepConcurrency: opts.SweepConcurrency,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		if opts.RatePerSec > 0 {
			r.Use(newClientLimiter(opts.RatePerSec, opts.Burst).middleware)
		}

		r.Post("/waterfall", s.handleCalculate)
		r.Post("/waterfall/sweep", s.handleSweep)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", s.handleListScenarios)
			r.Post("/", s.handleSaveScenario)
			r.Get("/{id}", s.handleGetScenario)
			r.Put("/{id}", s.handleUpdateScenario)
			r.Delete("/{id}", s.handleDeleteScenario)
			r.Get("/{id}/result", s.handleScenarioResult)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

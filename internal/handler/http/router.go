package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/service"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/health"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/middleware"
)

// NewRouter creates a chi router with all blueprint service routes registered.
func NewRouter(
	blueprintService *service.BlueprintService,
	selectionService *service.SelectionService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID", "X-Shop-Tier"}
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("blueprint"))
	r.Use(middleware.Tracing("blueprint"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	// Catalog API endpoints
	blueprintHandler := NewBlueprintHandler(blueprintService, logger)

	r.Route("/api/v1/blueprints", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		// Provider catalogs change slowly; let clients cache reads briefly.
		r.Use(middleware.CacheControl(300, 60))

		r.Get("/", blueprintHandler.SearchBlueprints)
		r.Get("/{providerID}/{blueprintID}", blueprintHandler.GetBlueprint)
		r.Post("/{providerID}/validate", blueprintHandler.ValidateBlueprint)
	})

	// Provider API endpoints
	providerHandler := NewProviderHandler(blueprintService, logger)

	r.Route("/api/v1/providers", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", providerHandler.ListProviders)
		r.Get("/availability", providerHandler.CheckAvailability)
	})

	// Shop selection API endpoints
	selectionHandler := NewSelectionHandler(selectionService, logger)

	r.Route("/api/v1/shops/{shopID}", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/selection", selectionHandler.ListSelection)
		r.Post("/selection", selectionHandler.AddSelection)
		r.Post("/selection/validate", selectionHandler.ValidateBatch)
		r.Delete("/selection/{id}", selectionHandler.RemoveSelection)
		r.Get("/usage", selectionHandler.GetUsage)
	})

	return r
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/counterdesk/internal/workspace"
	"github.com/utafrali/counterdesk/pkg/health"
	"github.com/utafrali/counterdesk/pkg/middleware"
)

// RouterConfig carries the knobs of NewRouter that come from configuration.
type RouterConfig struct {
	PprofCIDRs []string
	CORS       middleware.CORSConfig
}

// NewRouter creates a chi router with all counterdesk routes registered.
func NewRouter(
	manager *workspace.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("counterdesk"))
	r.Use(middleware.Tracing("counterdesk"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	sessions := NewSessionHandler(manager, logger)

	r.Get("/api/v1/payment-methods", sessions.PaymentMethods)

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", sessions.CreateSession)

		r.Route("/{sid}", func(r chi.Router) {
			r.Use(middleware.SessionLogger("sid", logger))
			r.Use(WorkspaceFromURL(manager))

			r.Delete("/", sessions.DiscardSession)

			r.Route("/orders/{orderId}", func(r chi.Router) {
				r.Post("/edit", sessions.BeginEdit)
				r.Post("/delete", sessions.RequestDelete)
				r.Post("/delete/confirm", sessions.ConfirmDelete)
				r.Get("/receipt", sessions.Receipt)
				r.Get("/receipt/print", sessions.PrintReceipt)
			})

			r.Route("/{target}", func(r chi.Router) {
				r.Use(TargetFromURL)

				r.Get("/", sessions.GetView)
				r.Post("/open", sessions.Open)
				r.Post("/cancel", sessions.Cancel)
				r.Get("/search", sessions.Search)
				r.Post("/items", sessions.AddItem)
				r.Patch("/items/{productId}", sessions.UpdateItem)
				r.Delete("/items/{productId}", sessions.RemoveItem)
				r.Put("/notes", sessions.SetNotes)
				r.Put("/payment", sessions.SetPayment)
				r.Post("/submit", sessions.Submit)
			})
		})
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnkommas/corgres/api/controllers"
	pricingcontrollers "github.com/johnkommas/corgres/api/controllers/pricing"
	tariffcontrollers "github.com/johnkommas/corgres/api/controllers/tariffs"
	"github.com/johnkommas/corgres/api/middleware"
	pricingsvc "github.com/johnkommas/corgres/internal/pricing"
	tariffsvc "github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/config"
	"github.com/johnkommas/corgres/pkg/db"
	"github.com/johnkommas/corgres/pkg/logger"
	"github.com/johnkommas/corgres/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	quoteMetrics *metrics.QuoteMetrics,
	pricingService pricingsvc.Service,
	tariffService tariffsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/quotes", pricingcontrollers.CreateQuote(pricingService, logg, quoteMetrics))

		r.Route("/tariffs", func(r chi.Router) {
			r.Get("/", tariffcontrollers.GetTariffs(tariffService, logg))
			r.Put("/", tariffcontrollers.ReplaceTariffs(tariffService, logg))
		})
	})

	return r
}

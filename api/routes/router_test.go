package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/johnkommas/corgres/internal/allocation"
	"github.com/johnkommas/corgres/internal/freight"
	pricingsvc "github.com/johnkommas/corgres/internal/pricing"
	tariffsvc "github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/config"
	"github.com/johnkommas/corgres/pkg/enums"
	"github.com/johnkommas/corgres/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPricing struct{}

func (stubPricing) Price(ctx context.Context, req pricingsvc.Request) (*pricingsvc.Result, error) {
	return &pricingsvc.Result{
		Manifest:  &allocation.Manifest{Pallets: []allocation.Pallet{{Type: enums.PalletTypeEU}}},
		Breakdown: &freight.CostBreakdown{},
	}, nil
}

type stubTariffs struct{}

func (stubTariffs) Current() *tariffsvc.Set {
	return &tariffsvc.Set{
		Origins:      map[tariffsvc.OriginCode]tariffsvc.OriginRule{},
		Destinations: map[tariffsvc.DestinationZone]tariffsvc.DestinationRule{},
		Pallets:      map[enums.PalletType]tariffsvc.PalletSpec{},
		Materials:    map[enums.MaterialClass]tariffsvc.MaterialRule{},
	}
}

func (stubTariffs) Replace(ctx context.Context, set *tariffsvc.Set) error { return nil }

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	registry := prometheus.NewRegistry()
	return NewRouter(
		cfg,
		nil,
		nil,
		registry,
		metrics.NewHTTPMetrics(registry),
		metrics.NewQuoteMetrics(registry),
		stubPricing{},
		stubTariffs{},
	)
}

func TestRouterHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouterQuoteRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	body := `{
		"items": [{"material": "ceramic", "thickness_mm": 10, "quantity": 1, "area_m2_per_unit": 1.44}],
		"origin": "ES",
		"destination": "GR-mainland",
		"cost_per_m2": 36.80,
		"margin": 0.40
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestRouterTariffRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tariffs/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

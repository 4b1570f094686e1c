package tariffs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tariffsvc "github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTariffService struct {
	set      *tariffsvc.Set
	err      error
	replaced *tariffsvc.Set
}

func (s *stubTariffService) Current() *tariffsvc.Set { return s.set }

func (s *stubTariffService) Replace(ctx context.Context, set *tariffsvc.Set) error {
	if s.err != nil {
		return s.err
	}
	s.replaced = set
	return nil
}

func demoSet() *tariffsvc.Set {
	dec := decimal.RequireFromString
	esDefault := dec("0.16")
	thin := 14.0
	return &tariffsvc.Set{
		Origins: map[tariffsvc.OriginCode]tariffsvc.OriginRule{
			"ES": {
				Code:             "ES",
				Mode:             tariffsvc.RateModeBands,
				GroupageEligible: true,
				Bands: []tariffsvc.FreightBand{
					{MinKg: 0, MaxKg: 500, FlatEUR: dec("180")},
				},
				DefaultEURPerKg: &esDefault,
			},
		},
		Destinations: map[tariffsvc.DestinationZone]tariffsvc.DestinationRule{
			"GR-mainland": {Zone: "GR-mainland"},
			"GR-crete":    {Zone: "GR-crete", Island: true, SurchargeEURPerKg: dec("0.12")},
		},
		Pallets: map[enums.PalletType]tariffsvc.PalletSpec{
			enums.PalletTypeEU: {
				Type: enums.PalletTypeEU, MaxWeightKg: 1200, MaxVolumeM3: 1.5,
				TareWeightKg: 25, HandlingCostEUR: dec("10"),
			},
			enums.PalletTypeIndustrial: {
				Type: enums.PalletTypeIndustrial, MaxWeightKg: 1800, MaxVolumeM3: 2.2,
				TareWeightKg: 40, HandlingCostEUR: dec("30"),
			},
		},
		Materials: map[enums.MaterialClass]tariffsvc.MaterialRule{
			enums.MaterialCeramic: {
				Material: enums.MaterialCeramic, AllowedEU: true,
				AllowedIndustrial: true, Mixable: true, EUMaxThicknessMM: &thin,
			},
		},
		Groupage: []tariffsvc.FreightBand{
			{MinKg: 0, MaxKg: 300, FlatEUR: dec("120")},
		},
	}
}

func TestGetTariffs(t *testing.T) {
	t.Parallel()

	handler := GetTariffs(&stubTariffService{set: demoSet()}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tariffs", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data setPayload `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	require.Len(t, envelope.Data.Origins, 1)
	assert.Equal(t, "ES", envelope.Data.Origins[0].Code)
	require.Len(t, envelope.Data.Destinations, 2)
	// Sorted by zone: crete before mainland.
	assert.Equal(t, "GR-crete", envelope.Data.Destinations[0].Zone)
	assert.True(t, envelope.Data.Destinations[0].Island)
	require.Len(t, envelope.Data.Pallets, 2)
	assert.Equal(t, "eu", envelope.Data.Pallets[0].Type)
}

func replaceBody() string {
	payload := setPayload{
		Origins: []originPayload{{
			Code: "es", Mode: "bands",
			Bands: []bandPayload{{MinKg: 0, MaxKg: 500, FlatEUR: decimal.RequireFromString("180")}},
		}},
		Destinations: []destinationPayload{{Zone: "GR-mainland"}},
		Pallets: []palletPayload{
			{Type: "eu", MaxWeightKg: 1200, MaxVolumeM3: 1.5, TareWeightKg: 25, HandlingCostEUR: decimal.RequireFromString("10")},
			{Type: "industrial", MaxWeightKg: 1800, MaxVolumeM3: 2.2, TareWeightKg: 40, HandlingCostEUR: decimal.RequireFromString("30")},
		},
		Materials: []materialPayload{{Material: "ceramic", AllowedEU: true, AllowedIndustrial: true, Mixable: true}},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestReplaceTariffs(t *testing.T) {
	t.Parallel()

	stub := &stubTariffService{set: demoSet()}
	handler := ReplaceTariffs(stub, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tariffs", strings.NewReader(replaceBody()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NotNil(t, stub.replaced)

	// Origin codes normalize to upper case on the way in.
	_, ok := stub.replaced.Origins["ES"]
	assert.True(t, ok)
	assert.Len(t, stub.replaced.Pallets, 2)
}

func TestReplaceTariffsDuplicateOrigin(t *testing.T) {
	t.Parallel()

	var payload setPayload
	require.NoError(t, json.Unmarshal([]byte(replaceBody()), &payload))
	payload.Origins = append(payload.Origins, payload.Origins[0])
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	handler := ReplaceTariffs(&stubTariffService{set: demoSet()}, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tariffs", strings.NewReader(string(raw)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "duplicate origin")
}

func TestReplaceTariffsRejectedByService(t *testing.T) {
	t.Parallel()

	stub := &stubTariffService{
		set: demoSet(),
		err: pkgerrors.New(pkgerrors.CodeValidation, "tariff set rejected"),
	}
	handler := ReplaceTariffs(stub, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tariffs", strings.NewReader(replaceBody()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestReplaceTariffsMalformedBody(t *testing.T) {
	t.Parallel()

	handler := ReplaceTariffs(&stubTariffService{set: demoSet()}, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tariffs", strings.NewReader(`{"origins": "nope"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

package pricing

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/johnkommas/corgres/api/responses"
	"github.com/johnkommas/corgres/api/validators"
	pricingsvc "github.com/johnkommas/corgres/internal/pricing"
	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/johnkommas/corgres/pkg/logger"
	"github.com/johnkommas/corgres/pkg/metrics"
)

// CreateQuote prices one shipment request.
func CreateQuote(svc pricingsvc.Service, logg *logger.Logger, quoteMetrics *metrics.QuoteMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := payload.toInput()
		if err != nil {
			quoteMetrics.IncFailure(payload.Origin, failureCode(err))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoteID := uuid.NewString()
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithQuoteID(ctx, quoteID)
			ctx = logg.WithOrigin(ctx, req.Origin)
			ctx = logg.WithDestination(ctx, req.Destination)
		}

		start := time.Now()
		result, err := svc.Price(ctx, req)
		if err != nil {
			quoteMetrics.IncFailure(req.Origin, failureCode(err))
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quoteMetrics.ObserveDuration(req.Origin, time.Since(start))
		quoteMetrics.IncSuccess(req.Origin)

		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"pallet_count":  result.Manifest.Count(),
				"chargeable_kg": result.Breakdown.ChargeableKg,
			})
			logg.Info(ctx, "quote.priced")
		}

		responses.WriteSuccess(w, newQuoteResponse(quoteID, result))
	}
}

func failureCode(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(pkgerrors.CodeInternal)
}

func itemID(raw string, index int) string {
	id := validators.SanitizeString(raw, 64)
	if id == "" {
		id = fmt.Sprintf("item-%d", index+1)
	}
	return id
}

func parseMode(raw string) (enums.TransportMode, error) {
	mode, err := enums.ParseTransportMode(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transport mode")
	}
	return mode, nil
}

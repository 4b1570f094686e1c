package tariffs

import (
	"net/http"

	"github.com/johnkommas/corgres/api/responses"
	"github.com/johnkommas/corgres/api/validators"
	tariffsvc "github.com/johnkommas/corgres/internal/tariffs"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/johnkommas/corgres/pkg/logger"
)

// GetTariffs returns the tariff snapshot currently serving quotes.
func GetTariffs(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tariff service unavailable"))
			return
		}
		responses.WriteSuccess(w, newSetResponse(svc.Current()))
	}
}

// ReplaceTariffs swaps in a full new tariff set. The replacement is
// atomic: in-flight quotes keep the snapshot they started with.
func ReplaceTariffs(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tariff service unavailable"))
			return
		}

		var payload setPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		set, err := payload.toSet()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Replace(r.Context(), set); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"origins":      len(set.Origins),
				"destinations": len(set.Destinations),
			})
			logg.Info(ctx, "tariffs.replaced")
		}

		responses.WriteSuccess(w, newSetResponse(set))
	}
}

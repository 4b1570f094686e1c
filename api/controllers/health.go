package controllers

import (
	"net/http"

	"github.com/johnkommas/corgres/api/responses"
	"github.com/johnkommas/corgres/pkg/config"
	"github.com/johnkommas/corgres/pkg/db"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/johnkommas/corgres/pkg/logger"
)

const envHeader = "X-Corgres-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

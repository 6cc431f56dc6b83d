package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/alarms"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/assets"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/tenants"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/presentation/api/auth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("dynatrace-mgmt/api")

func RegisterHandlers(router *chi.Mux, authenticator *auth.Authenticator, alarmSvc alarms.AlarmService, assetSvc assets.AssetService, tenantSvc tenants.TenantService) *chi.Mux {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			for _, mw := range authenticator.Middlewares() {
				r.Use(mw)
			}

			r.Route("/alarms", func(r chi.Router) {
				r.Get("/", queryAlarmsHandler(alarmSvc))
				r.Get("/stats", alarmStatsHandler(alarmSvc))
				r.Get("/filters/date", dateFiltersHandler(alarmSvc))
				r.Post("/sync", syncAlarmsHandler(alarmSvc))
				r.Post("/check-open", checkOpenAlarmsHandler(alarmSvc))
				r.Put("/status/{displayID}", updateAlarmStatusHandler(alarmSvc))

				r.Route("/{problemID}", func(r chi.Router) {
					r.Get("/details", problemDetailsHandler(alarmSvc))
					r.Post("/comments", addCommentHandler(alarmSvc))
					r.Get("/comments/{commentID}", getCommentHandler(alarmSvc))
					r.Put("/comments/{commentID}", updateCommentHandler(alarmSvc))
				})
			})

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", queryAssetsHandler(assetSvc))
				r.Get("/stats", assetStatsHandler(assetSvc))
				r.Get("/entity-types", entityTypesHandler(assetSvc))

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(auth.RoleAdmin))

					r.Post("/sync", syncAssetsHandler(assetSvc))
					r.Post("/sync/{tenantID}", syncTenantAssetsHandler(assetSvc, tenantSvc))
				})
			})

			r.Route("/tenants", func(r chi.Router) {
				r.Get("/", listTenantsHandler(tenantSvc))
				r.Get("/{tenantID}", getTenantHandler(tenantSvc))

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(auth.RoleAdmin))

					r.Post("/", createTenantHandler(tenantSvc))
					r.Put("/{tenantID}", updateTenantHandler(tenantSvc))
					r.Patch("/{tenantID}/enable", setTenantActiveHandler(tenantSvc, true))
					r.Patch("/{tenantID}/disable", setTenantActiveHandler(tenantSvc, false))
					r.Delete("/{tenantID}", deleteTenantHandler(tenantSvc))
				})
			})
		})
	})

	return router
}

func respondWithJSON(w http.ResponseWriter, logger zerolog.Logger, statusCode int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal response body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(b)
}

func respondWithError(w http.ResponseWriter, logger zerolog.Logger, statusCode int, message string, err error) {
	response := errorResponse{Message: message}

	if err != nil {
		logger.Error().Err(err).Msg(message)
		response.Error = err.Error()
	}

	respondWithJSON(w, logger, statusCode, response)
}

// statusCodeForError maps the well known service errors onto http status
// codes, anything unrecognized is a 500.
func statusCodeForError(err error) int {
	switch {
	case errors.Is(err, alarms.ErrAlarmNotFound),
		errors.Is(err, alarms.ErrTenantNotFound):
		return http.StatusNotFound
	case errors.Is(err, alarms.ErrInvalidStatus),
		errors.Is(err, assets.ErrTenantDisabled):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

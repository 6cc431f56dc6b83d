package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/tenants"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/presentation/api/auth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func listTenantsHandler(svc tenants.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "list-tenants")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		all, err := svc.List(ctx)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to fetch tenants", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, all)
	}
}

func getTenantHandler(svc tenants.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "get-tenant")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		tenantID, ok := tenantIDFromURL(w, r, logger)
		if !ok {
			return
		}

		tenant, err := svc.Get(ctx, tenantID)
		if errors.Is(err, tenants.ErrTenantNotFound) {
			respondWithError(w, logger, http.StatusNotFound, "tenant not found", err)
			return
		}
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to fetch tenant", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, tenant)
	}
}

func createTenantHandler(svc tenants.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "create-tenant")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		tenant, ok := tenantFromBody(w, r, logger)
		if !ok {
			return
		}

		if tenant.Name == "" || tenant.APIURL == "" || tenant.APIToken == "" {
			respondWithError(w, logger, http.StatusBadRequest, "name, dynatraceApiUrl and dynatraceApiToken are required", nil)
			return
		}

		tenant.CreatedBy = auth.UsernameFromContext(r)

		created, err := svc.Create(ctx, tenant)

		var connErr *tenants.ErrConnectionFailed
		if errors.As(err, &connErr) {
			respondWithError(w, logger, http.StatusBadRequest, "failed to connect to Dynatrace", err)
			return
		}
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to create tenant", err)
			return
		}

		respondWithJSON(w, logger, http.StatusCreated, created)
	}
}

func updateTenantHandler(svc tenants.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "update-tenant")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		tenantID, ok := tenantIDFromURL(w, r, logger)
		if !ok {
			return
		}

		tenant, ok := tenantFromBody(w, r, logger)
		if !ok {
			return
		}

		updated, err := svc.Update(ctx, tenantID, tenant)
		if errors.Is(err, tenants.ErrTenantNotFound) {
			respondWithError(w, logger, http.StatusNotFound, "tenant not found", err)
			return
		}
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to update tenant", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, updated)
	}
}

func setTenantActiveHandler(svc tenants.TenantService, active bool) http.HandlerFunc {
	spanName, verb, message := "disable-tenant", "disable", "Tenant disabled"
	if active {
		spanName, verb, message = "enable-tenant", "enable", "Tenant enabled"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), spanName)
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		tenantID, ok := tenantIDFromURL(w, r, logger)
		if !ok {
			return
		}

		tenant, err := svc.SetActive(ctx, tenantID, active)
		if errors.Is(err, tenants.ErrTenantNotFound) {
			respondWithError(w, logger, http.StatusNotFound, "tenant not found", err)
			return
		}
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to "+verb+" tenant", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, tenantStateResponse{
			Message:    message,
			TenantID:   tenant.ID,
			TenantName: tenant.Name,
		})
	}
}

func deleteTenantHandler(svc tenants.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "delete-tenant")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		tenantID, ok := tenantIDFromURL(w, r, logger)
		if !ok {
			return
		}

		result, err := svc.Delete(ctx, tenantID)
		if errors.Is(err, tenants.ErrTenantNotFound) {
			respondWithError(w, logger, http.StatusNotFound, "tenant not found", err)
			return
		}
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to delete tenant", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, tenantDeleteResponse{
			Message:       "Tenant permanently deleted",
			TenantID:      result.TenantID,
			TenantName:    result.TenantName,
			AlarmsDeleted: result.AlarmsDeleted,
			AssetsDeleted: result.AssetsDeleted,
		})
	}
}

func tenantIDFromURL(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uint, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "tenantID"))
	if err != nil || id < 1 {
		respondWithError(w, logger, http.StatusBadRequest, "tenant id is invalid", err)
		return 0, false
	}
	return uint(id), true
}

func tenantFromBody(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (database.Tenant, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, logger, http.StatusBadRequest, "unable to read body", err)
		return database.Tenant{}, false
	}

	var tenant database.Tenant
	if err := json.Unmarshal(body, &tenant); err != nil {
		respondWithError(w, logger, http.StatusBadRequest, "unable to parse body", err)
		return database.Tenant{}, false
	}

	return tenant, true
}

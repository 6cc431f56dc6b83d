package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/assets"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/tenants"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/cloudmon/dynatrace-mgmt/pkg/types"
	"github.com/go-chi/chi/v5"
)

func queryAssetsHandler(svc assets.AssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "query-assets")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		params := r.URL.Query()
		conditions := database.ParseConditions(params)

		// an unfiltered listing would return every entity of every tenant,
		// so default to hosts when neither a type nor a tenant is given
		if params.Get("type") == "" && params.Get("tenantId") == "" {
			conditions = append(conditions, database.WithType(types.AssetTypeHost))
		}

		collection, err := svc.Query(ctx, conditions...)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to fetch assets", err)
			return
		}

		views := make([]assetView, 0, len(collection.Data))
		for _, asset := range collection.Data {
			views = append(views, newAssetView(asset))
		}

		respondWithJSON(w, logger, http.StatusOK, assetsResponse{
			Assets: views,
			Total:  collection.TotalCount,
		})
	}
}

func assetStatsHandler(svc assets.AssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "asset-stats")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		buckets, err := svc.Stats(ctx, tenantIDFromQuery(r))
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "failed to fetch asset stats", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, buckets)
	}
}

func entityTypesHandler(svc assets.AssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "entity-types")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		entityTypes, err := svc.EntityTypes(ctx, tenantIDFromQuery(r))
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, statusCodeForError(err), "failed to fetch entity types", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, entityTypesResponse{
			Types:      entityTypes,
			TotalCount: len(entityTypes),
		})
	}
}

func syncAssetsHandler(svc assets.AssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "sync-assets")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		total, err := svc.SyncAll(ctx)
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "asset sync failed", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, map[string]any{
			"message":     "Sync completed",
			"totalAssets": total,
		})
	}
}

func syncTenantAssetsHandler(svc assets.AssetService, tenantSvc tenants.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "sync-tenant-assets")
		defer span.End()

		logger := logging.GetLoggerFromContext(ctx)

		tenantID, err := strconv.Atoi(chi.URLParam(r, "tenantID"))
		if err != nil {
			respondWithError(w, logger, http.StatusBadRequest, "tenant id is invalid", err)
			return
		}

		tenant, err := tenantSvc.Get(ctx, uint(tenantID))
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, statusCodeForError(err), "tenant not found", err)
			return
		}

		count, err := svc.SyncTenant(ctx, tenant.ID)
		if errors.Is(err, assets.ErrTenantDisabled) {
			respondWithError(w, logger, http.StatusBadRequest, "cannot sync a disabled tenant, enable it first", err)
			return
		}
		if err != nil {
			span.RecordError(err)
			respondWithError(w, logger, http.StatusInternalServerError, "asset sync failed", err)
			return
		}

		respondWithJSON(w, logger, http.StatusOK, tenantSyncResponse{
			Message:       "Tenant assets synced successfully",
			TenantID:      tenant.ID,
			TenantName:    tenant.Name,
			AssetsWritten: count,
		})
	}
}

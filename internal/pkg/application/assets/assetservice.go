package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/dynatrace"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/cloudmon/dynatrace-mgmt/pkg/types"

	"github.com/samber/lo"
)

var ErrTenantNotFound = database.ErrTenantNotFound
var ErrTenantDisabled = fmt.Errorf("tenant is disabled")

type AssetService interface {
	SyncAll(ctx context.Context) (int, error)
	SyncTenant(ctx context.Context, tenantID uint) (int, error)

	Query(ctx context.Context, conditions ...database.ConditionFunc) (types.Collection[database.Asset], error)
	Stats(ctx context.Context, tenantID uint) ([]types.StatBucket, error)
	EntityTypes(ctx context.Context, tenantID uint) ([]string, error)
}

type assetSvc struct {
	storage database.AssetRepository
	tenants database.TenantRepository

	newClient dynatrace.ClientFactory
}

func New(storage database.AssetRepository, tenants database.TenantRepository, newClient dynatrace.ClientFactory) AssetService {
	return &assetSvc{
		storage:   storage,
		tenants:   tenants,
		newClient: newClient,
	}
}

// SyncAll refreshes the asset inventory for every active tenant. Tenants
// fail independently of each other, and within a tenant each entity type
// fails independently as well.
func (svc *assetSvc) SyncAll(ctx context.Context) (int, error) {
	logger := logging.GetLoggerFromContext(ctx)

	tenants, err := svc.tenants.GetActive(ctx)
	if err != nil {
		return 0, err
	}

	totalAssets := 0

	for _, tenant := range tenants {
		count, err := svc.syncTenant(ctx, tenant)
		totalAssets += count

		if err != nil {
			logger.Error().Err(err).Msgf("failed to sync assets for tenant %s", tenant.Name)
			continue
		}

		logger.Info().Msgf("synced %d assets for tenant %s", count, tenant.Name)
	}

	logger.Info().Msgf("asset sync completed, %d assets written", totalAssets)

	return totalAssets, nil
}

func (svc *assetSvc) SyncTenant(ctx context.Context, tenantID uint) (int, error) {
	tenant, err := svc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	if !tenant.IsActive {
		return 0, ErrTenantDisabled
	}

	return svc.syncTenant(ctx, tenant)
}

func (svc *assetSvc) syncTenant(ctx context.Context, tenant database.Tenant) (int, error) {
	logger := logging.GetLoggerFromContext(ctx)

	client := svc.newClient(tenant.APIURL, tenant.APIToken)

	entityTypes, err := client.GetEntityTypes(ctx)
	if err != nil {
		return 0, err
	}

	typeNames := lo.Map(entityTypes, func(et dynatrace.EntityType, _ int) string {
		return et.Type
	})

	count := 0

	for _, typeName := range typeNames {
		entities, err := client.GetEntitiesByType(ctx, typeName)
		if err != nil {
			logger.Warn().Err(err).Msgf("failed to sync entities of type %s", typeName)
			continue
		}

		for _, entity := range entities {
			asset, err := assetFromEntity(tenant, entity)
			if err != nil {
				logger.Warn().Err(err).Msgf("failed to map entity %s", entity.EntityID)
				continue
			}

			if err := svc.storage.Save(ctx, &asset); err != nil {
				logger.Warn().Err(err).Msgf("failed to store entity %s", entity.EntityID)
				continue
			}
			count++
		}
	}

	return count, svc.tenants.UpdateLastSync(ctx, tenant.ID, time.Now().UTC())
}

func (svc *assetSvc) Query(ctx context.Context, conditions ...database.ConditionFunc) (types.Collection[database.Asset], error) {
	return svc.storage.Query(ctx, conditions...)
}

func (svc *assetSvc) Stats(ctx context.Context, tenantID uint) ([]types.StatBucket, error) {
	return svc.storage.Stats(ctx, tenantID)
}

func (svc *assetSvc) EntityTypes(ctx context.Context, tenantID uint) ([]string, error) {
	if _, err := svc.tenants.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	return svc.storage.DistinctTypes(ctx, tenantID)
}

func assetFromEntity(tenant database.Tenant, entity dynatrace.Entity) (database.Asset, error) {
	properties, err := json.Marshal(entity.Properties)
	if err != nil {
		return database.Asset{}, err
	}

	metadata, err := json.Marshal(map[string]any{
		"icon":            entity.Icon,
		"managementZones": entity.ManagementZones,
		"originalType":    entity.Type,
	})
	if err != nil {
		return database.Asset{}, err
	}

	now := time.Now().UTC()

	return database.Asset{
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		EntityID:   entity.EntityID,
		Name:       entity.DisplayName,
		Type:       NormalizeEntityType(entity.Type),
		Status:     entity.HealthStatus,
		Tags:       entity.Tags,
		Properties: properties,
		Metadata:   metadata,
		LastSeen:   &now,
	}, nil
}

// NormalizeEntityType folds the long tail of Dynatrace entity types into
// the categories the dashboard groups by. Substring checks run in a fixed
// order, so CONTAINER_GROUP_INSTANCE lands in CONTAINER and
// PROCESS_GROUP_INSTANCE in PROCESS_GROUP because CONTAINER is matched
// before PROCESS_GROUP. Unrecognized types pass through untouched.
func NormalizeEntityType(entityType string) string {
	if entityType == "" {
		return types.AssetTypeOther
	}

	upper := strings.ToUpper(entityType)

	categories := []string{
		types.AssetTypeHost,
		types.AssetTypeApplication,
		types.AssetTypeService,
		types.AssetTypeDatabase,
		types.AssetTypeContainer,
		types.AssetTypeProcessGroup,
	}

	for _, category := range categories {
		if strings.Contains(upper, category) {
			return category
		}
	}

	return entityType
}

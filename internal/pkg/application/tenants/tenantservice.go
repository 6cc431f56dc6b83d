package tenants

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/assets"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/dynatrace"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/cloudmon/dynatrace-mgmt/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
)

var ErrTenantNotFound = database.ErrTenantNotFound

// ErrConnectionFailed wraps the Dynatrace error message so callers can
// report why the environment could not be reached.
type ErrConnectionFailed struct {
	Reason string
}

func (e *ErrConnectionFailed) Error() string {
	return fmt.Sprintf("failed to connect to Dynatrace: %s", e.Reason)
}

type DeleteResult struct {
	TenantID      uint   `json:"tenantId"`
	TenantName    string `json:"tenantName"`
	AlarmsDeleted int64  `json:"alarmsDeleted"`
	AssetsDeleted int64  `json:"assetsDeleted"`
}

type TenantService interface {
	Create(ctx context.Context, tenant database.Tenant) (database.Tenant, error)
	List(ctx context.Context) ([]database.Tenant, error)
	Get(ctx context.Context, tenantID uint) (database.Tenant, error)
	Update(ctx context.Context, tenantID uint, tenant database.Tenant) (database.Tenant, error)
	SetActive(ctx context.Context, tenantID uint, active bool) (database.Tenant, error)
	Delete(ctx context.Context, tenantID uint) (DeleteResult, error)
}

type tenantSvc struct {
	storage database.TenantRepository
	assets  assets.AssetService

	newClient dynatrace.ClientFactory
	messenger messaging.MsgContext
}

func New(storage database.TenantRepository, assetSvc assets.AssetService, newClient dynatrace.ClientFactory, messenger messaging.MsgContext) TenantService {
	return &tenantSvc{
		storage:   storage,
		assets:    assetSvc,
		newClient: newClient,
		messenger: messenger,
	}
}

// Create verifies the supplied Dynatrace credentials before anything is
// stored, and kicks off an initial asset sync for the new tenant. A failed
// initial sync does not fail the create, the scheduler will retry it soon
// enough anyway.
func (svc *tenantSvc) Create(ctx context.Context, tenant database.Tenant) (database.Tenant, error) {
	logger := logging.GetLoggerFromContext(ctx)

	result := svc.newClient(tenant.APIURL, tenant.APIToken).TestConnection(ctx)
	if !result.Success {
		return database.Tenant{}, &ErrConnectionFailed{Reason: result.Error}
	}

	tenant.IsActive = true
	if tenant.URLType == "" {
		tenant.URLType = "standard"
	}

	if err := svc.storage.Save(ctx, &tenant); err != nil {
		return database.Tenant{}, err
	}

	count, err := svc.assets.SyncTenant(ctx, tenant.ID)
	if err != nil {
		logger.Warn().Err(err).Msgf("initial asset sync failed for tenant %s", tenant.Name)
	} else {
		logger.Info().Msgf("initial asset sync wrote %d assets for tenant %s", count, tenant.Name)
	}

	svc.publish(ctx, &types.TenantSynced{
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		Assets:     count,
		Timestamp:  time.Now().UTC(),
	})

	return svc.storage.GetByID(ctx, tenant.ID)
}

func (svc *tenantSvc) List(ctx context.Context) ([]database.Tenant, error) {
	return svc.storage.GetAll(ctx)
}

func (svc *tenantSvc) Get(ctx context.Context, tenantID uint) (database.Tenant, error) {
	return svc.storage.GetByID(ctx, tenantID)
}

func (svc *tenantSvc) Update(ctx context.Context, tenantID uint, updated database.Tenant) (database.Tenant, error) {
	tenant, err := svc.storage.GetByID(ctx, tenantID)
	if err != nil {
		return database.Tenant{}, err
	}

	if updated.Name != "" {
		tenant.Name = updated.Name
	}
	if updated.Description != "" {
		tenant.Description = updated.Description
	}
	if updated.EnvironmentID != "" {
		tenant.EnvironmentID = updated.EnvironmentID
	}
	if updated.APIURL != "" {
		tenant.APIURL = updated.APIURL
	}
	if updated.APIToken != "" {
		tenant.APIToken = updated.APIToken
	}
	if updated.URLType != "" {
		tenant.URLType = updated.URLType
	}

	if err := svc.storage.Save(ctx, &tenant); err != nil {
		return database.Tenant{}, err
	}

	return tenant, nil
}

func (svc *tenantSvc) SetActive(ctx context.Context, tenantID uint, active bool) (database.Tenant, error) {
	if err := svc.storage.SetActive(ctx, tenantID, active); err != nil {
		return database.Tenant{}, err
	}

	return svc.storage.GetByID(ctx, tenantID)
}

// Delete removes the tenant together with every alarm and asset that was
// synced for it.
func (svc *tenantSvc) Delete(ctx context.Context, tenantID uint) (DeleteResult, error) {
	tenant, err := svc.storage.GetByID(ctx, tenantID)
	if err != nil {
		return DeleteResult{}, err
	}

	alarmsDeleted, assetsDeleted, err := svc.storage.Delete(ctx, tenantID)
	if err != nil {
		return DeleteResult{}, err
	}

	return DeleteResult{
		TenantID:      tenant.ID,
		TenantName:    tenant.Name,
		AlarmsDeleted: alarmsDeleted,
		AssetsDeleted: assetsDeleted,
	}, nil
}

func (svc *tenantSvc) publish(ctx context.Context, message messaging.TopicMessage) {
	logger := logging.GetLoggerFromContext(ctx)

	if err := svc.messenger.PublishOnTopic(ctx, message); err != nil {
		logger.Warn().Err(err).Msgf("failed to publish message on topic %s", message.TopicName())
	}
}

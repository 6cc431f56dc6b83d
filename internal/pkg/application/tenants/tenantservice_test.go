package tenants

import (
	"context"
	"testing"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/assets"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/dynatrace"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestCreateVerifiesConnectionBeforeStoring(t *testing.T) {
	is, ctx, f := testSetup(t)

	f.api.TestConnectionFunc = func(ctx context.Context) dynatrace.ConnectionResult {
		return dynatrace.ConnectionResult{Success: false, Error: "401 Unauthorized"}
	}

	_, err := f.svc.Create(ctx, database.Tenant{Name: "acme", APIURL: "https://abc.live.dynatrace.com/api/v2", APIToken: "bad"})

	connErr, ok := err.(*ErrConnectionFailed)
	is.True(ok)
	is.Equal(connErr.Reason, "401 Unauthorized")

	tenants, err := f.svc.List(ctx)
	is.NoErr(err)
	is.Equal(len(tenants), 0)
}

func TestCreateRunsInitialAssetSync(t *testing.T) {
	is, ctx, f := testSetup(t)

	f.api.GetEntityTypesFunc = func(ctx context.Context) ([]dynatrace.EntityType, error) {
		return []dynatrace.EntityType{{Type: "HOST"}}, nil
	}
	f.api.GetEntitiesByTypeFunc = func(ctx context.Context, entityType string) ([]dynatrace.Entity, error) {
		return []dynatrace.Entity{{EntityID: "HOST-1", DisplayName: "web-1", Type: "HOST", HealthStatus: "HEALTHY"}}, nil
	}

	tenant, err := f.svc.Create(ctx, database.Tenant{
		Name:      "acme",
		APIURL:    "https://abc.live.dynatrace.com/api/v2",
		APIToken:  "dt0c01.token",
		CreatedBy: "admin",
	})

	is.NoErr(err)
	is.True(tenant.ID != 0)
	is.True(tenant.IsActive)
	is.True(tenant.LastSyncTime != nil)

	collection, err := f.assets.Query(ctx, database.WithTenantID(tenant.ID))
	is.NoErr(err)
	is.Equal(collection.TotalCount, uint64(1))
}

func TestCreateSurvivesFailedInitialSync(t *testing.T) {
	is, ctx, f := testSetup(t)

	f.api.GetEntityTypesFunc = func(ctx context.Context) ([]dynatrace.EntityType, error) {
		return nil, &dynatrace.APIError{StatusCode: 503, Body: "maintenance"}
	}

	tenant, err := f.svc.Create(ctx, database.Tenant{Name: "acme", APIURL: "https://abc.live.dynatrace.com/api/v2", APIToken: "dt0c01.token"})

	is.NoErr(err)
	is.True(tenant.ID != 0)
}

func TestListOrdersActiveTenantsFirst(t *testing.T) {
	is, ctx, f := testSetup(t)

	f.addTenant(is, ctx, "zebra", true)
	f.addTenant(is, ctx, "aardvark", false)
	f.addTenant(is, ctx, "marmot", true)

	tenants, err := f.svc.List(ctx)

	is.NoErr(err)
	is.Equal(len(tenants), 3)
	is.Equal(tenants[0].Name, "marmot")
	is.Equal(tenants[1].Name, "zebra")
	is.Equal(tenants[2].Name, "aardvark")
}

func TestGetUnknownTenantReturnsNotFound(t *testing.T) {
	is, ctx, f := testSetup(t)

	_, err := f.svc.Get(ctx, 4255553999)

	is.Equal(err, ErrTenantNotFound)
}

func TestUpdateOnlyTouchesProvidedFields(t *testing.T) {
	is, ctx, f := testSetup(t)

	tenant := f.addTenant(is, ctx, "acme", true)

	updated, err := f.svc.Update(ctx, tenant.ID, database.Tenant{Description: "production"})

	is.NoErr(err)
	is.Equal(updated.Name, "acme")
	is.Equal(updated.Description, "production")
	is.Equal(updated.APIToken, tenant.APIToken)
}

func TestDisableTenant(t *testing.T) {
	is, ctx, f := testSetup(t)

	tenant := f.addTenant(is, ctx, "acme", true)

	disabled, err := f.svc.SetActive(ctx, tenant.ID, false)

	is.NoErr(err)
	is.True(!disabled.IsActive)
}

func TestDeleteCascadesAlarmsAndAssets(t *testing.T) {
	is, ctx, f := testSetup(t)

	tenant := f.addTenant(is, ctx, "acme", true)

	is.NoErr(f.alarms.Save(ctx, &database.Alarm{TenantID: tenant.ID, AlarmID: uuid.New().String()}))
	is.NoErr(f.alarms.Save(ctx, &database.Alarm{TenantID: tenant.ID, AlarmID: uuid.New().String()}))
	is.NoErr(f.assetRepo.Save(ctx, &database.Asset{TenantID: tenant.ID, EntityID: uuid.New().String()}))

	result, err := f.svc.Delete(ctx, tenant.ID)

	is.NoErr(err)
	is.Equal(result.TenantName, "acme")
	is.Equal(result.AlarmsDeleted, int64(2))
	is.Equal(result.AssetsDeleted, int64(1))

	_, err = f.svc.Get(ctx, tenant.ID)
	is.Equal(err, ErrTenantNotFound)
}

type fixture struct {
	svc       TenantService
	assets    assets.AssetService
	alarms    database.AlarmRepository
	assetRepo database.AssetRepository
	tenants   database.TenantRepository

	api *dynatrace.APIMock
}

func (f *fixture) addTenant(is *is.I, ctx context.Context, name string, active bool) database.Tenant {
	tenant := database.Tenant{
		Name:     name,
		APIURL:   "https://" + uuid.New().String() + ".live.dynatrace.com/api/v2",
		APIToken: "dt0c01.token",
		IsActive: active,
	}
	is.NoErr(f.tenants.Save(ctx, &tenant))
	return tenant
}

func testSetup(t *testing.T) (*is.I, context.Context, *fixture) {
	is := is.New(t)
	ctx := context.Background()

	t.Setenv("DYNMGMT_SQLITE_DB_PATH", "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	conn := database.NewSQLiteConnector(zerolog.Logger{})

	tenantRepo, err := database.NewTenantRepository(conn)
	is.NoErr(err)
	alarmRepo, err := database.NewAlarmRepository(conn)
	is.NoErr(err)
	assetRepo, err := database.NewAssetRepository(conn)
	is.NoErr(err)

	f := &fixture{
		alarms:    alarmRepo,
		assetRepo: assetRepo,
		tenants:   tenantRepo,
		api: &dynatrace.APIMock{
			TestConnectionFunc: func(ctx context.Context) dynatrace.ConnectionResult {
				return dynatrace.ConnectionResult{Success: true}
			},
		},
	}

	newClient := func(apiURL, apiToken string) dynatrace.API {
		return f.api
	}

	f.assets = assets.New(assetRepo, tenantRepo, newClient)
	f.svc = New(tenantRepo, f.assets, newClient, &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	})

	return is, ctx, f
}

package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestSaveAndGetTenant(t *testing.T) {
	is, ctx, r := testSetupTenantRepository(t)

	tenant := Tenant{
		Name:     uuid.New().String(),
		APIURL:   "https://abc123.live.dynatrace.com/api/v2",
		APIToken: "dt0c01.token",
		IsActive: true,
	}

	is.NoErr(r.Save(ctx, &tenant))
	is.True(tenant.ID > 0)

	fetched, err := r.GetByID(ctx, tenant.ID)
	is.NoErr(err)
	is.Equal(fetched.Name, tenant.Name)
}

func TestGetTenantByUnknownIDReturnsNotFound(t *testing.T) {
	is, ctx, r := testSetupTenantRepository(t)

	_, err := r.GetByID(ctx, 4255553999)

	is.Equal(err, ErrTenantNotFound)
}

func TestGetActiveExcludesDisabledTenants(t *testing.T) {
	is, ctx, r := testSetupTenantRepository(t)

	active := Tenant{Name: uuid.New().String(), APIURL: "u", APIToken: "t", IsActive: true}
	disabled := Tenant{Name: uuid.New().String(), APIURL: "u", APIToken: "t", IsActive: false}

	is.NoErr(r.Save(ctx, &active))
	is.NoErr(r.Save(ctx, &disabled))

	tenants, err := r.GetActive(ctx)
	is.NoErr(err)

	for _, tenant := range tenants {
		is.True(tenant.IsActive)
		is.True(tenant.ID != disabled.ID)
	}
}

func TestSetActive(t *testing.T) {
	is, ctx, r := testSetupTenantRepository(t)

	tenant := Tenant{Name: uuid.New().String(), APIURL: "u", APIToken: "t", IsActive: true}
	is.NoErr(r.Save(ctx, &tenant))

	is.NoErr(r.SetActive(ctx, tenant.ID, false))

	fetched, err := r.GetByID(ctx, tenant.ID)
	is.NoErr(err)
	is.Equal(fetched.IsActive, false)
}

func TestSetActiveOnUnknownTenantReturnsNotFound(t *testing.T) {
	is, ctx, r := testSetupTenantRepository(t)

	err := r.SetActive(ctx, 4255553998, true)

	is.Equal(err, ErrTenantNotFound)
}

func TestUpdateLastSync(t *testing.T) {
	is, ctx, r := testSetupTenantRepository(t)

	tenant := Tenant{Name: uuid.New().String(), APIURL: "u", APIToken: "t", IsActive: true}
	is.NoErr(r.Save(ctx, &tenant))

	syncTime := time.Now().UTC().Truncate(time.Second)
	is.NoErr(r.UpdateLastSync(ctx, tenant.ID, syncTime))

	fetched, err := r.GetByID(ctx, tenant.ID)
	is.NoErr(err)
	is.True(fetched.LastSyncTime != nil)
	is.Equal(fetched.LastSyncTime.Unix(), syncTime.Unix())
}

func TestDeleteCascadesToAlarmsAndAssets(t *testing.T) {
	is, ctx, r := testSetupTenantRepository(t)

	tenant := Tenant{Name: uuid.New().String(), APIURL: "u", APIToken: "t", IsActive: true}
	is.NoErr(r.Save(ctx, &tenant))

	alarms, err := NewAlarmRepository(NewSQLiteConnector(zerolog.Logger{}))
	is.NoErr(err)
	assets, err := NewAssetRepository(NewSQLiteConnector(zerolog.Logger{}))
	is.NoErr(err)

	is.NoErr(alarms.Save(ctx, &Alarm{TenantID: tenant.ID, AlarmID: uuid.New().String(), Status: "OPEN"}))
	is.NoErr(alarms.Save(ctx, &Alarm{TenantID: tenant.ID, AlarmID: uuid.New().String(), Status: "CLOSED"}))
	is.NoErr(assets.Save(ctx, &Asset{TenantID: tenant.ID, EntityID: uuid.New().String(), Type: "HOST"}))

	alarmsDeleted, assetsDeleted, err := r.Delete(ctx, tenant.ID)

	is.NoErr(err)
	is.Equal(alarmsDeleted, int64(2))
	is.Equal(assetsDeleted, int64(1))

	_, err = r.GetByID(ctx, tenant.ID)
	is.Equal(err, ErrTenantNotFound)
}

func TestDeleteUnknownTenantReturnsNotFound(t *testing.T) {
	is, ctx, r := testSetupTenantRepository(t)

	_, _, err := r.Delete(ctx, 4255553997)

	is.Equal(err, ErrTenantNotFound)
}

func testSetupTenantRepository(t *testing.T) (*is.I, context.Context, TenantRepository) {
	is := is.New(t)
	ctx := context.Background()

	r, err := NewTenantRepository(NewSQLiteConnector(zerolog.Logger{}))
	is.NoErr(err)

	return is, ctx, r
}

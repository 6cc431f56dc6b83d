package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/alarms"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/assets"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/tenants"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/dynatrace"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/presentation/api/auth"
	"github.com/cloudmon/dynatrace-mgmt/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.request(is, http.MethodGet, "/api/alarms", "", nil)

	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestHealthEndpointNeedsNoToken(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.request(is, http.MethodGet, "/health", "", nil)

	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestGetAlarmsReturnsAlarmsAndTotal(t *testing.T) {
	is, f := testSetup(t)

	tenant := f.addTenant(is, true)
	ctx := context.Background()

	is.NoErr(f.alarmRepo.Save(ctx, &database.Alarm{
		TenantID: tenant.ID, AlarmID: uuid.New().String(), DisplayID: "P-1",
		Severity: "AVAILABILITY", Status: types.AlarmStatusOpen,
	}))

	resp, body := f.request(is, http.MethodGet, "/api/alarms?tenantId="+itoa(tenant.ID), f.viewerToken, nil)

	is.Equal(resp.StatusCode, http.StatusOK)

	var response alarmsResponse
	is.NoErr(json.Unmarshal(body, &response))
	is.Equal(response.Total, uint64(1))
	is.Equal(response.Alarms[0].DisplayID, "P-1")
}

func TestUpdateAlarmStatus(t *testing.T) {
	is, f := testSetup(t)

	tenant := f.addTenant(is, true)
	ctx := context.Background()

	is.NoErr(f.alarmRepo.Save(ctx, &database.Alarm{
		TenantID: tenant.ID, AlarmID: uuid.New().String(), DisplayID: "P-9",
		Status: types.AlarmStatusOpen,
	}))

	patch := []byte(`{"tenantId": ` + itoa(tenant.ID) + `, "status": "ACKNOWLEDGED"}`)
	resp, body := f.request(is, http.MethodPut, "/api/alarms/status/P-9", f.viewerToken, patch)

	is.Equal(resp.StatusCode, http.StatusOK)

	var response statusUpdateResponse
	is.NoErr(json.Unmarshal(body, &response))
	is.Equal(response.Alarm.NewStatus, types.AlarmStatusAcknowledged)
}

func TestUpdateAlarmStatusRejectsUnknownStatus(t *testing.T) {
	is, f := testSetup(t)

	tenant := f.addTenant(is, true)

	patch := []byte(`{"tenantId": ` + itoa(tenant.ID) + `, "status": "BROKEN"}`)
	resp, _ := f.request(is, http.MethodPut, "/api/alarms/status/P-9", f.viewerToken, patch)

	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestGetAssetsDefaultsToHostsWhenUnfiltered(t *testing.T) {
	is, f := testSetup(t)

	tenant := f.addTenant(is, true)
	ctx := context.Background()

	is.NoErr(f.assetRepo.Save(ctx, &database.Asset{
		TenantID: tenant.ID, EntityID: uuid.New().String(), Name: "web-1", Type: "HOST",
		Properties: json.RawMessage(`{"ipAddress":"10.0.0.4","memoryTotal":16}`),
	}))
	is.NoErr(f.assetRepo.Save(ctx, &database.Asset{
		TenantID: tenant.ID, EntityID: uuid.New().String(), Name: "checkout", Type: "SERVICE",
	}))

	resp, body := f.request(is, http.MethodGet, "/api/assets", f.viewerToken, nil)

	is.Equal(resp.StatusCode, http.StatusOK)

	var response assetsResponse
	is.NoErr(json.Unmarshal(body, &response))
	is.Equal(response.Total, uint64(1))
	is.Equal(response.Assets[0].Name, "web-1")
	is.Equal(response.Assets[0].Properties.IPAddress, "10.0.0.4")
	is.Equal(response.Assets[0].Properties.MemoryTotal, "16")
	is.Equal(response.Assets[0].Properties.OSType, "N/A")
}

func TestGetEntityTypesForUnknownTenantIsNotFound(t *testing.T) {
	is, f := testSetup(t)

	resp, _ := f.request(is, http.MethodGet, "/api/assets/entity-types?tenantId=4255553999", f.viewerToken, nil)

	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestCreateTenantRequiresAdminRole(t *testing.T) {
	is, f := testSetup(t)

	body := []byte(`{"name":"acme","dynatraceApiUrl":"https://abc.live.dynatrace.com/api/v2","dynatraceApiToken":"dt0c01.token"}`)
	resp, _ := f.request(is, http.MethodPost, "/api/tenants", f.viewerToken, body)

	is.Equal(resp.StatusCode, http.StatusForbidden)
}

func TestCreateTenantRecordsCreator(t *testing.T) {
	is, f := testSetup(t)

	body := []byte(`{"name":"acme","dynatraceApiUrl":"https://abc.live.dynatrace.com/api/v2","dynatraceApiToken":"dt0c01.token"}`)
	resp, responseBody := f.request(is, http.MethodPost, "/api/tenants", f.adminToken, body)

	is.Equal(resp.StatusCode, http.StatusCreated)

	var tenant database.Tenant
	is.NoErr(json.Unmarshal(responseBody, &tenant))
	is.Equal(tenant.CreatedBy, "admin")
}

func TestCreateTenantWithBadCredentialsFails(t *testing.T) {
	is, f := testSetup(t)

	f.api.TestConnectionFunc = func(ctx context.Context) dynatrace.ConnectionResult {
		return dynatrace.ConnectionResult{Success: false, Error: "401 Unauthorized"}
	}

	body := []byte(`{"name":"acme","dynatraceApiUrl":"https://abc.live.dynatrace.com/api/v2","dynatraceApiToken":"bad"}`)
	resp, responseBody := f.request(is, http.MethodPost, "/api/tenants", f.adminToken, body)

	is.Equal(resp.StatusCode, http.StatusBadRequest)

	var response errorResponse
	is.NoErr(json.Unmarshal(responseBody, &response))
	is.Equal(response.Message, "failed to connect to Dynatrace")
}

func TestDeleteTenantReportsCascadeCounts(t *testing.T) {
	is, f := testSetup(t)

	tenant := f.addTenant(is, true)
	ctx := context.Background()

	is.NoErr(f.alarmRepo.Save(ctx, &database.Alarm{TenantID: tenant.ID, AlarmID: uuid.New().String()}))
	is.NoErr(f.assetRepo.Save(ctx, &database.Asset{TenantID: tenant.ID, EntityID: uuid.New().String()}))

	resp, body := f.request(is, http.MethodDelete, "/api/tenants/"+itoa(tenant.ID), f.adminToken, nil)

	is.Equal(resp.StatusCode, http.StatusOK)

	var response tenantDeleteResponse
	is.NoErr(json.Unmarshal(body, &response))
	is.Equal(response.AlarmsDeleted, int64(1))
	is.Equal(response.AssetsDeleted, int64(1))
}

func TestDisableAndEnableTenant(t *testing.T) {
	is, f := testSetup(t)

	tenant := f.addTenant(is, true)

	resp, body := f.request(is, http.MethodPatch, "/api/tenants/"+itoa(tenant.ID)+"/disable", f.adminToken, nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	var state tenantStateResponse
	is.NoErr(json.Unmarshal(body, &state))
	is.Equal(state.Message, "Tenant disabled")

	stored, err := f.tenantRepo.GetByID(context.Background(), tenant.ID)
	is.NoErr(err)
	is.True(!stored.IsActive)

	resp, _ = f.request(is, http.MethodPatch, "/api/tenants/"+itoa(tenant.ID)+"/enable", f.adminToken, nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	stored, err = f.tenantRepo.GetByID(context.Background(), tenant.ID)
	is.NoErr(err)
	is.True(stored.IsActive)
}

type fixture struct {
	server *httptest.Server

	alarmRepo  database.AlarmRepository
	assetRepo  database.AssetRepository
	tenantRepo database.TenantRepository

	api *dynatrace.APIMock

	adminToken  string
	viewerToken string
}

func (f *fixture) addTenant(is *is.I, active bool) database.Tenant {
	tenant := database.Tenant{
		Name:     uuid.New().String(),
		APIURL:   "https://" + uuid.New().String() + ".live.dynatrace.com/api/v2",
		APIToken: "dt0c01.token",
		IsActive: active,
	}
	is.NoErr(f.tenantRepo.Save(context.Background(), &tenant))
	return tenant
}

func (f *fixture) request(is *is.I, method, path, token string, body []byte) (*http.Response, []byte) {
	req, err := http.NewRequest(method, f.server.URL+path, bytes.NewReader(body))
	is.NoErr(err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	buf := bytes.Buffer{}
	_, err = buf.ReadFrom(resp.Body)
	is.NoErr(err)

	return resp, buf.Bytes()
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func testSetup(t *testing.T) (*is.I, *fixture) {
	is := is.New(t)

	t.Setenv("DYNMGMT_SQLITE_DB_PATH", "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	conn := database.NewSQLiteConnector(zerolog.Logger{})

	tenantRepo, err := database.NewTenantRepository(conn)
	is.NoErr(err)
	alarmRepo, err := database.NewAlarmRepository(conn)
	is.NoErr(err)
	assetRepo, err := database.NewAssetRepository(conn)
	is.NoErr(err)
	filterRepo, err := database.NewDateFilterRepository(conn)
	is.NoErr(err)

	f := &fixture{
		alarmRepo:  alarmRepo,
		assetRepo:  assetRepo,
		tenantRepo: tenantRepo,
		api: &dynatrace.APIMock{
			TestConnectionFunc: func(ctx context.Context) dynatrace.ConnectionResult {
				return dynatrace.ConnectionResult{Success: true}
			},
			GetEntityTypesFunc: func(ctx context.Context) ([]dynatrace.EntityType, error) {
				return nil, nil
			},
		},
	}

	newClient := func(apiURL, apiToken string) dynatrace.API {
		return f.api
	}

	msgCtx := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
		RegisterTopicMessageHandlerFunc: func(routingKey string, handler messaging.TopicMessageHandler) {
		},
	}

	alarmSvc := alarms.New(alarmRepo, tenantRepo, filterRepo, newClient, msgCtx)
	assetSvc := assets.New(assetRepo, tenantRepo, newClient)
	tenantSvc := tenants.New(tenantRepo, assetSvc, newClient, msgCtx)

	secret := []byte("test-secret")
	router := RegisterHandlers(chi.NewRouter(), auth.New(secret), alarmSvc, assetSvc, tenantSvc)

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)

	tokenAuth := jwtauth.New("HS256", secret, nil)
	_, f.adminToken, err = tokenAuth.Encode(map[string]any{"username": "admin", "role": auth.RoleAdmin})
	is.NoErr(err)
	_, f.viewerToken, err = tokenAuth.Encode(map[string]any{"username": "viewer", "role": auth.RoleViewer})
	is.NoErr(err)

	return is, f
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/cloudmon/dynatrace-mgmt/pkg/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("dynatrace-mgmt-client")

// MonitoringClient talks to a running dynatrace-mgmt instance. Other
// services use it to look up the alarm and asset state that the sync
// engine maintains.
type MonitoringClient interface {
	GetAlarms(ctx context.Context, params url.Values) (AlarmsResult, error)
	GetAlarmStats(ctx context.Context, tenantID uint) ([]types.StatBucket, error)
	GetAssets(ctx context.Context, params url.Values) (AssetsResult, error)
}

type AlarmsResult struct {
	Alarms []Alarm `json:"alarms"`
	Total  uint64  `json:"total"`
}

type Alarm struct {
	ID             uint   `json:"id"`
	TenantID       uint   `json:"tenantId"`
	AlarmID        string `json:"dynatraceAlarmId"`
	DisplayID      string `json:"displayId"`
	Title          string `json:"title"`
	Severity       string `json:"severity"`
	Status         string `json:"status"`
	AffectedEntity string `json:"affectedEntity"`
}

type AssetsResult struct {
	Assets []Asset `json:"assets"`
	Total  uint64  `json:"total"`
}

type Asset struct {
	ID       uint   `json:"id"`
	TenantID uint   `json:"tenantId"`
	EntityID string `json:"dynatraceEntityId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Status   string `json:"status"`
}

type monitoringClient struct {
	baseURL    string
	token      string
	httpClient http.Client
}

func New(baseURL, token string) MonitoringClient {
	return &monitoringClient{
		baseURL: baseURL,
		token:   token,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *monitoringClient) GetAlarms(ctx context.Context, params url.Values) (AlarmsResult, error) {
	ctx, span := tracer.Start(ctx, "get-alarms")
	defer span.End()

	result := AlarmsResult{}
	err := c.get(ctx, "/api/alarms", params, &result)
	if err != nil {
		span.RecordError(err)
		return AlarmsResult{}, err
	}

	return result, nil
}

func (c *monitoringClient) GetAlarmStats(ctx context.Context, tenantID uint) ([]types.StatBucket, error) {
	ctx, span := tracer.Start(ctx, "get-alarm-stats")
	defer span.End()

	params := url.Values{}
	if tenantID != 0 {
		params.Set("tenantId", fmt.Sprintf("%d", tenantID))
	}

	buckets := []types.StatBucket{}
	err := c.get(ctx, "/api/alarms/stats", params, &buckets)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return buckets, nil
}

func (c *monitoringClient) GetAssets(ctx context.Context, params url.Values) (AssetsResult, error) {
	ctx, span := tracer.Start(ctx, "get-assets")
	defer span.End()

	result := AssetsResult{}
	err := c.get(ctx, "/api/assets", params, &result)
	if err != nil {
		span.RecordError(err)
		return AssetsResult{}, err
	}

	return result, nil
}

func (c *monitoringClient) get(ctx context.Context, path string, params url.Values, into any) error {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s failed with status code %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	err = json.Unmarshal(body, into)
	if err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return nil
}

package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/cloudmon/dynatrace-mgmt/pkg/types"
)

type alarmsResponse struct {
	Alarms []database.Alarm `json:"alarms"`
	Total  uint64           `json:"total"`
}

type assetsResponse struct {
	Assets []assetView `json:"assets"`
	Total  uint64      `json:"total"`
}

// assetView is the flattened shape the dashboard inventory table renders.
// Only the properties the table has columns for are included, missing ones
// come back as N/A.
type assetView struct {
	ID         uint            `json:"id"`
	TenantID   uint            `json:"tenantId"`
	TenantName string          `json:"tenantName"`
	EntityID   string          `json:"dynatraceEntityId"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Status     string          `json:"status"`
	Properties assetProperties `json:"properties"`
	LastSeen   *time.Time      `json:"lastSeen"`
}

type assetProperties struct {
	IPAddress       string `json:"ipAddress"`
	MacAddresses    string `json:"macAddresses"`
	OSType          string `json:"osType"`
	OSVersion       string `json:"osVersion"`
	OSArchitecture  string `json:"osArchitecture"`
	State           string `json:"state"`
	HypervisorType  string `json:"hypervisorType"`
	LogicalCPUCores string `json:"logicalCpuCores"`
	MemoryTotal     string `json:"memoryTotal"`
}

type entityTypesResponse struct {
	Types      []string `json:"types"`
	TotalCount int      `json:"totalCount"`
}

type statusUpdateResponse struct {
	Message string             `json:"message"`
	Alarm   types.StatusUpdate `json:"alarm"`
}

type tenantSyncResponse struct {
	Message       string `json:"message"`
	TenantID      uint   `json:"tenantId"`
	TenantName    string `json:"tenantName"`
	AssetsWritten int    `json:"assetsWritten"`
}

type tenantStateResponse struct {
	Message    string `json:"message"`
	TenantID   uint   `json:"tenantId"`
	TenantName string `json:"tenantName"`
}

type tenantDeleteResponse struct {
	Message       string `json:"message"`
	TenantID      uint   `json:"tenantId"`
	TenantName    string `json:"tenantName"`
	AlarmsDeleted int64  `json:"alarmsDeleted"`
	AssetsDeleted int64  `json:"assetsDeleted"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func newAssetView(asset database.Asset) assetView {
	properties := map[string]any{}
	if len(asset.Properties) > 0 {
		json.Unmarshal(asset.Properties, &properties)
	}

	return assetView{
		ID:         asset.ID,
		TenantID:   asset.TenantID,
		TenantName: asset.TenantName,
		EntityID:   asset.EntityID,
		Name:       asset.Name,
		Type:       asset.Type,
		Status:     asset.Status,
		Properties: assetProperties{
			IPAddress:       propertyOrNA(properties, "ipAddress"),
			MacAddresses:    propertyOrNA(properties, "macAddresses"),
			OSType:          propertyOrNA(properties, "osType"),
			OSVersion:       propertyOrNA(properties, "osVersion"),
			OSArchitecture:  propertyOrNA(properties, "osArchitecture"),
			State:           propertyOrNA(properties, "state"),
			HypervisorType:  propertyOrNA(properties, "hypervisorType"),
			LogicalCPUCores: propertyOrNA(properties, "logicalCpuCores"),
			MemoryTotal:     propertyOrNA(properties, "memoryTotal"),
		},
		LastSeen: asset.LastSeen,
	}
}

func propertyOrNA(properties map[string]any, key string) string {
	value, ok := properties[key]
	if !ok || value == nil {
		return "N/A"
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return "N/A"
		}
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "N/A"
		}
		return strings.Join(parts, ",")
	case float64:
		b, _ := json.Marshal(v)
		return string(b)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

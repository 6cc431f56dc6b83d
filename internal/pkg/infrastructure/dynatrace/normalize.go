package dynatrace

import (
	"encoding/json"
	"math"
	"strings"
)

// property keys that parseEntity owns, raw values for these are never
// allowed to overwrite the normalized ones
var normalizedKeys = map[string]struct{}{
	"ipAddress":       {},
	"macAddresses":    {},
	"osType":          {},
	"osVersion":       {},
	"osArchitecture":  {},
	"bitness":         {},
	"state":           {},
	"hypervisorType":  {},
	"logicalCpuCores": {},
	"memoryTotal":     {},
}

// parseEntity normalizes the property bag of an entity so that the
// dashboard gets predictable keys regardless of entity type.
func parseEntity(raw rawEntity) Entity {
	props := raw.Properties
	if props == nil {
		props = map[string]any{}
	}

	normalized := map[string]any{
		"ipAddress":       ipAddressOf(props),
		"macAddresses":    macAddressesOf(props),
		"osType":          firstString(props, "osType", "system_contact"),
		"osVersion":       firstString(props, "osVersion"),
		"osArchitecture":  firstString(props, "osArchitecture"),
		"bitness":         firstString(props, "bitness"),
		"state":           stateOf(props),
		"hypervisorType":  hypervisorTypeOf(props),
		"logicalCpuCores": scalarOr(props, "logicalCpuCores", "EMPTY"),
		"memoryTotal":     memoryTotalOf(props),
	}

	for key, value := range props {
		if _, owned := normalizedKeys[key]; !owned {
			normalized[key] = value
		}
	}

	displayName := raw.DisplayName
	if displayName == "" {
		if detected, ok := props["detectedName"].(string); ok && detected != "" {
			displayName = detected
		} else {
			displayName = "Unknown"
		}
	}

	healthStatus := raw.HealthStatus
	if healthStatus == "" {
		healthStatus = "UNKNOWN"
	}

	tags := raw.Tags
	if len(tags) == 0 {
		tags = json.RawMessage("[]")
	}

	return Entity{
		EntityID:        raw.EntityID,
		DisplayName:     displayName,
		Type:            raw.Type,
		HealthStatus:    healthStatus,
		Icon:            raw.Icon,
		ManagementZones: raw.ManagementZones,
		Tags:            tags,
		Properties:      normalized,
	}
}

func ipAddressOf(props map[string]any) string {
	if joined, ok := joinStrings(props["ipAddress"]); ok {
		return joined
	}
	if joined, ok := joinStrings(props["dt.ip_addresses"]); ok {
		return joined
	}
	if addr, ok := props["deviceAddress"].(string); ok {
		return addr
	}
	return ""
}

func macAddressesOf(props map[string]any) any {
	if joined, ok := joinStrings(props["macAddresses"]); ok {
		return joined
	}
	if value, found := props["macAddresses"]; found && value != nil {
		return value
	}
	return "EMPTY"
}

func stateOf(props map[string]any) any {
	if value, found := props["state"]; found && value != nil {
		return value
	}
	return "UNKNOWN"
}

// entities that report a state but no hypervisor are assumed to run on
// bare metal
func hypervisorTypeOf(props map[string]any) any {
	if value, found := props["hypervisorType"]; found && value != nil {
		return value
	}
	if _, found := props["state"]; found {
		return "PHYSICAL"
	}
	return "UNKNOWN"
}

// memoryTotalOf converts the reported byte count to whole gigabytes
func memoryTotalOf(props map[string]any) any {
	if bytes, ok := props["memoryTotal"].(float64); ok && bytes > 0 {
		return int(math.Round(bytes / 1024 / 1024 / 1024))
	}
	return "EMPTY"
}

func firstString(props map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := props[key].(string); ok && value != "" {
			return value
		}
	}
	return "EMPTY"
}

func scalarOr(props map[string]any, key string, fallback any) any {
	if value, found := props[key]; found && value != nil {
		return value
	}
	return fallback
}

func joinStrings(value any) (string, bool) {
	list, ok := value.([]any)
	if !ok {
		return "", false
	}

	parts := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, ","), true
}

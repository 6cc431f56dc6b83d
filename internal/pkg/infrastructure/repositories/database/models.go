package database

import (
	"encoding/json"
	"time"
)

type Tenant struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`

	EnvironmentID string `json:"dynatraceEnvironmentId"`
	APIURL        string `gorm:"not null" json:"dynatraceApiUrl"`
	APIToken      string `gorm:"not null" json:"dynatraceApiToken"`
	URLType       string `gorm:"default:standard" json:"urlType"`

	IsActive     bool       `json:"isActive"`
	LastSyncTime *time.Time `json:"lastSyncTime"`
	CreatedBy    string     `json:"createdBy,omitempty"`
}

type Alarm struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TenantID   uint   `gorm:"index;not null" json:"tenantId"`
	TenantName string `json:"tenantName"`

	// AlarmID is the problem id assigned by Dynatrace, DisplayID is the
	// shorter id shown in their UI. Both identify the alarm within a tenant.
	AlarmID   string `gorm:"column:dynatrace_alarm_id;uniqueIndex;not null" json:"dynatraceAlarmId"`
	DisplayID string `gorm:"index" json:"displayId"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`

	AffectedEntity string `json:"affectedEntity"`
	EntityType     string `json:"entityType"`

	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`

	Tags json.RawMessage `json:"tags"`

	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedBy string     `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
}

type Asset struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TenantID   uint   `gorm:"index;not null" json:"tenantId"`
	TenantName string `json:"tenantName"`

	EntityID string `gorm:"column:dynatrace_entity_id;uniqueIndex;not null" json:"dynatraceEntityId"`

	Name   string `json:"name"`
	Type   string `gorm:"index" json:"type"`
	Status string `json:"status"`

	Tags       json.RawMessage `json:"tags"`
	Properties json.RawMessage `json:"properties"`
	Metadata   json.RawMessage `json:"metadata"`

	LastSeen *time.Time `json:"lastSeen"`
}

type DateFilter struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Label    string `gorm:"uniqueIndex;not null" json:"label"`
	Value    string `gorm:"not null" json:"value"`
	Seconds  int    `gorm:"not null" json:"seconds"`
	IsActive bool   `json:"isActive"`

	// order is a reserved word in most sql dialects
	SortOrder int `gorm:"column:sort_order" json:"order"`
}

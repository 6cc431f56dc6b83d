package types

import (
	"encoding/json"
	"time"
)

type AlarmCreated struct {
	AlarmID   string    `json:"dynatraceAlarmId"`
	DisplayID string    `json:"displayId"`
	Tenant    string    `json:"tenant,omitempty"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *AlarmCreated) ContentType() string {
	return "application/json"
}
func (a *AlarmCreated) TopicName() string {
	return "alarms.alarmCreated"
}
func (a *AlarmCreated) Body() []byte {
	b, _ := json.Marshal(a)
	return b
}

type AlarmStatusChanged struct {
	AlarmID        string    `json:"dynatraceAlarmId"`
	DisplayID      string    `json:"displayId"`
	Tenant         string    `json:"tenant,omitempty"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Timestamp      time.Time `json:"timestamp"`
}

func (a *AlarmStatusChanged) ContentType() string {
	return "application/json"
}
func (a *AlarmStatusChanged) TopicName() string {
	return "alarms.statusChanged"
}
func (a *AlarmStatusChanged) Body() []byte {
	b, _ := json.Marshal(a)
	return b
}

type TenantSynced struct {
	TenantID   uint      `json:"tenantId"`
	TenantName string    `json:"tenantName"`
	Assets     int       `json:"assets"`
	Timestamp  time.Time `json:"timestamp"`
}

func (t *TenantSynced) ContentType() string {
	return "application/json"
}
func (t *TenantSynced) TopicName() string {
	return "tenants.synced"
}
func (t *TenantSynced) Body() []byte {
	b, _ := json.Marshal(t)
	return b
}

package types

const (
	AlarmStatusOpen         = "OPEN"
	AlarmStatusClosed       = "CLOSED"
	AlarmStatusResolved     = "RESOLVED"
	AlarmStatusAcknowledged = "ACKNOWLEDGED"
)

var ValidAlarmStatuses = []string{
	AlarmStatusOpen,
	AlarmStatusClosed,
	AlarmStatusResolved,
	AlarmStatusAcknowledged,
}

const (
	AssetTypeHost         = "HOST"
	AssetTypeApplication  = "APPLICATION"
	AssetTypeService      = "SERVICE"
	AssetTypeDatabase     = "DATABASE"
	AssetTypeContainer    = "CONTAINER"
	AssetTypeProcessGroup = "PROCESS_GROUP"
	AssetTypeOther        = "OTHER"
)

type Collection[T any] struct {
	Data       []T
	Count      uint64
	Offset     uint64
	Limit      uint64
	TotalCount uint64
}

// StatBucket is one row in a stats response. The _id key is what the
// dashboard frontend expects, so it stays.
type StatBucket struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

type SyncResult struct {
	Message     string `json:"message"`
	TotalAlarms int    `json:"totalAlarms,omitempty"`
	TotalAssets int    `json:"totalAssets,omitempty"`
}

type CheckResult struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updatedCount"`
	ErrorCount   int    `json:"errorCount"`
	TotalChecked int    `json:"totalChecked"`
}

type StatusUpdate struct {
	ID             uint   `json:"id"`
	DisplayID      string `json:"displayId"`
	AlarmID        string `json:"dynatraceAlarmId"`
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
}

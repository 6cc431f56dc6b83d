package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudmon/dynatrace-mgmt/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlarmNotFound = fmt.Errorf("alarm not found")

type AlarmRepository interface {
	FindByExternalKeys(ctx context.Context, tenantID uint, alarmID, displayID string) (Alarm, error)
	FindByDisplayID(ctx context.Context, tenantID uint, displayID string) (Alarm, error)
	GetOpen(ctx context.Context) ([]Alarm, error)
	Save(ctx context.Context, alarm *Alarm) error
	Query(ctx context.Context, conditions ...ConditionFunc) (types.Collection[Alarm], error)
	Stats(ctx context.Context, tenantID uint) ([]types.StatBucket, error)
}

type alarmRepository struct {
	db *gorm.DB
}

func NewAlarmRepository(connect ConnectorFunc) (AlarmRepository, error) {
	impl, _, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Alarm{})
	if err != nil {
		return nil, err
	}

	return &alarmRepository{
		db: impl,
	}, nil
}

// FindByExternalKeys resolves an alarm by its Dynatrace identifiers. The
// problem id takes precedence, the display id is only consulted when no
// row matches on the problem id. Dynatrace occasionally reassigns problem
// ids while the display id stays stable, so the second key catches those.
func (d *alarmRepository) FindByExternalKeys(ctx context.Context, tenantID uint, alarmID, displayID string) (Alarm, error) {
	keyPredicates := []struct {
		column string
		value  string
	}{
		{"dynatrace_alarm_id", alarmID},
		{"display_id", displayID},
	}

	for _, predicate := range keyPredicates {
		if predicate.value == "" {
			continue
		}

		alarm := Alarm{}

		result := d.db.WithContext(ctx).
			Where("tenant_id = ? AND "+predicate.column+" = ?", tenantID, predicate.value).
			First(&alarm)

		if result.Error == nil {
			return alarm, nil
		}

		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Alarm{}, result.Error
		}
	}

	return Alarm{}, ErrAlarmNotFound
}

func (d *alarmRepository) FindByDisplayID(ctx context.Context, tenantID uint, displayID string) (Alarm, error) {
	alarm := Alarm{}

	result := d.db.WithContext(ctx).
		Where("tenant_id = ? AND display_id = ?", tenantID, displayID).
		First(&alarm)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Alarm{}, ErrAlarmNotFound
		}
		return Alarm{}, result.Error
	}

	return alarm, nil
}

func (d *alarmRepository) GetOpen(ctx context.Context) ([]Alarm, error) {
	alarms := []Alarm{}

	err := d.db.WithContext(ctx).
		Where("status = ?", types.AlarmStatusOpen).
		Find(&alarms).
		Error

	if err != nil {
		return []Alarm{}, err
	}

	return alarms, nil
}

func (d *alarmRepository) Save(ctx context.Context, alarm *Alarm) error {
	if alarm.ID != 0 {
		return d.db.WithContext(ctx).Save(alarm).Error
	}

	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dynatrace_alarm_id"}},
			UpdateAll: true,
		}).
		Create(alarm).
		Error
}

func (d *alarmRepository) Query(ctx context.Context, conditions ...ConditionFunc) (types.Collection[Alarm], error) {
	condition := &Condition{}
	for _, cf := range conditions {
		condition = cf(condition)
	}

	query := d.db.WithContext(ctx).Model(&Alarm{})

	if condition.TenantID != nil {
		query = query.Where("tenant_id = ?", *condition.TenantID)
	}
	if condition.Severity != "" {
		query = query.Where("severity = ?", condition.Severity)
	}
	if condition.Status != "" {
		query = query.Where("status = ?", condition.Status)
	}

	// The date range only narrows down closed history, alarms in any other
	// status are shown regardless of age.
	if condition.Status == types.AlarmStatusClosed || condition.Status == "" {
		if condition.From != nil {
			query = query.Where("start_time >= ?", *condition.From)
		}
		if condition.To != nil {
			query = query.Where("start_time <= ?", *condition.To)
		}
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return types.Collection[Alarm]{}, err
	}

	query = query.Order("created_at DESC").Offset(condition.Offset())
	if limit := condition.Limit(0); limit > 0 {
		query = query.Limit(limit)
	}

	alarms := []Alarm{}
	if err := query.Find(&alarms).Error; err != nil {
		return types.Collection[Alarm]{}, err
	}

	return types.Collection[Alarm]{
		Data:       alarms,
		Count:      uint64(len(alarms)),
		Offset:     uint64(condition.Offset()),
		Limit:      uint64(condition.Limit(0)),
		TotalCount: uint64(totalCount),
	}, nil
}

// Stats returns alarm counts grouped by severity, bracketed by a Total
// bucket first and a Closed bucket last. A tenantID of 0 means all tenants.
func (d *alarmRepository) Stats(ctx context.Context, tenantID uint) ([]types.StatBucket, error) {
	scoped := func() *gorm.DB {
		query := d.db.WithContext(ctx).Model(&Alarm{})
		if tenantID != 0 {
			query = query.Where("tenant_id = ?", tenantID)
		}
		return query
	}

	severityRows := []struct {
		Severity string
		Count    int
	}{}

	err := scoped().
		Select("severity, count(id) as count").
		Group("severity").
		Find(&severityRows).
		Error
	if err != nil {
		return nil, err
	}

	var totalCount, closedCount int64

	if err := scoped().Count(&totalCount).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("status = ?", types.AlarmStatusClosed).Count(&closedCount).Error; err != nil {
		return nil, err
	}

	buckets := make([]types.StatBucket, 0, len(severityRows)+2)
	buckets = append(buckets, types.StatBucket{ID: "Total", Count: int(totalCount)})

	for _, row := range severityRows {
		buckets = append(buckets, types.StatBucket{ID: row.Severity, Count: row.Count})
	}

	buckets = append(buckets, types.StatBucket{ID: "Closed", Count: int(closedCount)})

	return buckets, nil
}

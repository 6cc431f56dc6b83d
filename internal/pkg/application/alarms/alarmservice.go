package alarms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/dynatrace"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/cloudmon/dynatrace-mgmt/pkg/types"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/samber/lo"
)

var ErrAlarmNotFound = database.ErrAlarmNotFound
var ErrTenantNotFound = database.ErrTenantNotFound
var ErrInvalidStatus = fmt.Errorf("invalid status")

type AlarmService interface {
	Sync(ctx context.Context, from, to string) (int, error)
	CheckOpenAlarms(ctx context.Context) (types.CheckResult, error)

	Query(ctx context.Context, conditions ...database.ConditionFunc) (types.Collection[database.Alarm], error)
	Stats(ctx context.Context, tenantID uint) ([]types.StatBucket, error)
	UpdateStatus(ctx context.Context, tenantID uint, displayID, status string) (types.StatusUpdate, error)
	DateFilters(ctx context.Context) ([]database.DateFilter, error)

	ProblemDetails(ctx context.Context, tenantID uint, problemID string) (json.RawMessage, error)
	AddComment(ctx context.Context, tenantID uint, problemID, message string) (json.RawMessage, error)
	UpdateComment(ctx context.Context, tenantID uint, problemID, commentID, message string) (json.RawMessage, error)
	GetComment(ctx context.Context, tenantID uint, problemID, commentID string) (json.RawMessage, error)
}

type alarmSvc struct {
	storage     database.AlarmRepository
	tenants     database.TenantRepository
	dateFilters database.DateFilterRepository

	newClient dynatrace.ClientFactory
	messenger messaging.MsgContext
}

func New(storage database.AlarmRepository, tenants database.TenantRepository, dateFilters database.DateFilterRepository, newClient dynatrace.ClientFactory, messenger messaging.MsgContext) AlarmService {
	svc := &alarmSvc{
		storage:     storage,
		tenants:     tenants,
		dateFilters: dateFilters,
		newClient:   newClient,
		messenger:   messenger,
	}

	svc.messenger.RegisterTopicMessageHandler("alarms.syncRequested", NewSyncRequestedHandler(svc))

	return svc
}

// Sync pulls problems for every active tenant and reconciles them into the
// alarm store. A failing tenant is logged and skipped so that an expired
// token in one environment does not starve the others. The returned count
// is the number of problems processed across all tenants.
func (svc *alarmSvc) Sync(ctx context.Context, from, to string) (int, error) {
	logger := logging.GetLoggerFromContext(ctx)

	tenants, err := svc.tenants.GetActive(ctx)
	if err != nil {
		return 0, err
	}

	totalAlarms := 0

	for _, tenant := range tenants {
		count, err := svc.syncTenant(ctx, tenant, from, to)
		totalAlarms += count

		if err != nil {
			logger.Error().Err(err).Msgf("failed to sync alarms for tenant %s", tenant.Name)
			continue
		}
	}

	logger.Info().Msgf("alarm sync completed, %d alarms synced", totalAlarms)

	return totalAlarms, nil
}

func (svc *alarmSvc) syncTenant(ctx context.Context, tenant database.Tenant, from, to string) (int, error) {
	client := svc.newClient(tenant.APIURL, tenant.APIToken)

	problems, err := client.GetProblems(ctx, dynatrace.ProblemFilter{From: from, To: to})
	if err != nil {
		return 0, err
	}

	count := 0

	for _, problem := range problems {
		if err := svc.reconcileProblem(ctx, tenant, problem); err != nil {
			return count, err
		}
		count++
	}

	return count, svc.tenants.UpdateLastSync(ctx, tenant.ID, time.Now().UTC())
}

func (svc *alarmSvc) reconcileProblem(ctx context.Context, tenant database.Tenant, problem dynatrace.Problem) error {
	logger := logging.GetLoggerFromContext(ctx)

	existing, err := svc.storage.FindByExternalKeys(ctx, tenant.ID, problem.ProblemID, problem.DisplayID)
	isNew := errors.Is(err, database.ErrAlarmNotFound)
	if err != nil && !isNew {
		return err
	}

	affectedEntity, entityType := affectedEntityOf(problem)

	alarm := database.Alarm{
		TenantID:       tenant.ID,
		TenantName:     tenant.Name,
		AlarmID:        problem.ProblemID,
		DisplayID:      problem.DisplayID,
		Title:          problem.Title,
		Description:    problem.Title,
		Severity:       problem.SeverityLevel,
		Status:         problem.Status,
		AffectedEntity: affectedEntity,
		EntityType:     entityType,
		StartTime:      timeFromMillis(problem.StartTime),
		EndTime:        timeFromMillis(problem.EndTime),
		Tags:           tagsOf(problem),
	}

	if !isNew {
		alarm.ID = existing.ID
		alarm.CreatedAt = existing.CreatedAt
		alarm.Acknowledged = existing.Acknowledged
		alarm.AcknowledgedBy = existing.AcknowledgedBy
		alarm.AcknowledgedAt = existing.AcknowledgedAt
	}

	if err := svc.storage.Save(ctx, &alarm); err != nil {
		return err
	}

	if isNew {
		svc.publish(ctx, &types.AlarmCreated{
			AlarmID:   alarm.AlarmID,
			DisplayID: alarm.DisplayID,
			Tenant:    tenant.Name,
			Severity:  alarm.Severity,
			Timestamp: time.Now().UTC(),
		})
	} else if existing.Status != problem.Status {
		logger.Warn().Msgf("status changed for %s: %s -> %s", displayIDOrAlarmID(alarm), existing.Status, problem.Status)

		svc.publish(ctx, &types.AlarmStatusChanged{
			AlarmID:        alarm.AlarmID,
			DisplayID:      alarm.DisplayID,
			Tenant:         tenant.Name,
			PreviousStatus: existing.Status,
			NewStatus:      problem.Status,
			Timestamp:      time.Now().UTC(),
		})
	}

	return nil
}

// CheckOpenAlarms reverifies every open alarm against its tenant's
// environment and closes out the ones Dynatrace has since resolved.
// Alarms belonging to disabled or removed tenants are skipped.
func (svc *alarmSvc) CheckOpenAlarms(ctx context.Context) (types.CheckResult, error) {
	logger := logging.GetLoggerFromContext(ctx)

	openAlarms, err := svc.storage.GetOpen(ctx)
	if err != nil {
		return types.CheckResult{}, err
	}

	updatedCount := 0
	errorCount := 0

	for _, alarm := range openAlarms {
		tenant, err := svc.tenants.GetByID(ctx, alarm.TenantID)
		if err != nil {
			if errors.Is(err, database.ErrTenantNotFound) {
				continue
			}
			errorCount++
			continue
		}

		if !tenant.IsActive {
			continue
		}

		client := svc.newClient(tenant.APIURL, tenant.APIToken)

		problem, _, err := client.GetProblemDetails(ctx, alarm.AlarmID)
		if err != nil {
			logger.Error().Err(err).Msgf("failed to check alarm %s", alarm.AlarmID)
			errorCount++
			continue
		}

		if problem.Status == "" || problem.Status == alarm.Status {
			continue
		}

		previousStatus := alarm.Status
		alarm.Status = problem.Status
		alarm.EndTime = timeFromMillis(problem.EndTime)

		if err := svc.storage.Save(ctx, &alarm); err != nil {
			errorCount++
			continue
		}

		logger.Info().Msgf("status updated for %s: %s -> %s", displayIDOrAlarmID(alarm), previousStatus, problem.Status)

		svc.publish(ctx, &types.AlarmStatusChanged{
			AlarmID:        alarm.AlarmID,
			DisplayID:      alarm.DisplayID,
			Tenant:         tenant.Name,
			PreviousStatus: previousStatus,
			NewStatus:      problem.Status,
			Timestamp:      time.Now().UTC(),
		})

		updatedCount++
	}

	return types.CheckResult{
		Message:      fmt.Sprintf("Check completed. Updated: %d, Errors: %d, Total checked: %d", updatedCount, errorCount, len(openAlarms)),
		UpdatedCount: updatedCount,
		ErrorCount:   errorCount,
		TotalChecked: len(openAlarms),
	}, nil
}

func (svc *alarmSvc) Query(ctx context.Context, conditions ...database.ConditionFunc) (types.Collection[database.Alarm], error) {
	return svc.storage.Query(ctx, conditions...)
}

func (svc *alarmSvc) Stats(ctx context.Context, tenantID uint) ([]types.StatBucket, error) {
	return svc.storage.Stats(ctx, tenantID)
}

func (svc *alarmSvc) UpdateStatus(ctx context.Context, tenantID uint, displayID, status string) (types.StatusUpdate, error) {
	if !lo.Contains(types.ValidAlarmStatuses, status) {
		return types.StatusUpdate{}, ErrInvalidStatus
	}

	alarm, err := svc.storage.FindByDisplayID(ctx, tenantID, displayID)
	if err != nil {
		return types.StatusUpdate{}, err
	}

	previousStatus := alarm.Status
	alarm.Status = status

	if err := svc.storage.Save(ctx, &alarm); err != nil {
		return types.StatusUpdate{}, err
	}

	svc.publish(ctx, &types.AlarmStatusChanged{
		AlarmID:        alarm.AlarmID,
		DisplayID:      alarm.DisplayID,
		Tenant:         alarm.TenantName,
		PreviousStatus: previousStatus,
		NewStatus:      status,
		Timestamp:      time.Now().UTC(),
	})

	return types.StatusUpdate{
		ID:             alarm.ID,
		DisplayID:      alarm.DisplayID,
		AlarmID:        alarm.AlarmID,
		PreviousStatus: previousStatus,
		NewStatus:      status,
	}, nil
}

func (svc *alarmSvc) DateFilters(ctx context.Context) ([]database.DateFilter, error) {
	return svc.dateFilters.GetActive(ctx)
}

func (svc *alarmSvc) ProblemDetails(ctx context.Context, tenantID uint, problemID string) (json.RawMessage, error) {
	client, err := svc.clientForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	_, details, err := client.GetProblemDetails(ctx, problemID)
	return details, err
}

func (svc *alarmSvc) AddComment(ctx context.Context, tenantID uint, problemID, message string) (json.RawMessage, error) {
	client, err := svc.clientForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return client.AddComment(ctx, problemID, dynatrace.Comment{Message: message})
}

func (svc *alarmSvc) UpdateComment(ctx context.Context, tenantID uint, problemID, commentID, message string) (json.RawMessage, error) {
	client, err := svc.clientForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return client.UpdateComment(ctx, problemID, commentID, dynatrace.Comment{Message: message})
}

func (svc *alarmSvc) GetComment(ctx context.Context, tenantID uint, problemID, commentID string) (json.RawMessage, error) {
	client, err := svc.clientForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return client.GetComment(ctx, problemID, commentID)
}

func (svc *alarmSvc) clientForTenant(ctx context.Context, tenantID uint) (dynatrace.API, error) {
	tenant, err := svc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return svc.newClient(tenant.APIURL, tenant.APIToken), nil
}

// publish is best effort, a broker outage must not fail a sync
func (svc *alarmSvc) publish(ctx context.Context, message messaging.TopicMessage) {
	if err := svc.messenger.PublishOnTopic(ctx, message); err != nil {
		logger := logging.GetLoggerFromContext(ctx)
		logger.Warn().Err(err).Msgf("failed to publish message on %s", message.TopicName())
	}
}

func affectedEntityOf(problem dynatrace.Problem) (string, string) {
	name, entityType := "", ""

	if len(problem.AffectedEntities) > 0 {
		name = problem.AffectedEntities[0].Name
		entityType = problem.AffectedEntities[0].EntityID.Type
	}

	if problem.AffectedEntity != nil {
		if name == "" {
			name = problem.AffectedEntity.Name
		}
		if entityType == "" {
			entityType = problem.AffectedEntity.EntityType
		}
	}

	if name == "" {
		name = "Unknown"
	}
	if entityType == "" {
		entityType = "UNKNOWN"
	}

	return name, entityType
}

func tagsOf(problem dynatrace.Problem) json.RawMessage {
	if len(problem.EntityTags) > 0 {
		return problem.EntityTags
	}
	return json.RawMessage("[]")
}

func timeFromMillis(millis int64) *time.Time {
	if millis <= 0 {
		return nil
	}
	t := time.UnixMilli(millis).UTC()
	return &t
}

func displayIDOrAlarmID(alarm database.Alarm) string {
	if alarm.DisplayID != "" {
		return alarm.DisplayID
	}
	return alarm.AlarmID
}

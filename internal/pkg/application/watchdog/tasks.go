package watchdog

import (
	"context"
	"time"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/alarms"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/assets"
)

const (
	DefaultAlarmSyncInterval      = 3 * time.Minute
	DefaultAssetSyncInterval      = 30 * time.Minute
	DefaultOpenAlarmCheckInterval = 5 * time.Minute
)

type Config struct {
	AlarmSyncInterval      time.Duration
	AssetSyncInterval      time.Duration
	OpenAlarmCheckInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		AlarmSyncInterval:      DefaultAlarmSyncInterval,
		AssetSyncInterval:      DefaultAssetSyncInterval,
		OpenAlarmCheckInterval: DefaultOpenAlarmCheckInterval,
	}
}

// UnmarshalYAML reads the intervals as duration strings ("3m", "90s").
// Keys left out of the config file keep whatever value the Config already
// holds, so unmarshalling over DefaultConfig fills the gaps.
func (c *Config) UnmarshalYAML(unmarshal func(any) error) error {
	var raw struct {
		AlarmSyncInterval      string `yaml:"alarmSyncInterval"`
		AssetSyncInterval      string `yaml:"assetSyncInterval"`
		OpenAlarmCheckInterval string `yaml:"openAlarmCheckInterval"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	for _, field := range []struct {
		value  string
		target *time.Duration
	}{
		{raw.AlarmSyncInterval, &c.AlarmSyncInterval},
		{raw.AssetSyncInterval, &c.AssetSyncInterval},
		{raw.OpenAlarmCheckInterval, &c.OpenAlarmCheckInterval},
	} {
		if field.value == "" {
			continue
		}

		interval, err := time.ParseDuration(field.value)
		if err != nil {
			return err
		}
		*field.target = interval
	}

	return nil
}

// Tasks assembles the three periodic jobs that keep the local store in
// step with Dynatrace. Alarm sync runs at start so a restarted service
// does not wait a full interval before showing fresh data.
func Tasks(cfg Config, alarmSvc alarms.AlarmService, assetSvc assets.AssetService) []Task {
	return []Task{
		{
			Name:       "alarm-sync",
			Interval:   cfg.AlarmSyncInterval,
			RunAtStart: true,
			Run: func(ctx context.Context) error {
				_, err := alarmSvc.Sync(ctx, "", "")
				return err
			},
		},
		{
			Name:       "asset-sync",
			Interval:   cfg.AssetSyncInterval,
			RunAtStart: true,
			Run: func(ctx context.Context) error {
				_, err := assetSvc.SyncAll(ctx)
				return err
			},
		},
		{
			Name:     "open-alarm-check",
			Interval: cfg.OpenAlarmCheckInterval,
			Run: func(ctx context.Context) error {
				_, err := alarmSvc.CheckOpenAlarms(ctx)
				return err
			},
		},
	}
}

package watchdog

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"gopkg.in/yaml.v2"
)

func TestConfigParsesDurationStrings(t *testing.T) {
	is := is.New(t)

	cfg := DefaultConfig()
	err := yaml.Unmarshal([]byte("alarmSyncInterval: 90s\nassetSyncInterval: 1h\n"), &cfg)

	is.NoErr(err)
	is.Equal(cfg.AlarmSyncInterval, 90*time.Second)
	is.Equal(cfg.AssetSyncInterval, time.Hour)
	is.Equal(cfg.OpenAlarmCheckInterval, DefaultOpenAlarmCheckInterval)
}

func TestConfigRejectsMalformedDurations(t *testing.T) {
	is := is.New(t)

	cfg := DefaultConfig()
	err := yaml.Unmarshal([]byte("alarmSyncInterval: every now and then\n"), &cfg)

	is.True(err != nil)
}

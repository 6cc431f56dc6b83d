package main

import (
	"context"
	"flag"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/alarms"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/assets"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/tenants"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/application/watchdog"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/dynatrace"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/repositories/database"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/router"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/tracing"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/presentation/api"
	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/presentation/api/auth"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

const serviceName string = "dynatrace-mgmt"

var configFilePath string

func main() {
	serviceVersion := version()

	ctx, logger := logging.NewLogger(context.Background(), serviceName, serviceVersion)
	logger.Info().Msg("starting up ...")

	flag.StringVar(&configFilePath, "config", "/opt/dynatrace-mgmt/config/config.yaml", "path to the configuration file")
	flag.Parse()

	cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion)
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	watchdogCfg := loadWatchdogConfig(logger, configFilePath)

	connect := newConnector(logger)

	tenantRepo, err := database.NewTenantRepository(connect)
	exitIf(err, logger, "failed to connect to tenant repository")

	alarmRepo, err := database.NewAlarmRepository(connect)
	exitIf(err, logger, "failed to connect to alarm repository")

	assetRepo, err := database.NewAssetRepository(connect)
	exitIf(err, logger, "failed to connect to asset repository")

	filterRepo, err := database.NewDateFilterRepository(connect)
	exitIf(err, logger, "failed to connect to date filter repository")

	err = filterRepo.Seed(ctx)
	exitIf(err, logger, "failed to seed date filters")

	config := messaging.LoadConfiguration(serviceName, logger)
	messenger, err := messaging.Initialize(config)
	exitIf(err, logger, "failed to init messaging")
	defer messenger.Close()

	alarmSvc := alarms.New(alarmRepo, tenantRepo, filterRepo, dynatrace.New, messenger)
	assetSvc := assets.New(assetRepo, tenantRepo, dynatrace.New)
	tenantSvc := tenants.New(tenantRepo, assetSvc, dynatrace.New, messenger)

	wd := watchdog.New(watchdog.Tasks(watchdogCfg, alarmSvc, assetSvc)...)
	wd.Start(ctx)
	defer wd.Stop()

	authenticator := auth.New(tokenSecret(logger))

	r := router.New(serviceName)
	api.RegisterHandlers(r, authenticator, alarmSvc, assetSvc, tenantSvc)

	apiPort := envOrDef("SERVICE_PORT", "8080")

	server := &http.Server{
		Addr:    ":" + apiPort,
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	serve(ctx, logger, server)
}

func serve(ctx context.Context, logger zerolog.Logger, server *http.Server) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)

	go func() {
		logger.Info().Msgf("listening on %s", server.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		exitIf(err, logger, "failed to start request router")
	case <-ctx.Done():
		logger.Info().Msg("shutting down ...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

// newConnector picks postgres when a database host is configured and falls
// back to an embedded sqlite database for local development.
func newConnector(logger zerolog.Logger) database.ConnectorFunc {
	if os.Getenv("DYNMGMT_SQLDB_HOST") != "" {
		return database.NewPostgreSQLConnector(logger)
	}

	logger.Info().Msg("no database host configured, using sqlite")
	return database.NewSQLiteConnector(logger)
}

func loadWatchdogConfig(logger zerolog.Logger, filePath string) watchdog.Config {
	cfg := watchdog.DefaultConfig()

	file, err := os.Open(filePath)
	if err != nil {
		logger.Info().Msgf("no configuration file found at %s, using default sync intervals", filePath)
		return cfg
	}
	defer file.Close()

	b, err := io.ReadAll(file)
	exitIf(err, logger, "failed to read configuration file")

	fileCfg := struct {
		Watchdog watchdog.Config `yaml:"watchdog"`
	}{Watchdog: cfg}

	err = yaml.Unmarshal(b, &fileCfg)
	exitIf(err, logger, "failed to parse configuration file")

	return fileCfg.Watchdog
}

func tokenSecret(logger zerolog.Logger) []byte {
	secret := os.Getenv("DYNMGMT_TOKEN_SECRET")
	if secret == "" {
		logger.Fatal().Msg("DYNMGMT_TOKEN_SECRET is not set")
	}
	return []byte(secret)
}

func envOrDef(name, def string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return def
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Fatal().Err(err).Msg(msg)
	}
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	for _, setting := range buildInfo.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}

	return "unknown"
}

package database

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ConnectorFunc func() (*gorm.DB, zerolog.Logger, error)

const maxConnectionAttempts = 5

var connectionRetryDelay = 3 * time.Second

func NewSQLiteConnector(log zerolog.Logger) ConnectorFunc {
	dbPath := os.Getenv("DYNMGMT_SQLITE_DB_PATH")
	if dbPath == "" {
		dbPath = "file::memory:?cache=shared"
	}

	return func() (*gorm.DB, zerolog.Logger, error) {
		db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger:          logger.Default.LogMode(logger.Silent),
			CreateBatchSize: 1000,
		})

		if err == nil {
			db.Exec("PRAGMA foreign_keys = ON")
			sqldb, _ := db.DB()
			sqldb.SetMaxOpenConns(1)
		}

		return db, log, err
	}
}

func NewPostgreSQLConnector(log zerolog.Logger) ConnectorFunc {
	dbHost := os.Getenv("DYNMGMT_SQLDB_HOST")
	username := os.Getenv("DYNMGMT_SQLDB_USER")
	dbName := os.Getenv("DYNMGMT_SQLDB_NAME")
	password := os.Getenv("DYNMGMT_SQLDB_PASSWORD")
	sslMode := os.Getenv("DYNMGMT_SQLDB_SSLMODE")
	if sslMode == "" {
		sslMode = "require"
	}

	dbURI := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=%s password=%s", dbHost, username, dbName, sslMode, password)

	return func() (*gorm.DB, zerolog.Logger, error) {
		sublogger := log.With().Str("host", dbHost).Str("database", dbName).Logger()

		for attempt := 1; ; attempt++ {
			sublogger.Info().Msg("connecting to database host")

			db, err := gorm.Open(postgres.Open(dbURI), &gorm.Config{
				Logger: logger.New(
					&sublogger,
					logger.Config{
						SlowThreshold:             time.Second,
						LogLevel:                  logger.Info,
						IgnoreRecordNotFoundError: false,
						Colorful:                  false,
					},
				),
			})
			if err == nil {
				return db, sublogger, nil
			}

			if attempt == maxConnectionAttempts {
				return nil, sublogger, err
			}

			sublogger.Error().Err(err).Msg("failed to connect to database")
			time.Sleep(connectionRetryDelay)
		}
	}
}

package database

import (
	"strings"

	"github.com/pathakanu/myNotes/internal/model"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New creates a GORM database connection.
// When databaseURL is provided PostgreSQL is used, otherwise SQLite is used at sqlitePath.
func New(databaseURL, sqlitePath string, log zerolog.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open(sqlitePath+"?_fk=1"), gormConfig)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logBackend(db, sqlitePath, log)
	return db, nil
}

// Migrate creates or updates the tables used by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Note{}, &model.Reminder{}, &model.Preference{})
}

func logBackend(db *gorm.DB, sqlitePath string, log zerolog.Logger) {
	dialector := db.Dialector.Name()
	switch strings.ToLower(dialector) {
	case "postgres":
		log.Info().Msg("database: connected to PostgreSQL")
	case "sqlite":
		log.Info().Str("path", sqlitePath).Msg("database: using SQLite")
	default:
		log.Info().Str("dialector", dialector).Msg("database: connected")
	}
}

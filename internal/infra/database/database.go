package database

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/totegamma/syscoin-offchain/internal/infra/database/models"
)

const sqlitePrefix = "sqlite://"

// Open connects to the database named by dsn. A "sqlite://" prefix selects the
// embedded SQLite driver, anything else is handed to Postgres.
func Open(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             300 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,                   // Enable color
		},
	)

	config := &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	}

	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		return gorm.Open(sqlite.Open(path), config)
	}
	return gorm.Open(postgres.Open(dsn), config)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AliasData{},
		&models.OfferReport{},
	)
}

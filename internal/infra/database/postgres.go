package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/totegamma/discography/internal/infra/database/models"
)

// slogWriter routes gorm's log lines to slog.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	slog.Warn(
		fmt.Sprintf(format, args...),
		slog.String("module", "database"),
	)
}

func NewPostgres(dsn string) (*gorm.DB, error) {
	return Open(postgres.Open(dsn))
}

// Open connects gorm through dialector. Tests hand in a dialector wrapping
// a mocked connection.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gormLogger := logger.New(
		slogWriter{},
		logger.Config{
			SlowThreshold:             300 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
}

// MigratePostgres creates the catalog tables. Parents come first so the
// foreign keys resolve.
func MigratePostgres(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Band{},
		&models.Album{},
		&models.Musician{},
		&models.Song{},
	)
}

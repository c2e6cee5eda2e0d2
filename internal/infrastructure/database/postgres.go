package database

import (
	"fmt"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-notetaker/migrations"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

// NewPostgresDB opens the recordings database. GORM logs go to log, errors
// only in production.
func NewPostgresDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	level := logger.Warn
	if cfg.IsProduction() {
		level = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: NewGormLogger(log, level, cfg.Database.SlowThreshold),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("✅ Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	return db, nil
}

// MigrationSource returns the SQL migrations embedded in the binary
func MigrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       ".",
	}
}

// Migrate applies up to max migrations in the given direction (0 means all)
func Migrate(db *gorm.DB, direction migrate.MigrationDirection, max int) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate: %w", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", MigrationSource(), direction, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migration: %w", err)
	}
	return n, nil
}

// AutoMigrate runs all pending up migrations
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	n, err := Migrate(db, migrate.Up, 0)
	if err != nil {
		return err
	}
	if log != nil {
		log.Info("✅ Migrations applied", zap.Int("count", n))
	}
	return nil
}

// MigrationStatus lists applied migration ids with their timestamps
func MigrationStatus(db *gorm.DB) ([]*migrate.MigrationRecord, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get db connection: %w", err)
	}
	return migrate.GetMigrationRecords(sqlDB, "postgres")
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

package persistence

import (
	"fmt"
	"time"

	"github.com/lumio/backend/internal/infrastructure/config"
	"github.com/lumio/backend/internal/infrastructure/logger"
	"github.com/lumio/backend/internal/infrastructure/persistence/models"
	"github.com/lumio/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB     *gorm.DB
	driver string
}

// Options tunes how NewDatabase opens the connection
type Options struct {
	Logger   *zap.Logger
	LogLevel gormlogger.LogLevel
	// Tracing installs otelgorm spans on every statement
	Tracing bool
}

// NewDatabase opens postgres or sqlite according to cfg.Driver and applies
// the pool settings
func NewDatabase(cfg *config.DatabaseConfig, opts Options) (*Database, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = gormlogger.Warn
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(opts.Logger, opts.LogLevel, slowQueryThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver == "postgres",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Tracing {
		if err := telemetry.RegisterGormTracing(db, cfg.Driver, opts.Logger); err != nil {
			return nil, fmt.Errorf("failed to register database tracing: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db, driver: cfg.Driver}, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		// foreign keys are off by default in sqlite
		return sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrate creates the schema from the models. Only used with sqlite;
// postgres schemas are managed by the SQL migrations.
func (d *Database) AutoMigrate() error {
	if d.driver != "sqlite" {
		return fmt.Errorf("auto migration is only supported for sqlite, use the migrate command for %s", d.driver)
	}
	return d.DB.AutoMigrate(models.All()...)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Stats returns database connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
}

package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mailsift/internal/domain"
	"mailsift/internal/support"

	"github.com/charmbracelet/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB *gorm.DB
)

type Config struct {
	ExistingDB  *gorm.DB
	Dialector   gorm.Dialector
	Logger      logger.Interface
	AutoMigrate bool
	Migrations  []any
}

type Option func(*Config)

// SetupDB opens the export database and migrates the threat entry table.
func SetupDB(opts ...Option) (*gorm.DB, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.ExistingDB != nil:
		DB = cfg.ExistingDB
	case cfg.Dialector != nil:
		gormCfg := &gorm.Config{}
		if cfg.Logger != nil {
			gormCfg.Logger = cfg.Logger
		}
		db, err := gorm.Open(cfg.Dialector, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("database: open connection: %w", err)
		}
		DB = db
		configureConnectionPool(db)
	default:
		return nil, fmt.Errorf("database: no dialector or existing connection provided")
	}

	if cfg.AutoMigrate && len(cfg.Migrations) > 0 {
		if err := DB.AutoMigrate(cfg.Migrations...); err != nil {
			return nil, fmt.Errorf("database: auto migrate: %w", err)
		}
		log.Debug("Database migration completed.")
	}

	return DB, nil
}

// Close releases the global connection.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	DB = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func defaultConfig() Config {
	return Config{
		Logger:      silentLogger(),
		AutoMigrate: true,
		Migrations:  defaultMigrations(),
	}
}

// DialectorForDSN picks postgres for URL or keyword DSNs and sqlite for
// anything else, which is treated as a database file path.
func DialectorForDSN(dsn string) (gorm.Dialector, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("database: empty dsn")
	}

	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") || strings.Contains(lower, "host=") {
		return postgres.Open(dsn), nil
	}
	if !strings.HasPrefix(lower, "file:") {
		if err := support.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("database: create sqlite directory: %w", err)
		}
	}
	return sqlite.Open(dsn), nil
}

func silentLogger() logger.Interface {
	return logger.New(
		log.Default(),
		logger.Config{LogLevel: logger.Silent},
	)
}

func defaultMigrations() []any {
	return []any{
		domain.ThreatEntry{},
	}
}

func WithExistingDB(db *gorm.DB) Option {
	return func(cfg *Config) {
		cfg.ExistingDB = db
	}
}

func WithDialector(d gorm.Dialector) Option {
	return func(cfg *Config) {
		cfg.Dialector = d
	}
}

func WithAutoMigrate(enabled bool) Option {
	return func(cfg *Config) {
		cfg.AutoMigrate = enabled
	}
}

func configureConnectionPool(db *gorm.DB) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("database: get sql.DB", "error", err)
		return
	}

	maxOpen := support.GetEnvInt("DB_MAX_OPEN_CONNS", 4)
	maxIdle := support.GetEnvInt("DB_MAX_IDLE_CONNS", maxOpen)
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	connLifetimeSeconds := support.GetEnvInt("DB_CONN_MAX_LIFETIME", 300)

	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if connLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(connLifetimeSeconds) * time.Second)
	}
}

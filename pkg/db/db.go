package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

// New opens the database described by DATABASE_* configuration and applies
// pool settings.
func New(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(logger.DefaultGormLoggerConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Second)

	log.Info("database connected",
		zap.String("type", cfg.DBType),
		zap.String("host", cfg.DBHost),
		zap.String("name", cfg.DBName),
	)

	return gormDB, nil
}

// Dialect maps DATABASE_TYPE to a gorm dialector. The sqlite driver is the
// pure-Go one so local runs need no cgo.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)), nil
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

package migration

import (
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	"github.com/smallbiznis/storefront/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite and mysql builds go through AutoMigrate; the
			// versioned SQL targets postgres only.
			return conn.AutoMigrate(
				&modedomain.ModeRecord{},
				&auditdomain.AuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)

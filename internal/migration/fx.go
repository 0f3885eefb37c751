package migration

import (
	authdomain "github.com/lernora/lernora/internal/auth/domain"
	balancedomain "github.com/lernora/lernora/internal/balance/domain"
	"github.com/lernora/lernora/internal/config"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
	enrollmentdomain "github.com/lernora/lernora/internal/enrollment/domain"
	groupdomain "github.com/lernora/lernora/internal/group/domain"
	"github.com/lernora/lernora/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs run from the model definitions.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&balancedomain.Balance{},
				&coursedomain.Course{},
				&coursedomain.Lesson{},
				&groupdomain.Group{},
				&enrollmentdomain.Subscription{},
			); err != nil {
				return err
			}
		}

		if cfg.BootstrapStaff {
			if err := seed.EnsureStaffUser(conn, cfg.StaffEmail, cfg.StaffPassword, cfg.SignupBonus); err != nil {
				return err
			}
		}
		if cfg.BootstrapDemo {
			return seed.EnsureDemoCatalog(conn)
		}
		return nil
	}),
)

package migration

import (
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/config"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	plandomain "github.com/smallbiznis/renova/internal/plan/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Each partition app applies only its own schema, so a partition's database
// never carries another partition's tables. Versioned SQL migrations are
// postgres-only; the other dialects are for development and tests and get
// the schema from AutoMigrate.

var directorySet = Set{
	Area:   "directory",
	Models: []any{&customerdomain.Customer{}, &plandomain.Plan{}},
}

var billingSet = Set{
	Area:   "billing",
	Models: []any{&cycledomain.BillingCycle{}},
}

var ledgerSet = Set{
	Area:   "ledger",
	Models: []any{&ledgerdomain.Invoice{}},
}

func run(conn *gorm.DB, cfg config.Config, set Set) error {
	if cfg.DBType != "postgres" {
		return conn.AutoMigrate(set.Models...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB, set)
}

func moduleFor(name string, set Set) fx.Option {
	return fx.Module("migration."+name,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			return run(conn, cfg, set)
		}),
	)
}

var (
	DirectoryModule = moduleFor("directory", directorySet)
	BillingModule   = moduleFor("billing", billingSet)
	LedgerModule    = moduleFor("ledger", ledgerSet)
)

// Module applies every partition's schema to one database. Only the
// all-in-one binary uses it.
var Module = fx.Module("migration",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		for _, set := range []Set{directorySet, billingSet, ledgerSet} {
			if err := run(conn, cfg, set); err != nil {
				return err
			}
		}
		return nil
	}),
)

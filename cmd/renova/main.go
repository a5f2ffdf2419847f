// renova runs every partition in one process against one database. The
// services still only talk through their interfaces, so splitting them
// back out into the apps/ binaries is a wiring change, not a rewrite.
package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/billingcycle"
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/config"
	"github.com/smallbiznis/renova/internal/customer"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	"github.com/smallbiznis/renova/internal/ledger"
	"github.com/smallbiznis/renova/internal/logger"
	"github.com/smallbiznis/renova/internal/migration"
	"github.com/smallbiznis/renova/internal/notify"
	"github.com/smallbiznis/renova/internal/payment"
	"github.com/smallbiznis/renova/internal/plan"
	"github.com/smallbiznis/renova/internal/providers/email"
	"github.com/smallbiznis/renova/internal/scheduler"
	"github.com/smallbiznis/renova/internal/server"
	"github.com/smallbiznis/renova/internal/subscription"
	"github.com/smallbiznis/renova/internal/sweeplock"
	"github.com/smallbiznis/renova/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		sweeplock.Module,

		customer.Module,
		plan.Module,
		billingcycle.Module,
		ledger.Module,
		email.Module,
		notify.Module,
		payment.Module,
		subscription.Module,

		fx.Provide(func(svc customerdomain.Service) notify.RecipientDirectory {
			return svc
		}),

		migration.Module,
		scheduler.Module,
		server.Module,

		fx.Invoke(func(s *server.Server) {
			s.RegisterAllRoutes()
		}),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

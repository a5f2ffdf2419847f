// The billing app hosts the billing-cycle partition. It checks customer
// existence against the remote directory; everything else it owns.
package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/billingcycle"
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/config"
	customerclient "github.com/smallbiznis/renova/internal/customer/client"
	"github.com/smallbiznis/renova/internal/logger"
	"github.com/smallbiznis/renova/internal/migration"
	"github.com/smallbiznis/renova/internal/server"
	"github.com/smallbiznis/renova/pkg/db"
	"github.com/smallbiznis/renova/pkg/httprpc"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		billingcycle.Module,
		migration.BillingModule,
		server.Module,

		fx.Provide(func(cfg config.Config) server.CustomerDirectory {
			return customerclient.New(httprpc.NewClient(cfg.DirectoryURL, cfg.RPCTimeout))
		}),

		fx.Invoke(func(s *server.Server) {
			s.RegisterCycleRoutes()
		}),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}

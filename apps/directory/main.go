// The directory app hosts the customer directory, the plan catalog, and
// subscription orchestration. The billing core references customers and
// plans through this app's API and never reads its storage; subscription
// changes fan out to the billing and ledger partitions over their APIs.
package main

import (
	"github.com/bwmarrin/snowflake"
	billingclient "github.com/smallbiznis/renova/internal/billingcycle/client"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/config"
	"github.com/smallbiznis/renova/internal/customer"
	ledgerclient "github.com/smallbiznis/renova/internal/ledger/client"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/internal/logger"
	"github.com/smallbiznis/renova/internal/migration"
	"github.com/smallbiznis/renova/internal/plan"
	"github.com/smallbiznis/renova/internal/server"
	"github.com/smallbiznis/renova/internal/subscription"
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

		customer.Module,
		plan.Module,
		migration.DirectoryModule,

		fx.Provide(func(cfg config.Config) cycledomain.Service {
			return billingclient.New(httprpc.NewClient(cfg.BillingCycleURL, cfg.RPCTimeout))
		}),
		fx.Provide(func(cfg config.Config) ledgerdomain.Service {
			return ledgerclient.New(httprpc.NewClient(cfg.LedgerURL, cfg.RPCTimeout))
		}),
		subscription.Module,

		server.Module,

		fx.Invoke(func(s *server.Server) {
			s.RegisterCustomerRoutes()
			s.RegisterPlanRoutes()
			s.RegisterSubscriptionRoutes()
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

// The scheduler app runs the maintenance sweeps against the other
// partitions' APIs. With redis configured, a fleet of these elects one
// sweeper per interval through the sweep lock.
package main

import (
	billingclient "github.com/smallbiznis/renova/internal/billingcycle/client"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/config"
	customerclient "github.com/smallbiznis/renova/internal/customer/client"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerclient "github.com/smallbiznis/renova/internal/ledger/client"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/internal/logger"
	paymentclient "github.com/smallbiznis/renova/internal/payment/client"
	paymentdomain "github.com/smallbiznis/renova/internal/payment/domain"
	planclient "github.com/smallbiznis/renova/internal/plan/client"
	plandomain "github.com/smallbiznis/renova/internal/plan/domain"
	"github.com/smallbiznis/renova/internal/scheduler"
	"github.com/smallbiznis/renova/internal/sweeplock"
	"github.com/smallbiznis/renova/pkg/httprpc"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		sweeplock.Module,

		fx.Provide(func(cfg config.Config) customerdomain.Service {
			return customerclient.New(httprpc.NewClient(cfg.DirectoryURL, cfg.RPCTimeout))
		}),
		fx.Provide(func(cfg config.Config) plandomain.Service {
			return planclient.New(httprpc.NewClient(cfg.CatalogURL, cfg.RPCTimeout))
		}),
		fx.Provide(func(cfg config.Config) cycledomain.Service {
			return billingclient.New(httprpc.NewClient(cfg.BillingCycleURL, cfg.RPCTimeout))
		}),
		fx.Provide(func(cfg config.Config) ledgerdomain.Service {
			return ledgerclient.New(httprpc.NewClient(cfg.LedgerURL, cfg.RPCTimeout))
		}),
		fx.Provide(func(cfg config.Config) paymentdomain.Service {
			return paymentclient.New(httprpc.NewClient(cfg.PaymentURL, cfg.RPCTimeout))
		}),

		scheduler.Module,
	)
	app.Run()
}

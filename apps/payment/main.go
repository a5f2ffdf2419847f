// The payment app hosts the payment processor. It owns no storage; every
// invoice read and write goes to the remote ledger partition, and payment
// outcome emails resolve recipients through the remote directory.
package main

import (
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/config"
	customerclient "github.com/smallbiznis/renova/internal/customer/client"
	ledgerclient "github.com/smallbiznis/renova/internal/ledger/client"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/internal/logger"
	"github.com/smallbiznis/renova/internal/notify"
	"github.com/smallbiznis/renova/internal/payment"
	"github.com/smallbiznis/renova/internal/providers/email"
	"github.com/smallbiznis/renova/internal/server"
	"github.com/smallbiznis/renova/pkg/httprpc"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,

		fx.Provide(func(cfg config.Config) ledgerdomain.Service {
			return ledgerclient.New(httprpc.NewClient(cfg.LedgerURL, cfg.RPCTimeout))
		}),
		fx.Provide(func(cfg config.Config) notify.RecipientDirectory {
			return customerclient.New(httprpc.NewClient(cfg.DirectoryURL, cfg.RPCTimeout))
		}),

		email.Module,
		notify.Module,
		payment.Module,
		server.Module,

		fx.Invoke(func(s *server.Server) {
			s.RegisterPaymentRoutes()
		}),
	)
	app.Run()
}

// The ledger app hosts the invoice-ledger partition.
package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/config"
	"github.com/smallbiznis/renova/internal/ledger"
	"github.com/smallbiznis/renova/internal/logger"
	"github.com/smallbiznis/renova/internal/migration"
	"github.com/smallbiznis/renova/internal/server"
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

		ledger.Module,
		migration.LedgerModule,
		server.Module,

		fx.Invoke(func(s *server.Server) {
			s.RegisterInvoiceRoutes()
		}),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(3)
	if err != nil {
		panic(err)
	}
	return node
}

// Package server exposes each partition's service over HTTP. Every app
// builds the same Server; routes are registered only for the services the
// app actually hosts, so a partition binary serves exactly its own slice.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/config"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	paymentdomain "github.com/smallbiznis/renova/internal/payment/domain"
	plandomain "github.com/smallbiznis/renova/internal/plan/domain"
	subscriptiondomain "github.com/smallbiznis/renova/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// CustomerDirectory is the slice of the directory the billing-cycle
// handler needs for its existence check. It may be backed by the hosted
// customer service or by a remote partition client.
type CustomerDirectory interface {
	GetByID(ctx context.Context, id snowflake.ID) (customerdomain.Customer, error)
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config

	customerSvc     customerdomain.Service
	planSvc         plandomain.Service
	cycleSvc        cycledomain.Service
	ledgerSvc       ledgerdomain.Service
	paymentSvc      paymentdomain.Service
	subscriptionSvc subscriptiondomain.Service
	directory       CustomerDirectory
}

type ServerParams struct {
	fx.In

	Gin *gin.Engine
	Cfg config.Config

	CustomerSvc     customerdomain.Service     `optional:"true"`
	PlanSvc         plandomain.Service         `optional:"true"`
	CycleSvc        cycledomain.Service        `optional:"true"`
	LedgerSvc       ledgerdomain.Service       `optional:"true"`
	PaymentSvc      paymentdomain.Service      `optional:"true"`
	SubscriptionSvc subscriptiondomain.Service `optional:"true"`
	Directory       CustomerDirectory          `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		customerSvc:     p.CustomerSvc,
		planSvc:         p.PlanSvc,
		cycleSvc:        p.CycleSvc,
		ledgerSvc:       p.LedgerSvc,
		paymentSvc:      p.PaymentSvc,
		subscriptionSvc: p.SubscriptionSvc,
		directory:       p.Directory,
	}
	if svc.directory == nil && p.CustomerSvc != nil {
		svc.directory = p.CustomerSvc
	}
	return svc
}

// RegisterAllRoutes mounts every hosted service. Partition binaries call
// the individual Register methods for the slice they own instead.
func (s *Server) RegisterAllRoutes() {
	s.RegisterCustomerRoutes()
	s.RegisterPlanRoutes()
	s.RegisterCycleRoutes()
	s.RegisterInvoiceRoutes()
	s.RegisterPaymentRoutes()
	s.RegisterSubscriptionRoutes()
}

func Run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(Run),
)

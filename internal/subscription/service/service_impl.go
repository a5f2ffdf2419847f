package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/clock"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	plandomain "github.com/smallbiznis/renova/internal/plan/domain"
	"github.com/smallbiznis/renova/internal/proration"
	"github.com/smallbiznis/renova/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Directory customerdomain.Service
	Catalog   plandomain.Service
	Billing   cycledomain.Service
	Ledger    ledgerdomain.Service
	Clock     clock.Clock
}

// Service coordinates the directory, catalog, billing-cycle partition and
// invoice ledger. Each collaborator call can fail independently; nothing
// here spans partitions transactionally.
type Service struct {
	log       *zap.Logger
	directory customerdomain.Service
	catalog   plandomain.Service
	billing   cycledomain.Service
	ledger    ledgerdomain.Service
	clock     clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("subscription.service"),
		directory: p.Directory,
		catalog:   p.Catalog,
		billing:   p.Billing,
		ledger:    p.Ledger,
		clock:     p.Clock,
	}
}

func (s *Service) Assign(ctx context.Context, req domain.AssignRequest) (customerdomain.Customer, error) {
	if req.CustomerID == 0 {
		return customerdomain.Customer{}, domain.ErrInvalidCustomer
	}
	if req.PlanID == 0 {
		return customerdomain.Customer{}, domain.ErrInvalidPlan
	}

	plan, err := s.catalog.GetByID(ctx, req.PlanID)
	if err != nil {
		return customerdomain.Customer{}, err
	}
	if plan.Status != plandomain.PlanStatusActive {
		return customerdomain.Customer{}, domain.ErrPlanInactive
	}

	customer, err := s.directory.UpdateSubscription(ctx, req.CustomerID, customerdomain.UpdateSubscriptionRequest{
		PlanID: req.PlanID,
		Status: customerdomain.SubscriptionStatusActive,
	})
	if err != nil {
		return customerdomain.Customer{}, err
	}

	now := s.clock.Now()
	_, err = s.billing.Create(ctx, cycledomain.CreateCycleRequest{
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		StartDate:  now,
		EndDate:    cycleEnd(now, plan.BillingCycle),
		CycleType:  plan.BillingCycle,
	})
	if err != nil {
		// The directory update stands; the customer has no open cycle
		// until the caller retries. Surfaced, never swallowed.
		return customerdomain.Customer{}, err
	}

	s.log.Info("subscription assigned",
		zap.String("customer_id", req.CustomerID.String()),
		zap.String("plan_id", req.PlanID.String()),
	)
	return customer, nil
}

func (s *Service) ChangePlan(ctx context.Context, req domain.ChangePlanRequest) (ledgerdomain.Invoice, error) {
	if req.CustomerID == 0 {
		return ledgerdomain.Invoice{}, domain.ErrInvalidCustomer
	}
	if req.OldPlanID == 0 || req.NewPlanID == 0 {
		return ledgerdomain.Invoice{}, domain.ErrInvalidPlan
	}

	oldPlan, err := s.catalog.GetByID(ctx, req.OldPlanID)
	if err != nil {
		return ledgerdomain.Invoice{}, err
	}
	newPlan, err := s.catalog.GetByID(ctx, req.NewPlanID)
	if err != nil {
		return ledgerdomain.Invoice{}, err
	}

	now := s.clock.Now()
	split, err := proration.Compute(oldPlan.Price, newPlan.Price, req.CycleStart, req.CycleEnd, now)
	if err != nil {
		return ledgerdomain.Invoice{}, err
	}

	invoice, err := s.ledger.Create(ctx, ledgerdomain.Invoice{
		CustomerID: req.CustomerID,
		PlanID:     req.NewPlanID,
		AmountDue:  split.TotalAmountDue,
		DueDate:    now,
		Status:     ledgerdomain.InvoiceStatusPending,
	})
	if err != nil {
		return ledgerdomain.Invoice{}, err
	}

	if _, err := s.directory.UpdateSubscription(ctx, req.CustomerID, customerdomain.UpdateSubscriptionRequest{
		PlanID: req.NewPlanID,
		Status: customerdomain.SubscriptionStatusActive,
	}); err != nil {
		return ledgerdomain.Invoice{}, err
	}

	s.log.Info("plan change prorated",
		zap.String("customer_id", req.CustomerID.String()),
		zap.Float64("prorated_old", split.ProratedOldAmount),
		zap.Float64("prorated_new", split.ProratedNewAmount),
		zap.Float64("total_due", split.TotalAmountDue),
	)
	return invoice, nil
}

func (s *Service) GetSubscription(ctx context.Context, customerID snowflake.ID) (customerdomain.Customer, error) {
	if customerID == 0 {
		return customerdomain.Customer{}, domain.ErrInvalidCustomer
	}
	return s.directory.GetByID(ctx, customerID)
}

func cycleEnd(start time.Time, cycleType cycledomain.CycleType) time.Time {
	if cycleType == cycledomain.CycleTypeYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

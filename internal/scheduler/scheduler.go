// Package scheduler runs the periodic maintenance sweeps: invoice
// generation for cycles that have reached their end date, and retry of
// failed payments. The sweeps only talk to the partitions through their
// service interfaces, the same contracts the HTTP handlers use.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/config"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	obsmetrics "github.com/smallbiznis/renova/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/renova/internal/payment/domain"
	plandomain "github.com/smallbiznis/renova/internal/plan/domain"
	"github.com/smallbiznis/renova/internal/sweeplock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sweepLockKey = "renova:scheduler:sweep"

var ErrInvalidConfig = errors.New("scheduler dependencies are incomplete")

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Sweep     *config.SweepConfigHolder
	Directory customerdomain.Service
	Catalog   plandomain.Service
	Billing   cycledomain.Service
	Ledger    ledgerdomain.Service
	Payments  paymentdomain.Service
	Locker    *sweeplock.Locker `optional:"true"`
}

type Scheduler struct {
	log       *zap.Logger
	clock     clock.Clock
	sweep     *config.SweepConfigHolder
	directory customerdomain.Service
	catalog   plandomain.Service
	billing   cycledomain.Service
	ledger    ledgerdomain.Service
	payments  paymentdomain.Service
	locker    *sweeplock.Locker

	// jitterDays picks the random offset added to an invoice due date.
	// Swapped out in tests for determinism.
	jitterDays func(maxDays int) int
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Sweep == nil ||
		p.Directory == nil || p.Catalog == nil || p.Billing == nil ||
		p.Ledger == nil || p.Payments == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:       p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		clock:     p.Clock,
		sweep:     p.Sweep,
		directory: p.Directory,
		catalog:   p.Catalog,
		billing:   p.Billing,
		ledger:    p.Ledger,
		payments:  p.Payments,
		locker:    p.Locker,
		jitterDays: func(maxDays int) int {
			if maxDays <= 1 {
				return 1
			}
			return 1 + rand.Intn(maxDays)
		},
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) (int, error),
) (int, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	processed, err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return processed, nil
	}

	schedMetrics.IncJobError(name)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		// Deadline is a soft limit; the next sweep picks up the rest.
		schedMetrics.IncJobTimeout(name)
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return processed, nil
	}

	return processed, fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes one full sweep: generate invoices for ending cycles,
// then retry failed payments. With a Locker configured, only one instance
// in the fleet performs the sweep per interval.
func (s *Scheduler) RunOnce(parent context.Context) error {
	cfg := s.sweep.Get()

	token, acquired, err := s.locker.TryLock(parent, sweepLockKey, cfg.LockTTL)
	if err != nil {
		return fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !acquired {
		s.log.Debug("sweep lock held elsewhere, skipping run")
		return nil
	}
	defer func() {
		if err := s.locker.Release(parent, sweepLockKey, token); err != nil {
			s.log.Warn("release sweep lock", zap.Error(err))
		}
	}()

	var runErr error

	generated, err := s.runJob(parent, "generate_invoices", cfg.JobTimeout, s.GenerateInvoicesJob)
	runErr = errors.Join(runErr, err)
	obsmetrics.Scheduler().AddInvoicesGenerated(generated)

	retried, err := s.runJob(parent, "retry_payments", cfg.JobTimeout, s.RetryPaymentsJob)
	runErr = errors.Join(runErr, err)
	obsmetrics.Scheduler().AddPaymentsRetried(retried)

	if generated > 0 || retried > 0 {
		s.log.Info("sweep completed",
			zap.Int("invoices_generated", generated),
			zap.Int("payments_retried", retried),
		)
	}
	return runErr
}

// RunForever re-reads the hot-reloadable interval each round so tuning
// sweep.yml takes effect without a restart.
func (s *Scheduler) RunForever(ctx context.Context) {
	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		timer := time.NewTimer(s.sweep.Get().Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// GenerateInvoicesJob creates a pending invoice for every active customer
// whose current billing cycle has reached its end date. Generation is
// idempotent per cycle: a cycle that already has an invoice is skipped.
func (s *Scheduler) GenerateInvoicesJob(ctx context.Context) (int, error) {
	now := s.clock.Now()

	customers, err := s.directory.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list customers: %w", err)
	}

	var jobErr error
	generated := 0
	for _, customer := range customers {
		if ctx.Err() != nil {
			return generated, errors.Join(jobErr, ctx.Err())
		}
		if customer.SubscriptionStatus != customerdomain.SubscriptionStatusActive {
			continue
		}

		created, err := s.generateForCustomer(ctx, customer, now)
		if err != nil {
			jobErr = errors.Join(jobErr, fmt.Errorf("customer %s: %w", customer.ID, err))
			continue
		}
		if created {
			generated++
		}
	}
	return generated, jobErr
}

func (s *Scheduler) generateForCustomer(ctx context.Context, customer customerdomain.Customer, now time.Time) (bool, error) {
	cycles, err := s.billing.ListByCustomer(ctx, customer.ID)
	if err != nil {
		if errors.Is(err, cycledomain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("list cycles: %w", err)
	}

	cycle, ok := cycledomain.CurrentCycle(cycles, now)
	if !ok || !cycle.IsEnding(now) {
		return false, nil
	}

	invoiced, err := s.cycleInvoiced(ctx, customer.ID, cycle.ID)
	if err != nil {
		return false, err
	}
	if invoiced {
		return false, nil
	}

	plan, err := s.catalog.GetByID(ctx, cycle.PlanID)
	if err != nil {
		return false, fmt.Errorf("plan %s: %w", cycle.PlanID, err)
	}

	cfg := s.sweep.Get()
	dueDate := now.AddDate(0, 0, s.jitterDays(cfg.DueDateJitterMaxDays))

	_, err = s.ledger.Create(ctx, ledgerdomain.Invoice{
		CustomerID: customer.ID,
		PlanID:     plan.ID,
		CycleID:    cycle.ID,
		AmountDue:  plan.Price,
		DueDate:    dueDate,
		Status:     ledgerdomain.InvoiceStatusPending,
	})
	if err != nil {
		// Another sweep got there between the check and the insert.
		if errors.Is(err, ledgerdomain.ErrCycleAlreadyInvoiced) {
			return false, nil
		}
		return false, fmt.Errorf("create invoice: %w", err)
	}

	s.log.Info("invoice generated",
		zap.String("customer_id", customer.ID.String()),
		zap.String("cycle_id", cycle.ID.String()),
		zap.Float64("amount_due", plan.Price),
		zap.Time("due_date", dueDate),
	)
	return true, nil
}

func (s *Scheduler) cycleInvoiced(ctx context.Context, customerID, cycleID snowflake.ID) (bool, error) {
	invoices, err := s.ledger.List(ctx, ledgerdomain.ListInvoiceRequest{CustomerID: customerID})
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("list invoices: %w", err)
	}
	for _, invoice := range invoices {
		if invoice.CycleID == cycleID {
			return true, nil
		}
	}
	return false, nil
}

// RetryPaymentsJob re-attempts settlement of every failed invoice.
func (s *Scheduler) RetryPaymentsJob(ctx context.Context) (int, error) {
	retried, err := s.payments.RetryFailedPayments(ctx)
	if err != nil {
		return 0, fmt.Errorf("retry failed payments: %w", err)
	}
	return len(retried), nil
}

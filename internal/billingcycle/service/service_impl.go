package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

// Service owns billing-cycle records. All writes for one customer happen
// inside one transaction, which is the partition's serialization point.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billingcycle.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCycleRequest) (domain.BillingCycle, error) {
	if req.CustomerID == 0 {
		return domain.BillingCycle{}, domain.ErrInvalidCustomer
	}
	if req.PlanID == 0 {
		return domain.BillingCycle{}, domain.ErrInvalidPlan
	}
	if !req.EndDate.After(req.StartDate) {
		return domain.BillingCycle{}, domain.ErrInvalidCyclePeriod
	}
	switch req.CycleType {
	case domain.CycleTypeMonthly, domain.CycleTypeYearly:
	default:
		return domain.BillingCycle{}, domain.ErrInvalidCycleType
	}

	now := s.clock.Now()
	cycle := domain.BillingCycle{
		ID:         s.genID.Generate(),
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
		CycleType:  req.CycleType,
		Status:     domain.CycleStatusActive,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The new cycle supersedes whatever was active for this customer.
		if err := tx.Model(&domain.BillingCycle{}).
			Where("customer_id = ? AND status = ?", req.CustomerID, domain.CycleStatusActive).
			Updates(map[string]any{
				"status":     domain.CycleStatusCompleted,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Create(&cycle).Error
	})
	if err != nil {
		return domain.BillingCycle{}, err
	}

	s.log.Info("billing cycle created",
		zap.String("cycle_id", cycle.ID.String()),
		zap.String("customer_id", cycle.CustomerID.String()),
		zap.Time("end_date", cycle.EndDate),
	)
	return cycle, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID snowflake.ID) ([]domain.BillingCycle, error) {
	if customerID == 0 {
		return nil, domain.ErrInvalidCustomer
	}

	var cycles []domain.BillingCycle
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("start_date ASC").
		Find(&cycles).Error
	if err != nil {
		return nil, err
	}
	if len(cycles) == 0 {
		return nil, domain.ErrNotFound
	}
	return cycles, nil
}

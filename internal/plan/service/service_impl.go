package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.Plan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Plan{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Plan{}, domain.ErrInvalidPrice
	}
	switch req.BillingCycle {
	case cycledomain.CycleTypeMonthly, cycledomain.CycleTypeYearly:
	default:
		return domain.Plan{}, domain.ErrInvalidCycleType
	}

	now := s.clock.Now()
	plan := domain.Plan{
		ID:           s.genID.Generate(),
		Name:         name,
		Price:        req.Price,
		BillingCycle: req.BillingCycle,
		Status:       domain.PlanStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return domain.Plan{}, err
	}
	return plan, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Plan, error) {
	if id == 0 {
		return domain.Plan{}, domain.ErrInvalidID
	}

	var plan domain.Plan
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Plan{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Plan{}, err
	}
	return plan, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Plan, error) {
	var plans []domain.Plan
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

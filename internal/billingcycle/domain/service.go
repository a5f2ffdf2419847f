package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateCycleRequest struct {
	CustomerID snowflake.ID `json:"customer_id"`
	PlanID     snowflake.ID `json:"plan_id"`
	StartDate  time.Time    `json:"start_date"`
	EndDate    time.Time    `json:"end_date"`
	CycleType  CycleType    `json:"cycle_type"`
}

type Service interface {
	Create(context.Context, CreateCycleRequest) (BillingCycle, error)
	ListByCustomer(ctx context.Context, customerID snowflake.ID) ([]BillingCycle, error)
}

var (
	ErrNotFound           = errors.New("not_found")
	ErrInvalidCustomer    = errors.New("invalid_customer")
	ErrInvalidPlan        = errors.New("invalid_plan")
	ErrInvalidCyclePeriod = errors.New("invalid_cycle_period")
	ErrInvalidCycleType   = errors.New("invalid_cycle_type")
)

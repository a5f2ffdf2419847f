package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
)

type CreatePlanRequest struct {
	Name         string                `json:"name"`
	Price        float64               `json:"price"`
	BillingCycle cycledomain.CycleType `json:"billing_cycle"`
}

type Service interface {
	Create(context.Context, CreatePlanRequest) (Plan, error)
	GetByID(ctx context.Context, id snowflake.ID) (Plan, error)
	List(ctx context.Context) ([]Plan, error)
}

var (
	ErrNotFound         = errors.New("not_found")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidCycleType = errors.New("invalid_cycle_type")
	ErrInvalidID        = errors.New("invalid_id")
)

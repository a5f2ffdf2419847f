package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateSubscriptionRequest struct {
	PlanID snowflake.ID       `json:"plan_id"`
	Status SubscriptionStatus `json:"status"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	GetByID(ctx context.Context, id snowflake.ID) (Customer, error)
	List(ctx context.Context) ([]Customer, error)
	UpdateSubscription(ctx context.Context, id snowflake.ID, req UpdateSubscriptionRequest) (Customer, error)
}

var (
	ErrNotFound      = errors.New("not_found")
	ErrEmailExists   = errors.New("email_exists")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidStatus = errors.New("invalid_status")
)

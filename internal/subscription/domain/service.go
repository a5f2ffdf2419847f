package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
)

type AssignRequest struct {
	CustomerID snowflake.ID `json:"customer_id"`
	PlanID     snowflake.ID `json:"plan_id"`
}

type ChangePlanRequest struct {
	CustomerID snowflake.ID `json:"customer_id"`
	OldPlanID  snowflake.ID `json:"old_plan_id"`
	NewPlanID  snowflake.ID `json:"new_plan_id"`
	CycleStart time.Time    `json:"cycle_start_date"`
	CycleEnd   time.Time    `json:"cycle_end_date"`
}

type Service interface {
	// Assign puts a customer on a plan and opens their first billing cycle.
	Assign(context.Context, AssignRequest) (customerdomain.Customer, error)
	// ChangePlan prorates the current cycle across the old and new plan
	// and books the resulting invoice, due immediately.
	ChangePlan(context.Context, ChangePlanRequest) (ledgerdomain.Invoice, error)
	GetSubscription(ctx context.Context, customerID snowflake.ID) (customerdomain.Customer, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidPlan     = errors.New("invalid_plan")
	ErrPlanInactive    = errors.New("plan_inactive")
)

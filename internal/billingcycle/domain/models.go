// Package domain contains the billing-cycle partition's models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// CycleType is the cadence a customer is charged on.
type CycleType string

const (
	CycleTypeMonthly CycleType = "monthly"
	CycleTypeYearly  CycleType = "yearly"
)

// CycleStatus tracks whether a cycle is the customer's live period.
type CycleStatus string

const (
	CycleStatusActive    CycleStatus = "active"
	CycleStatusCompleted CycleStatus = "completed"
)

// BillingCycle is the date range over which a customer is charged a plan's
// price. At most one cycle per customer is active; creating a new cycle
// supersedes the previous one.
type BillingCycle struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	PlanID     snowflake.ID      `gorm:"not null;index" json:"plan_id"`
	StartDate  time.Time         `gorm:"not null" json:"start_date"`
	EndDate    time.Time         `gorm:"not null" json:"end_date"`
	CycleType  CycleType         `gorm:"type:text;not null" json:"cycle_type"`
	Status     CycleStatus       `gorm:"type:text;not null;default:'active'" json:"status"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BillingCycle) TableName() string { return "billing_cycles" }

// IsEnding reports whether the cycle has reached its end date.
func (c BillingCycle) IsEnding(now time.Time) bool {
	return !now.Before(c.EndDate)
}

// Contains reports whether now falls inside [StartDate, EndDate).
func (c BillingCycle) Contains(now time.Time) bool {
	return !now.Before(c.StartDate) && now.Before(c.EndDate)
}

// CurrentCycle selects the customer's live cycle: the one whose date range
// contains now, falling back to the most recently started.
func CurrentCycle(cycles []BillingCycle, now time.Time) (BillingCycle, bool) {
	if len(cycles) == 0 {
		return BillingCycle{}, false
	}

	for _, cycle := range cycles {
		if cycle.Contains(now) {
			return cycle, true
		}
	}

	latest := cycles[0]
	for _, cycle := range cycles[1:] {
		if cycle.StartDate.After(latest.StartDate) {
			latest = cycle
		}
	}
	return latest, true
}

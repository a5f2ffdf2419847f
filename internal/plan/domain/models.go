package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
)

// PlanStatus marks whether a plan can be assigned.
type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// Plan is a catalog record: a price charged on a billing cadence.
type Plan struct {
	ID           snowflake.ID          `gorm:"primaryKey" json:"id"`
	Name         string                `gorm:"not null" json:"name"`
	Price        float64               `gorm:"not null" json:"price"`
	BillingCycle cycledomain.CycleType `gorm:"type:text;not null" json:"billing_cycle"`
	Status       PlanStatus            `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt    time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// SubscriptionStatus is the customer's standing in the directory.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Customer is a directory record. The billing core references customers by
// ID only and never reads this partition's storage directly.
type Customer struct {
	ID                 snowflake.ID       `gorm:"primaryKey" json:"id"`
	Name               string             `gorm:"not null" json:"name"`
	Email              string             `gorm:"not null;uniqueIndex" json:"email"`
	SubscriptionPlanID snowflake.ID       `gorm:"index" json:"subscription_plan_id,omitempty"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:text;not null;default:'cancelled'" json:"subscription_status"`
	Metadata           datatypes.JSONMap  `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// Package domain contains the invoice ledger's models. The ledger is the
// collection of all invoices for all customers, owned by one partition.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusFailed  InvoiceStatus = "failed"
)

// Invoice is one charge against a customer. Invoices are append-only:
// status and paid_at change, rows are never deleted.
type Invoice struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID      `gorm:"not null;index;uniqueIndex:idx_invoices_customer_cycle,where:cycle_id <> 0" json:"customer_id"`
	PlanID     snowflake.ID      `gorm:"index" json:"plan_id,omitempty"`
	CycleID    snowflake.ID      `gorm:"index;uniqueIndex:idx_invoices_customer_cycle,where:cycle_id <> 0" json:"cycle_id,omitempty"`
	AmountDue  float64           `gorm:"not null" json:"amount_due"`
	DueDate    time.Time         `gorm:"not null" json:"due_date"`
	Status     InvoiceStatus     `gorm:"type:text;not null;default:'pending'" json:"status"`
	PaidAt     *time.Time        `gorm:"" json:"paid_at,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Validate enforces the ledger's invariants: a non-negative amount and
// paid_at set exactly when status is paid.
func (i Invoice) Validate() error {
	if i.CustomerID == 0 {
		return ErrInvalidCustomer
	}
	if i.AmountDue < 0 {
		return ErrInvalidAmount
	}
	switch i.Status {
	case InvoiceStatusPaid:
		if i.PaidAt == nil {
			return ErrPaidAtMismatch
		}
	case InvoiceStatusPending, InvoiceStatusFailed:
		if i.PaidAt != nil {
			return ErrPaidAtMismatch
		}
	default:
		return ErrInvalidStatus
	}
	return nil
}

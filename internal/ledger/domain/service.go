package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ListInvoiceRequest struct {
	// CustomerID filters the ledger when non-zero.
	CustomerID snowflake.ID
}

// UpdateInvoiceRequest is a keyed status transition. ExpectedStatus, when
// set, guards the transition: the update is rejected with ErrStatusConflict
// if the stored status is not one of them. This replaces whole-collection
// read-modify-write, so concurrent writers cannot lose each other's updates.
type UpdateInvoiceRequest struct {
	Status         InvoiceStatus   `json:"status"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	ExpectedStatus []InvoiceStatus `json:"expected_status,omitempty"`
}

type Service interface {
	Create(context.Context, Invoice) (Invoice, error)
	List(context.Context, ListInvoiceRequest) ([]Invoice, error)
	// BulkUpdate replaces each supplied invoice by ID. Unknown IDs are
	// silently ignored. Returns the full post-update ledger.
	BulkUpdate(context.Context, []Invoice) ([]Invoice, error)
	UpdateByID(ctx context.Context, id snowflake.ID, req UpdateInvoiceRequest) (Invoice, error)
}

var (
	ErrNotFound             = errors.New("not_found")
	ErrInvalidCustomer      = errors.New("invalid_customer")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrPaidAtMismatch       = errors.New("paid_at_mismatch")
	ErrStatusConflict       = errors.New("status_conflict")
	ErrCycleAlreadyInvoiced = errors.New("cycle_already_invoiced")
)

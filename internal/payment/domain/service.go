// Package domain defines the payment processor's contract. Payment
// "success" is a caller-supplied signal; there is no gateway integration.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
)

type RecordPaymentRequest struct {
	InvoiceID     snowflake.ID `json:"invoice_id"`
	PaymentAmount float64      `json:"payment_amount"`
}

type Service interface {
	RecordPayment(context.Context, RecordPaymentRequest) (ledgerdomain.Invoice, error)
	// RetryFailedPayments re-attempts settlement of every failed invoice
	// and returns the retried subset.
	RetryFailedPayments(context.Context) ([]ledgerdomain.Invoice, error)
}

var (
	ErrInsufficientPayment = errors.New("insufficient_payment")
	ErrAlreadyPaid         = errors.New("already_paid")
	ErrInvalidInvoiceID    = errors.New("invalid_invoice_id")
)

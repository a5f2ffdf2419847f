// Package notify sends payment outcome emails. A notification failure is
// logged and never fails the payment operation that triggered it.
package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Notifier interface {
	PaymentSucceeded(ctx context.Context, invoice ledgerdomain.Invoice)
	PaymentFailed(ctx context.Context, invoice ledgerdomain.Invoice)
}

// RecipientDirectory resolves an invoice's customer to an email address.
// The payment app backs it with a remote directory client.
type RecipientDirectory interface {
	GetByID(ctx context.Context, id snowflake.ID) (customerdomain.Customer, error)
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Email     email.Provider
	Directory RecipientDirectory
}

type notifier struct {
	log       *zap.Logger
	email     email.Provider
	directory RecipientDirectory
}

func New(p Params) Notifier {
	return &notifier{
		log:       p.Log.Named("notify"),
		email:     p.Email,
		directory: p.Directory,
	}
}

func (n *notifier) PaymentSucceeded(ctx context.Context, invoice ledgerdomain.Invoice) {
	subject := fmt.Sprintf("Payment Success for Invoice #%s", invoice.ID)
	body := fmt.Sprintf("Your payment of %.2f has been successfully processed for invoice #%s.", invoice.AmountDue, invoice.ID)
	n.send(ctx, invoice, subject, body)
}

func (n *notifier) PaymentFailed(ctx context.Context, invoice ledgerdomain.Invoice) {
	subject := fmt.Sprintf("Payment Failed for Invoice #%s", invoice.ID)
	body := fmt.Sprintf("Your payment for invoice #%s has failed. Please try again.", invoice.ID)
	n.send(ctx, invoice, subject, body)
}

func (n *notifier) send(ctx context.Context, invoice ledgerdomain.Invoice, subject, body string) {
	customer, err := n.directory.GetByID(ctx, invoice.CustomerID)
	if err != nil {
		n.log.Warn("notification skipped: customer lookup failed",
			zap.String("customer_id", invoice.CustomerID.String()),
			zap.Error(err),
		)
		return
	}
	if customer.Email == "" {
		n.log.Warn("notification skipped: customer has no email",
			zap.String("customer_id", invoice.CustomerID.String()),
		)
		return
	}

	if err := n.email.Send(ctx, []string{customer.Email}, subject, body); err != nil {
		n.log.Warn("notification send failed",
			zap.String("customer_id", invoice.CustomerID.String()),
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}
}

var Module = fx.Module("notify",
	fx.Provide(New),
)

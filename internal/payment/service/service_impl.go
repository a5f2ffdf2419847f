package service

import (
	"context"
	"errors"

	"github.com/smallbiznis/renova/internal/clock"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/internal/notify"
	"github.com/smallbiznis/renova/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Ledger   ledgerdomain.Service
	Notifier notify.Notifier
	Clock    clock.Clock
}

// Service records payments against the invoice ledger. It holds no state
// of its own; every read and write goes through the ledger partition.
type Service struct {
	log      *zap.Logger
	ledger   ledgerdomain.Service
	notifier notify.Notifier
	clock    clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("payment.service"),
		ledger:   p.Ledger,
		notifier: p.Notifier,
		clock:    p.Clock,
	}
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (ledgerdomain.Invoice, error) {
	if req.InvoiceID == 0 {
		return ledgerdomain.Invoice{}, domain.ErrInvalidInvoiceID
	}

	invoices, err := s.ledger.List(ctx, ledgerdomain.ListInvoiceRequest{})
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrNotFound) {
			return ledgerdomain.Invoice{}, ledgerdomain.ErrNotFound
		}
		return ledgerdomain.Invoice{}, err
	}

	var invoice *ledgerdomain.Invoice
	for i := range invoices {
		if invoices[i].ID == req.InvoiceID {
			invoice = &invoices[i]
			break
		}
	}
	if invoice == nil {
		return ledgerdomain.Invoice{}, ledgerdomain.ErrNotFound
	}

	if invoice.Status == ledgerdomain.InvoiceStatusPaid {
		return ledgerdomain.Invoice{}, domain.ErrAlreadyPaid
	}

	if req.PaymentAmount < invoice.AmountDue {
		s.notifier.PaymentFailed(ctx, *invoice)
		return ledgerdomain.Invoice{}, domain.ErrInsufficientPayment
	}

	paidAt := s.clock.Now()
	updated, err := s.ledger.UpdateByID(ctx, invoice.ID, ledgerdomain.UpdateInvoiceRequest{
		Status: ledgerdomain.InvoiceStatusPaid,
		PaidAt: &paidAt,
		ExpectedStatus: []ledgerdomain.InvoiceStatus{
			ledgerdomain.InvoiceStatusPending,
			ledgerdomain.InvoiceStatusFailed,
		},
	})
	if err != nil {
		// A concurrent writer settled it first.
		if errors.Is(err, ledgerdomain.ErrStatusConflict) {
			return ledgerdomain.Invoice{}, domain.ErrAlreadyPaid
		}
		return ledgerdomain.Invoice{}, err
	}

	s.notifier.PaymentSucceeded(ctx, updated)
	s.log.Info("payment recorded",
		zap.String("invoice_id", updated.ID.String()),
		zap.Float64("amount", req.PaymentAmount),
	)
	return updated, nil
}

func (s *Service) RetryFailedPayments(ctx context.Context) ([]ledgerdomain.Invoice, error) {
	invoices, err := s.ledger.List(ctx, ledgerdomain.ListInvoiceRequest{})
	if err != nil {
		// An empty ledger means nothing to retry, not a sweep failure.
		if errors.Is(err, ledgerdomain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	retried := make([]ledgerdomain.Invoice, 0)
	for _, invoice := range invoices {
		if invoice.Status != ledgerdomain.InvoiceStatusFailed {
			continue
		}

		// Simulated retry: settlement is assumed to succeed.
		paidAt := s.clock.Now()
		updated, err := s.ledger.UpdateByID(ctx, invoice.ID, ledgerdomain.UpdateInvoiceRequest{
			Status:         ledgerdomain.InvoiceStatusPaid,
			PaidAt:         &paidAt,
			ExpectedStatus: []ledgerdomain.InvoiceStatus{ledgerdomain.InvoiceStatusFailed},
		})
		if err != nil {
			s.log.Warn("retry failed for invoice, continuing sweep",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err),
			)
			continue
		}

		s.notifier.PaymentSucceeded(ctx, updated)
		retried = append(retried, updated)
	}

	s.log.Info("payment retry sweep finished", zap.Int("retried", len(retried)))
	return retried, nil
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/clock"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/internal/payment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ledgerStub keeps invoices in memory and honors the keyed-update guard
// the way the real partition does.
type ledgerStub struct {
	mu       sync.Mutex
	invoices map[snowflake.ID]ledgerdomain.Invoice
	order    []snowflake.ID
	listErr  error
}

func newLedgerStub() *ledgerStub {
	return &ledgerStub{invoices: map[snowflake.ID]ledgerdomain.Invoice{}}
}

func (l *ledgerStub) add(invoice ledgerdomain.Invoice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invoices[invoice.ID] = invoice
	l.order = append(l.order, invoice.ID)
}

func (l *ledgerStub) get(id snowflake.ID) ledgerdomain.Invoice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.invoices[id]
}

func (l *ledgerStub) Create(ctx context.Context, invoice ledgerdomain.Invoice) (ledgerdomain.Invoice, error) {
	l.add(invoice)
	return invoice, nil
}

func (l *ledgerStub) List(ctx context.Context, req ledgerdomain.ListInvoiceRequest) ([]ledgerdomain.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listErr != nil {
		return nil, l.listErr
	}
	var out []ledgerdomain.Invoice
	for _, id := range l.order {
		invoice := l.invoices[id]
		if req.CustomerID != 0 && invoice.CustomerID != req.CustomerID {
			continue
		}
		out = append(out, invoice)
	}
	if len(out) == 0 {
		return nil, ledgerdomain.ErrNotFound
	}
	return out, nil
}

func (l *ledgerStub) BulkUpdate(ctx context.Context, updated []ledgerdomain.Invoice) ([]ledgerdomain.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, invoice := range updated {
		if _, ok := l.invoices[invoice.ID]; ok {
			l.invoices[invoice.ID] = invoice
		}
	}
	var out []ledgerdomain.Invoice
	for _, id := range l.order {
		out = append(out, l.invoices[id])
	}
	return out, nil
}

func (l *ledgerStub) UpdateByID(ctx context.Context, id snowflake.ID, req ledgerdomain.UpdateInvoiceRequest) (ledgerdomain.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	invoice, ok := l.invoices[id]
	if !ok {
		return ledgerdomain.Invoice{}, ledgerdomain.ErrNotFound
	}
	if len(req.ExpectedStatus) > 0 {
		matched := false
		for _, expected := range req.ExpectedStatus {
			if invoice.Status == expected {
				matched = true
				break
			}
		}
		if !matched {
			return ledgerdomain.Invoice{}, ledgerdomain.ErrStatusConflict
		}
	}
	invoice.Status = req.Status
	invoice.PaidAt = req.PaidAt
	l.invoices[id] = invoice
	return invoice, nil
}

type notifierSpy struct {
	mu        sync.Mutex
	succeeded []snowflake.ID
	failed    []snowflake.ID
}

func (n *notifierSpy) PaymentSucceeded(ctx context.Context, invoice ledgerdomain.Invoice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.succeeded = append(n.succeeded, invoice.ID)
}

func (n *notifierSpy) PaymentFailed(ctx context.Context, invoice ledgerdomain.Invoice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, invoice.ID)
}

func setupPayments(t *testing.T) (domain.Service, *ledgerStub, *notifierSpy, *clock.FakeClock) {
	t.Helper()
	ledger := newLedgerStub()
	spy := &notifierSpy{}
	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	svc := New(Params{
		Log:      zap.NewNop(),
		Ledger:   ledger,
		Notifier: spy,
		Clock:    clk,
	})
	return svc, ledger, spy, clk
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func TestRecordPaymentExactAmount(t *testing.T) {
	svc, ledger, spy, clk := setupPayments(t)
	node := mustNode(t)

	invoice := ledgerdomain.Invoice{
		ID:         node.Generate(),
		CustomerID: node.Generate(),
		AmountDue:  30,
		Status:     ledgerdomain.InvoiceStatusPending,
	}
	ledger.add(invoice)

	updated, err := svc.RecordPayment(context.Background(), domain.RecordPaymentRequest{
		InvoiceID:     invoice.ID,
		PaymentAmount: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, ledgerdomain.InvoiceStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)
	assert.True(t, updated.PaidAt.Equal(clk.Now()))
	assert.Equal(t, []snowflake.ID{invoice.ID}, spy.succeeded)
	assert.Empty(t, spy.failed)
}

func TestRecordPaymentOverpaymentSettles(t *testing.T) {
	svc, ledger, _, _ := setupPayments(t)
	node := mustNode(t)

	invoice := ledgerdomain.Invoice{
		ID:         node.Generate(),
		CustomerID: node.Generate(),
		AmountDue:  30,
		Status:     ledgerdomain.InvoiceStatusPending,
	}
	ledger.add(invoice)

	updated, err := svc.RecordPayment(context.Background(), domain.RecordPaymentRequest{
		InvoiceID:     invoice.ID,
		PaymentAmount: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, ledgerdomain.InvoiceStatusPaid, updated.Status)
}

func TestRecordPaymentInsufficientAmount(t *testing.T) {
	svc, ledger, spy, _ := setupPayments(t)
	node := mustNode(t)

	invoice := ledgerdomain.Invoice{
		ID:         node.Generate(),
		CustomerID: node.Generate(),
		AmountDue:  30,
		Status:     ledgerdomain.InvoiceStatusPending,
	}
	ledger.add(invoice)

	_, err := svc.RecordPayment(context.Background(), domain.RecordPaymentRequest{
		InvoiceID:     invoice.ID,
		PaymentAmount: 20,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)

	// The invoice is untouched and the customer is told the attempt failed.
	stored := ledger.get(invoice.ID)
	assert.Equal(t, ledgerdomain.InvoiceStatusPending, stored.Status)
	assert.Nil(t, stored.PaidAt)
	assert.Equal(t, []snowflake.ID{invoice.ID}, spy.failed)
	assert.Empty(t, spy.succeeded)
}

func TestRecordPaymentAlreadyPaid(t *testing.T) {
	svc, ledger, spy, clk := setupPayments(t)
	node := mustNode(t)

	paidAt := clk.Now()
	invoice := ledgerdomain.Invoice{
		ID:         node.Generate(),
		CustomerID: node.Generate(),
		AmountDue:  30,
		Status:     ledgerdomain.InvoiceStatusPaid,
		PaidAt:     &paidAt,
	}
	ledger.add(invoice)

	_, err := svc.RecordPayment(context.Background(), domain.RecordPaymentRequest{
		InvoiceID:     invoice.ID,
		PaymentAmount: 30,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	assert.Empty(t, spy.succeeded)
	assert.Empty(t, spy.failed)
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	svc, ledger, _, _ := setupPayments(t)
	node := mustNode(t)

	ledger.add(ledgerdomain.Invoice{
		ID:         node.Generate(),
		CustomerID: node.Generate(),
		AmountDue:  30,
		Status:     ledgerdomain.InvoiceStatusPending,
	})

	_, err := svc.RecordPayment(context.Background(), domain.RecordPaymentRequest{
		InvoiceID:     node.Generate(),
		PaymentAmount: 30,
	})
	assert.ErrorIs(t, err, ledgerdomain.ErrNotFound)
}

func TestRecordPaymentInvalidID(t *testing.T) {
	svc, _, _, _ := setupPayments(t)

	_, err := svc.RecordPayment(context.Background(), domain.RecordPaymentRequest{PaymentAmount: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceID)
}

func TestRetryFailedPaymentsSettlesOnlyFailed(t *testing.T) {
	svc, ledger, spy, _ := setupPayments(t)
	node := mustNode(t)

	failed := ledgerdomain.Invoice{
		ID:         node.Generate(),
		CustomerID: node.Generate(),
		AmountDue:  30,
		Status:     ledgerdomain.InvoiceStatusFailed,
	}
	pending := ledgerdomain.Invoice{
		ID:         node.Generate(),
		CustomerID: node.Generate(),
		AmountDue:  10,
		Status:     ledgerdomain.InvoiceStatusPending,
	}
	ledger.add(failed)
	ledger.add(pending)

	retried, err := svc.RetryFailedPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, retried, 1)
	assert.Equal(t, failed.ID, retried[0].ID)
	assert.Equal(t, ledgerdomain.InvoiceStatusPaid, retried[0].Status)

	assert.Equal(t, ledgerdomain.InvoiceStatusPending, ledger.get(pending.ID).Status)
	assert.Equal(t, []snowflake.ID{failed.ID}, spy.succeeded)

	// A second sweep finds nothing failed and is a no-op.
	retried, err = svc.RetryFailedPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, retried)
}

func TestRetryFailedPaymentsEmptyLedger(t *testing.T) {
	svc, _, _, _ := setupPayments(t)

	retried, err := svc.RetryFailedPayments(context.Background())
	require.NoError(t, err)
	assert.Nil(t, retried)
}

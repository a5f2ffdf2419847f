// Package client reaches the payment processor service over HTTP. The
// retry scheduler uses it so the sweep never touches ledger storage
// directly.
package client

import (
	"context"

	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/internal/payment/domain"
	"github.com/smallbiznis/renova/pkg/httprpc"
)

type Client struct {
	rpc *httprpc.Client
}

func New(rpc *httprpc.Client) *Client {
	return &Client{rpc: rpc}
}

var _ domain.Service = (*Client)(nil)

func (c *Client) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (ledgerdomain.Invoice, error) {
	var invoice ledgerdomain.Invoice
	if err := c.rpc.Post(ctx, "/v1/payments", req, &invoice); err != nil {
		return ledgerdomain.Invoice{}, mapRemote(err)
	}
	return invoice, nil
}

func (c *Client) RetryFailedPayments(ctx context.Context) ([]ledgerdomain.Invoice, error) {
	var retried []ledgerdomain.Invoice
	if err := c.rpc.Post(ctx, "/v1/payments/retry", nil, &retried); err != nil {
		return nil, mapRemote(err)
	}
	return retried, nil
}

func mapRemote(err error) error {
	re := httprpc.AsRemote(err)
	if re == nil {
		return err
	}
	switch re.Type {
	case "not_found":
		return ledgerdomain.ErrNotFound
	case "insufficient_payment":
		return domain.ErrInsufficientPayment
	case "already_paid":
		return domain.ErrAlreadyPaid
	case "invalid_invoice_id":
		return domain.ErrInvalidInvoiceID
	default:
		return err
	}
}

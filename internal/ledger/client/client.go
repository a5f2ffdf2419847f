// Package client reaches the invoice-ledger partition over HTTP,
// implementing the ledger's domain.Service.
package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/pkg/httprpc"
)

type Client struct {
	rpc *httprpc.Client
}

func New(rpc *httprpc.Client) *Client {
	return &Client{rpc: rpc}
}

var _ domain.Service = (*Client)(nil)

func (c *Client) Create(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	var created domain.Invoice
	if err := c.rpc.Post(ctx, "/v1/invoices", invoice, &created); err != nil {
		return domain.Invoice{}, mapRemote(err)
	}
	return created, nil
}

func (c *Client) List(ctx context.Context, req domain.ListInvoiceRequest) ([]domain.Invoice, error) {
	query := url.Values{}
	if req.CustomerID != 0 {
		query.Set("customer_id", req.CustomerID.String())
	}
	var invoices []domain.Invoice
	if err := c.rpc.Get(ctx, "/v1/invoices", query, &invoices); err != nil {
		return nil, mapRemote(err)
	}
	return invoices, nil
}

func (c *Client) BulkUpdate(ctx context.Context, updated []domain.Invoice) ([]domain.Invoice, error) {
	body := map[string]any{"invoices": updated}
	var ledger []domain.Invoice
	if err := c.rpc.Put(ctx, "/v1/invoices", body, &ledger); err != nil {
		return nil, mapRemote(err)
	}
	return ledger, nil
}

func (c *Client) UpdateByID(ctx context.Context, id snowflake.ID, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	var invoice domain.Invoice
	path := fmt.Sprintf("/v1/invoices/%s", id.String())
	if err := c.rpc.Patch(ctx, path, req, &invoice); err != nil {
		return domain.Invoice{}, mapRemote(err)
	}
	return invoice, nil
}

func mapRemote(err error) error {
	re := httprpc.AsRemote(err)
	if re == nil {
		return err
	}
	switch re.Type {
	case "not_found":
		return domain.ErrNotFound
	case "status_conflict":
		return domain.ErrStatusConflict
	case "cycle_already_invoiced":
		return domain.ErrCycleAlreadyInvoiced
	case "invalid_amount":
		return domain.ErrInvalidAmount
	case "invalid_status":
		return domain.ErrInvalidStatus
	case "paid_at_mismatch":
		return domain.ErrPaidAtMismatch
	case "invalid_customer":
		return domain.ErrInvalidCustomer
	default:
		return err
	}
}

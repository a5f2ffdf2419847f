// Package client reaches the billing-cycle partition over HTTP. It
// implements domain.Service so callers cannot tell a remote partition
// from an in-process one.
package client

import (
	"context"
	"net/url"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/pkg/httprpc"
)

type Client struct {
	rpc *httprpc.Client
}

func New(rpc *httprpc.Client) *Client {
	return &Client{rpc: rpc}
}

var _ domain.Service = (*Client)(nil)

func (c *Client) Create(ctx context.Context, req domain.CreateCycleRequest) (domain.BillingCycle, error) {
	var cycle domain.BillingCycle
	if err := c.rpc.Post(ctx, "/v1/billing-cycles", req, &cycle); err != nil {
		return domain.BillingCycle{}, mapRemote(err)
	}
	return cycle, nil
}

func (c *Client) ListByCustomer(ctx context.Context, customerID snowflake.ID) ([]domain.BillingCycle, error) {
	query := url.Values{"customer_id": []string{customerID.String()}}
	var cycles []domain.BillingCycle
	if err := c.rpc.Get(ctx, "/v1/billing-cycles", query, &cycles); err != nil {
		return nil, mapRemote(err)
	}
	return cycles, nil
}

func mapRemote(err error) error {
	re := httprpc.AsRemote(err)
	if re == nil {
		return err
	}
	switch re.Type {
	case "not_found":
		return domain.ErrNotFound
	case "invalid_cycle_period":
		return domain.ErrInvalidCyclePeriod
	case "invalid_cycle_type":
		return domain.ErrInvalidCycleType
	case "invalid_customer":
		return domain.ErrInvalidCustomer
	case "invalid_plan":
		return domain.ErrInvalidPlan
	default:
		return err
	}
}

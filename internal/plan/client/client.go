// Package client reaches the plan catalog service over HTTP.
package client

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/plan/domain"
	"github.com/smallbiznis/renova/pkg/httprpc"
)

type Client struct {
	rpc *httprpc.Client
}

func New(rpc *httprpc.Client) *Client {
	return &Client{rpc: rpc}
}

var _ domain.Service = (*Client)(nil)

func (c *Client) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.Plan, error) {
	var plan domain.Plan
	if err := c.rpc.Post(ctx, "/v1/plans", req, &plan); err != nil {
		return domain.Plan{}, mapRemote(err)
	}
	return plan, nil
}

func (c *Client) GetByID(ctx context.Context, id snowflake.ID) (domain.Plan, error) {
	var plan domain.Plan
	path := fmt.Sprintf("/v1/plans/%s", id.String())
	if err := c.rpc.Get(ctx, path, nil, &plan); err != nil {
		return domain.Plan{}, mapRemote(err)
	}
	return plan, nil
}

func (c *Client) List(ctx context.Context) ([]domain.Plan, error) {
	var plans []domain.Plan
	if err := c.rpc.Get(ctx, "/v1/plans", nil, &plans); err != nil {
		return nil, mapRemote(err)
	}
	return plans, nil
}

func mapRemote(err error) error {
	re := httprpc.AsRemote(err)
	if re == nil {
		return err
	}
	switch re.Type {
	case "not_found":
		return domain.ErrNotFound
	case "invalid_name":
		return domain.ErrInvalidName
	case "invalid_price":
		return domain.ErrInvalidPrice
	case "invalid_cycle_type":
		return domain.ErrInvalidCycleType
	case "invalid_id":
		return domain.ErrInvalidID
	default:
		return err
	}
}

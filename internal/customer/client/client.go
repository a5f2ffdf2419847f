// Package client reaches the customer directory service over HTTP. The
// directory is an external collaborator; the billing core only sees this
// interface.
package client

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/customer/domain"
	"github.com/smallbiznis/renova/pkg/httprpc"
)

type Client struct {
	rpc *httprpc.Client
}

func New(rpc *httprpc.Client) *Client {
	return &Client{rpc: rpc}
}

var _ domain.Service = (*Client)(nil)

func (c *Client) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	var customer domain.Customer
	if err := c.rpc.Post(ctx, "/v1/customers", req, &customer); err != nil {
		return domain.Customer{}, mapRemote(err)
	}
	return customer, nil
}

func (c *Client) GetByID(ctx context.Context, id snowflake.ID) (domain.Customer, error) {
	var customer domain.Customer
	path := fmt.Sprintf("/v1/customers/%s", id.String())
	if err := c.rpc.Get(ctx, path, nil, &customer); err != nil {
		return domain.Customer{}, mapRemote(err)
	}
	return customer, nil
}

func (c *Client) List(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := c.rpc.Get(ctx, "/v1/customers", nil, &customers); err != nil {
		return nil, mapRemote(err)
	}
	return customers, nil
}

func (c *Client) UpdateSubscription(ctx context.Context, id snowflake.ID, req domain.UpdateSubscriptionRequest) (domain.Customer, error) {
	var customer domain.Customer
	path := fmt.Sprintf("/v1/customers/%s/subscription", id.String())
	if err := c.rpc.Patch(ctx, path, req, &customer); err != nil {
		return domain.Customer{}, mapRemote(err)
	}
	return customer, nil
}

func mapRemote(err error) error {
	re := httprpc.AsRemote(err)
	if re == nil {
		return err
	}
	switch re.Type {
	case "not_found":
		return domain.ErrNotFound
	case "email_exists":
		return domain.ErrEmailExists
	case "invalid_name":
		return domain.ErrInvalidName
	case "invalid_email":
		return domain.ErrInvalidEmail
	case "invalid_id":
		return domain.ErrInvalidID
	default:
		return err
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/clock"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	plandomain "github.com/smallbiznis/renova/internal/plan/domain"
	"github.com/smallbiznis/renova/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type directoryStub struct {
	customers map[snowflake.ID]customerdomain.Customer
	updates   []customerdomain.UpdateSubscriptionRequest
}

func (d *directoryStub) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (customerdomain.Customer, error) {
	return customerdomain.Customer{}, nil
}

func (d *directoryStub) GetByID(ctx context.Context, id snowflake.ID) (customerdomain.Customer, error) {
	customer, ok := d.customers[id]
	if !ok {
		return customerdomain.Customer{}, customerdomain.ErrNotFound
	}
	return customer, nil
}

func (d *directoryStub) List(ctx context.Context) ([]customerdomain.Customer, error) {
	return nil, nil
}

func (d *directoryStub) UpdateSubscription(ctx context.Context, id snowflake.ID, req customerdomain.UpdateSubscriptionRequest) (customerdomain.Customer, error) {
	customer, ok := d.customers[id]
	if !ok {
		return customerdomain.Customer{}, customerdomain.ErrNotFound
	}
	customer.SubscriptionPlanID = req.PlanID
	customer.SubscriptionStatus = req.Status
	d.customers[id] = customer
	d.updates = append(d.updates, req)
	return customer, nil
}

type catalogStub struct {
	plans map[snowflake.ID]plandomain.Plan
}

func (c *catalogStub) Create(ctx context.Context, req plandomain.CreatePlanRequest) (plandomain.Plan, error) {
	return plandomain.Plan{}, nil
}

func (c *catalogStub) GetByID(ctx context.Context, id snowflake.ID) (plandomain.Plan, error) {
	plan, ok := c.plans[id]
	if !ok {
		return plandomain.Plan{}, plandomain.ErrNotFound
	}
	return plan, nil
}

func (c *catalogStub) List(ctx context.Context) ([]plandomain.Plan, error) {
	return nil, nil
}

type billingSpy struct {
	created []cycledomain.CreateCycleRequest
}

func (b *billingSpy) Create(ctx context.Context, req cycledomain.CreateCycleRequest) (cycledomain.BillingCycle, error) {
	b.created = append(b.created, req)
	return cycledomain.BillingCycle{
		ID:         snowflake.ID(len(b.created)),
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CycleType:  req.CycleType,
		Status:     cycledomain.CycleStatusActive,
	}, nil
}

func (b *billingSpy) ListByCustomer(ctx context.Context, customerID snowflake.ID) ([]cycledomain.BillingCycle, error) {
	return nil, cycledomain.ErrNotFound
}

type ledgerSpy struct {
	created []ledgerdomain.Invoice
}

func (l *ledgerSpy) Create(ctx context.Context, invoice ledgerdomain.Invoice) (ledgerdomain.Invoice, error) {
	invoice.ID = snowflake.ID(len(l.created) + 1)
	l.created = append(l.created, invoice)
	return invoice, nil
}

func (l *ledgerSpy) List(ctx context.Context, req ledgerdomain.ListInvoiceRequest) ([]ledgerdomain.Invoice, error) {
	return nil, ledgerdomain.ErrNotFound
}

func (l *ledgerSpy) BulkUpdate(ctx context.Context, updated []ledgerdomain.Invoice) ([]ledgerdomain.Invoice, error) {
	return nil, nil
}

func (l *ledgerSpy) UpdateByID(ctx context.Context, id snowflake.ID, req ledgerdomain.UpdateInvoiceRequest) (ledgerdomain.Invoice, error) {
	return ledgerdomain.Invoice{}, ledgerdomain.ErrNotFound
}

func setupSubscriptions(t *testing.T, clk clock.Clock, directory *directoryStub, catalog *catalogStub, billing *billingSpy, ledger *ledgerSpy) domain.Service {
	t.Helper()
	return New(Params{
		Log:       zap.NewNop(),
		Directory: directory,
		Catalog:   catalog,
		Billing:   billing,
		Ledger:    ledger,
		Clock:     clk,
	})
}

func TestAssignOpensFirstCycle(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customerID := node.Generate()
	planID := node.Generate()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)

	directory := &directoryStub{customers: map[snowflake.ID]customerdomain.Customer{
		customerID: {ID: customerID, SubscriptionStatus: customerdomain.SubscriptionStatusCancelled},
	}}
	catalog := &catalogStub{plans: map[snowflake.ID]plandomain.Plan{
		planID: {ID: planID, Price: 30, BillingCycle: cycledomain.CycleTypeMonthly, Status: plandomain.PlanStatusActive},
	}}
	billing := &billingSpy{}
	svc := setupSubscriptions(t, clk, directory, catalog, billing, &ledgerSpy{})

	customer, err := svc.Assign(context.Background(), domain.AssignRequest{
		CustomerID: customerID,
		PlanID:     planID,
	})
	require.NoError(t, err)

	assert.Equal(t, planID, customer.SubscriptionPlanID)
	assert.Equal(t, customerdomain.SubscriptionStatusActive, customer.SubscriptionStatus)

	require.Len(t, billing.created, 1)
	cycle := billing.created[0]
	assert.Equal(t, customerID, cycle.CustomerID)
	assert.True(t, cycle.StartDate.Equal(now))
	assert.True(t, cycle.EndDate.Equal(now.AddDate(0, 1, 0)))
	assert.Equal(t, cycledomain.CycleTypeMonthly, cycle.CycleType)
}

func TestAssignYearlyPlanCycleSpan(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customerID := node.Generate()
	planID := node.Generate()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)

	directory := &directoryStub{customers: map[snowflake.ID]customerdomain.Customer{
		customerID: {ID: customerID},
	}}
	catalog := &catalogStub{plans: map[snowflake.ID]plandomain.Plan{
		planID: {ID: planID, Price: 300, BillingCycle: cycledomain.CycleTypeYearly, Status: plandomain.PlanStatusActive},
	}}
	billing := &billingSpy{}
	svc := setupSubscriptions(t, clk, directory, catalog, billing, &ledgerSpy{})

	_, err = svc.Assign(context.Background(), domain.AssignRequest{
		CustomerID: customerID,
		PlanID:     planID,
	})
	require.NoError(t, err)

	require.Len(t, billing.created, 1)
	assert.True(t, billing.created[0].EndDate.Equal(now.AddDate(1, 0, 0)))
}

func TestAssignRejectsInactivePlan(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customerID := node.Generate()
	planID := node.Generate()
	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	directory := &directoryStub{customers: map[snowflake.ID]customerdomain.Customer{
		customerID: {ID: customerID},
	}}
	catalog := &catalogStub{plans: map[snowflake.ID]plandomain.Plan{
		planID: {ID: planID, Status: plandomain.PlanStatusInactive},
	}}
	billing := &billingSpy{}
	svc := setupSubscriptions(t, clk, directory, catalog, billing, &ledgerSpy{})

	_, err = svc.Assign(context.Background(), domain.AssignRequest{
		CustomerID: customerID,
		PlanID:     planID,
	})
	assert.ErrorIs(t, err, domain.ErrPlanInactive)
	assert.Empty(t, billing.created)
	assert.Empty(t, directory.updates)
}

func TestChangePlanBooksProratedInvoice(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customerID := node.Generate()
	oldPlanID := node.Generate()
	newPlanID := node.Generate()

	cycleStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cycleEnd := cycleStart.AddDate(0, 0, 30)
	now := cycleStart.AddDate(0, 0, 10)
	clk := clock.NewFakeClock(now)

	directory := &directoryStub{customers: map[snowflake.ID]customerdomain.Customer{
		customerID: {ID: customerID, SubscriptionPlanID: oldPlanID, SubscriptionStatus: customerdomain.SubscriptionStatusActive},
	}}
	catalog := &catalogStub{plans: map[snowflake.ID]plandomain.Plan{
		oldPlanID: {ID: oldPlanID, Price: 10, BillingCycle: cycledomain.CycleTypeMonthly, Status: plandomain.PlanStatusActive},
		newPlanID: {ID: newPlanID, Price: 20, BillingCycle: cycledomain.CycleTypeMonthly, Status: plandomain.PlanStatusActive},
	}}
	ledger := &ledgerSpy{}
	svc := setupSubscriptions(t, clk, directory, catalog, &billingSpy{}, ledger)

	invoice, err := svc.ChangePlan(context.Background(), domain.ChangePlanRequest{
		CustomerID: customerID,
		OldPlanID:  oldPlanID,
		NewPlanID:  newPlanID,
		CycleStart: cycleStart,
		CycleEnd:   cycleEnd,
	})
	require.NoError(t, err)

	// 10 days on the old plan, 20 remaining on the new one.
	assert.InDelta(t, 10.0/3.0+40.0/3.0, invoice.AmountDue, 0.01)
	assert.Equal(t, newPlanID, invoice.PlanID)
	assert.Equal(t, ledgerdomain.InvoiceStatusPending, invoice.Status)
	assert.True(t, invoice.DueDate.Equal(now))
	assert.Zero(t, invoice.CycleID)

	customer := directory.customers[customerID]
	assert.Equal(t, newPlanID, customer.SubscriptionPlanID)
}

func TestChangePlanUnknownPlan(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customerID := node.Generate()
	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	directory := &directoryStub{customers: map[snowflake.ID]customerdomain.Customer{
		customerID: {ID: customerID},
	}}
	ledger := &ledgerSpy{}
	svc := setupSubscriptions(t, clk, directory, &catalogStub{plans: map[snowflake.ID]plandomain.Plan{}}, &billingSpy{}, ledger)

	_, err = svc.ChangePlan(context.Background(), domain.ChangePlanRequest{
		CustomerID: customerID,
		OldPlanID:  node.Generate(),
		NewPlanID:  node.Generate(),
		CycleStart: clk.Now(),
		CycleEnd:   clk.Now().AddDate(0, 1, 0),
	})
	assert.ErrorIs(t, err, plandomain.ErrNotFound)
	assert.Empty(t, ledger.created)
}

func TestGetSubscription(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customerID := node.Generate()
	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	directory := &directoryStub{customers: map[snowflake.ID]customerdomain.Customer{
		customerID: {ID: customerID, SubscriptionStatus: customerdomain.SubscriptionStatusActive},
	}}
	svc := setupSubscriptions(t, clk, directory, &catalogStub{}, &billingSpy{}, &ledgerSpy{})

	customer, err := svc.GetSubscription(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, customerID, customer.ID)

	_, err = svc.GetSubscription(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)
}

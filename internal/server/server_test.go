package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	"github.com/smallbiznis/renova/internal/config"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	plandomain "github.com/smallbiznis/renova/internal/plan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type customerSvcStub struct{}

func (customerSvcStub) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (customerdomain.Customer, error) {
	return customerdomain.Customer{ID: 1, Name: req.Name, Email: req.Email}, nil
}

func (customerSvcStub) GetByID(ctx context.Context, id snowflake.ID) (customerdomain.Customer, error) {
	return customerdomain.Customer{ID: id}, nil
}

func (customerSvcStub) List(ctx context.Context) ([]customerdomain.Customer, error) {
	return []customerdomain.Customer{{ID: 1}}, nil
}

func (customerSvcStub) UpdateSubscription(ctx context.Context, id snowflake.ID, req customerdomain.UpdateSubscriptionRequest) (customerdomain.Customer, error) {
	return customerdomain.Customer{ID: id, SubscriptionPlanID: req.PlanID, SubscriptionStatus: req.Status}, nil
}

type planSvcStub struct{}

func (planSvcStub) Create(ctx context.Context, req plandomain.CreatePlanRequest) (plandomain.Plan, error) {
	return plandomain.Plan{ID: 2, Name: req.Name, Price: req.Price}, nil
}

func (planSvcStub) GetByID(ctx context.Context, id snowflake.ID) (plandomain.Plan, error) {
	return plandomain.Plan{ID: id}, nil
}

func (planSvcStub) List(ctx context.Context) ([]plandomain.Plan, error) {
	return []plandomain.Plan{{ID: 2}}, nil
}

type cycleSvcStub struct{}

func (cycleSvcStub) Create(ctx context.Context, req cycledomain.CreateCycleRequest) (cycledomain.BillingCycle, error) {
	return cycledomain.BillingCycle{ID: 3, CustomerID: req.CustomerID}, nil
}

func (cycleSvcStub) ListByCustomer(ctx context.Context, customerID snowflake.ID) ([]cycledomain.BillingCycle, error) {
	return []cycledomain.BillingCycle{{ID: 3, CustomerID: customerID}}, nil
}

type ledgerSvcStub struct{}

func (ledgerSvcStub) Create(ctx context.Context, invoice ledgerdomain.Invoice) (ledgerdomain.Invoice, error) {
	invoice.ID = 4
	return invoice, nil
}

func (ledgerSvcStub) List(ctx context.Context, req ledgerdomain.ListInvoiceRequest) ([]ledgerdomain.Invoice, error) {
	return []ledgerdomain.Invoice{{ID: 4}}, nil
}

func (ledgerSvcStub) BulkUpdate(ctx context.Context, updated []ledgerdomain.Invoice) ([]ledgerdomain.Invoice, error) {
	return updated, nil
}

func (ledgerSvcStub) UpdateByID(ctx context.Context, id snowflake.ID, req ledgerdomain.UpdateInvoiceRequest) (ledgerdomain.Invoice, error) {
	return ledgerdomain.Invoice{ID: id, Status: req.Status}, nil
}

func setupServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := NewServer(ServerParams{
		Gin:         NewEngine(zap.NewNop()),
		Cfg:         config.Config{},
		CustomerSvc: customerSvcStub{},
		PlanSvc:     planSvcStub{},
		CycleSvc:    cycleSvcStub{},
		LedgerSvc:   ledgerSvcStub{},
	})
	srv.RegisterCustomerRoutes()
	srv.RegisterPlanRoutes()
	srv.RegisterCycleRoutes()
	srv.RegisterInvoiceRoutes()
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateEndpointsReturnCreated(t *testing.T) {
	srv := setupServer(t)

	cases := []struct {
		name string
		path string
		body string
	}{
		{"customer", "/v1/customers", `{"name":"Ada","email":"ada@example.com"}`},
		{"plan", "/v1/plans", `{"name":"basic","price":30,"billing_cycle":"monthly"}`},
		{"cycle", "/v1/billing-cycles", `{"customer_id":1,"plan_id":2,"start_date":"2024-03-01T00:00:00Z","end_date":"2024-03-31T00:00:00Z","cycle_type":"monthly"}`},
		{"invoice", "/v1/invoices", `{"customer_id":1,"amount_due":30,"due_date":"2024-03-31T00:00:00Z","status":"pending"}`},
	}
	for _, tc := range cases {
		rec := doJSON(t, srv, http.MethodPost, tc.path, tc.body)
		require.Equal(t, http.StatusCreated, rec.Code, tc.name)
		assert.Contains(t, rec.Body.String(), `"data"`, tc.name)
	}
}

func TestListEndpointsReturnOK(t *testing.T) {
	srv := setupServer(t)

	for _, path := range []string{"/v1/customers", "/v1/plans", "/v1/invoices"} {
		rec := doJSON(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
)

func (s *Server) RegisterInvoiceRoutes() {
	if s.ledgerSvc == nil {
		return
	}
	v1 := s.engine.Group("/v1")
	v1.POST("/invoices", s.CreateInvoice)
	v1.GET("/invoices", s.ListInvoices)
	v1.PUT("/invoices", s.BulkUpdateInvoices)
	v1.PATCH("/invoices/:id", s.UpdateInvoiceByID)
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var invoice ledgerdomain.Invoice
	if err := c.ShouldBindJSON(&invoice); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.ledgerSvc.Create(c.Request.Context(), invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req ledgerdomain.ListInvoiceRequest
	if raw := strings.TrimSpace(c.Query("customer_id")); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			AbortWithError(c, ledgerdomain.ErrInvalidCustomer)
			return
		}
		req.CustomerID = id
	}

	resp, err := s.ledgerSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type bulkUpdateInvoicesRequest struct {
	Invoices []ledgerdomain.Invoice `json:"invoices"`
}

func (s *Server) BulkUpdateInvoices(c *gin.Context) {
	var req bulkUpdateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.ledgerSvc.BulkUpdate(c.Request.Context(), req.Invoices)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoiceByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ledgerdomain.ErrNotFound)
		return
	}

	var req ledgerdomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.ledgerSvc.UpdateByID(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

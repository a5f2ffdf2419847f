package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
)

func (s *Server) RegisterCycleRoutes() {
	if s.cycleSvc == nil {
		return
	}
	v1 := s.engine.Group("/v1")
	v1.POST("/billing-cycles", s.CreateBillingCycle)
	v1.GET("/billing-cycles", s.ListBillingCycles)
}

func (s *Server) CreateBillingCycle(c *gin.Context) {
	var req cycledomain.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// The partition owns cycles, not customers. Existence is checked
	// against the directory, remote or hosted.
	if s.directory != nil {
		if _, err := s.directory.GetByID(c.Request.Context(), req.CustomerID); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	resp, err := s.cycleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListBillingCycles(c *gin.Context) {
	customerID, err := parseID(c.Query("customer_id"))
	if err != nil {
		AbortWithError(c, customerdomain.ErrInvalidID)
		return
	}

	resp, err := s.cycleSvc.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

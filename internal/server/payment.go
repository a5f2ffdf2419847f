package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/renova/internal/payment/domain"
)

func (s *Server) RegisterPaymentRoutes() {
	if s.paymentSvc == nil {
		return
	}
	v1 := s.engine.Group("/v1")
	v1.POST("/payments", s.RecordPayment)
	v1.POST("/payments/retry", s.RetryFailedPayments)
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req paymentdomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RetryFailedPayments(c *gin.Context) {
	resp, err := s.paymentSvc.RetryFailedPayments(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

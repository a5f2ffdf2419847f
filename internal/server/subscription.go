package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/smallbiznis/renova/internal/subscription/domain"
)

func (s *Server) RegisterSubscriptionRoutes() {
	if s.subscriptionSvc == nil {
		return
	}
	v1 := s.engine.Group("/v1")
	v1.POST("/subscriptions", s.AssignSubscription)
	v1.POST("/subscriptions/change-plan", s.ChangeSubscriptionPlan)
	v1.GET("/subscriptions/:customer_id", s.GetSubscription)
}

func (s *Server) AssignSubscription(c *gin.Context) {
	var req subscriptiondomain.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.subscriptionSvc.Assign(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ChangeSubscriptionPlan(c *gin.Context) {
	var req subscriptiondomain.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.subscriptionSvc.ChangePlan(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSubscription(c *gin.Context) {
	id, err := parseID(c.Param("customer_id"))
	if err != nil {
		AbortWithError(c, subscriptiondomain.ErrInvalidCustomer)
		return
	}

	resp, err := s.subscriptionSvc.GetSubscription(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

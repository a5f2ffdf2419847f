package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cycledomain "github.com/smallbiznis/renova/internal/billingcycle/domain"
	customerdomain "github.com/smallbiznis/renova/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/renova/internal/ledger/domain"
	paymentdomain "github.com/smallbiznis/renova/internal/payment/domain"
	plandomain "github.com/smallbiznis/renova/internal/plan/domain"
	"github.com/smallbiznis/renova/internal/proration"
	subscriptiondomain "github.com/smallbiznis/renova/internal/subscription/domain"
	"github.com/smallbiznis/renova/pkg/httprpc"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware turns the last gin error into the JSON envelope
// the partition clients decode. The error type is the sentinel's message,
// so a client on the far side can map it back to the same sentinel.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found"}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{Type: err.Error(), Message: "validation error"}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{Type: err.Error(), Message: "conflict"}
	case errors.Is(err, paymentdomain.ErrInsufficientPayment):
		return http.StatusPaymentRequired, errorPayload{Type: "insufficient_payment", Message: "payment amount is less than the amount due"}
	case errors.Is(err, httprpc.ErrUpstream):
		return http.StatusBadGateway, errorPayload{Type: "upstream_failure", Message: "upstream partition unavailable"}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, cycledomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidStatus),
		errors.Is(err, plandomain.ErrInvalidName),
		errors.Is(err, plandomain.ErrInvalidPrice),
		errors.Is(err, plandomain.ErrInvalidCycleType),
		errors.Is(err, plandomain.ErrInvalidID),
		errors.Is(err, cycledomain.ErrInvalidCustomer),
		errors.Is(err, cycledomain.ErrInvalidPlan),
		errors.Is(err, cycledomain.ErrInvalidCyclePeriod),
		errors.Is(err, cycledomain.ErrInvalidCycleType),
		errors.Is(err, ledgerdomain.ErrInvalidCustomer),
		errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, ledgerdomain.ErrInvalidStatus),
		errors.Is(err, ledgerdomain.ErrPaidAtMismatch),
		errors.Is(err, paymentdomain.ErrInvalidInvoiceID),
		errors.Is(err, subscriptiondomain.ErrInvalidCustomer),
		errors.Is(err, subscriptiondomain.ErrInvalidPlan),
		errors.Is(err, proration.ErrInvalidCyclePeriod),
		errors.Is(err, proration.ErrInvalidPrice):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrEmailExists),
		errors.Is(err, ledgerdomain.ErrStatusConflict),
		errors.Is(err, ledgerdomain.ErrCycleAlreadyInvoiced),
		errors.Is(err, paymentdomain.ErrAlreadyPaid),
		errors.Is(err, subscriptiondomain.ErrPlanInactive):
		return true
	default:
		return false
	}
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"registration-service/logging"
	"registration-service/models"
)

// Registrar is the slice of the service layer the HTTP surface needs.
type Registrar interface {
	IssueToken(ctx context.Context) (*models.ClientTokenResponse, error)
	Register(ctx context.Context, req models.RegistrationRequest) *models.RegisterResponse
}

// RegistrationHandler handles HTTP requests for the registration flow
type RegistrationHandler struct {
	svc Registrar
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(svc Registrar) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// ClientToken issues a payment-gateway client token. Gateway failures still
// produce a response body rather than an empty reply.
func (h *RegistrationHandler) ClientToken(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.svc.IssueToken(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.RegisterResponse{
			Success: false,
			Error: &models.ResultError{
				Kind:    models.ErrorKindGateway,
				Message: "Unable to issue client token.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register runs a submission through validate, charge and notify.
func (h *RegistrationHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.WithTraceContext(span).Warn("Malformed registration payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.RegisterResponse{
			Success: false,
			Error: &models.ResultError{
				Kind:    models.ErrorKindValidation,
				Message: "Malformed registration payload.",
			},
		})
		return
	}

	resp := h.svc.Register(ctx, req)
	c.JSON(statusFor(resp), resp)
}

// HealthCheck handles health check requests
func (h *RegistrationHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func statusFor(resp *models.RegisterResponse) int {
	if resp.Success {
		return http.StatusOK
	}
	switch resp.Error.Kind {
	case models.ErrorKindValidation:
		return http.StatusBadRequest
	case models.ErrorKindProcessor:
		return http.StatusPaymentRequired
	default:
		return http.StatusBadGateway
	}
}

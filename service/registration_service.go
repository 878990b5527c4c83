package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leekchan/accounting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"registration-service/logging"
	"registration-service/models"
	"registration-service/monitoring"
	"registration-service/validation"
)

// noResultMessage is returned when the gateway answers without a usable
// outcome; the caller still gets exactly one response.
const noResultMessage = "Payment gateway returned no result."

// Charger submits a sale to the payment gateway. A nil result with a nil
// error means the gateway produced no usable outcome.
type Charger interface {
	Sale(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error)
}

// TokenGenerator issues payment-gateway client tokens.
type TokenGenerator interface {
	GenerateClientToken(ctx context.Context) (string, error)
}

// Notifier delivers the confirmation email.
type Notifier interface {
	SendConfirmation(ctx context.Context, payload models.EmailPayload) error
}

// Service sequences a registration: validate, charge, notify, respond.
// Every path produces a response; nothing is swallowed.
type Service struct {
	tracer      trace.Tracer
	validator   *validation.Validator
	charger     Charger
	tokens      TokenGenerator
	notifier    Notifier
	callTimeout time.Duration
	money       accounting.Accounting
}

// NewService creates a registration service. A nil tracer falls back to the
// global provider, which is a no-op unless one was installed.
func NewService(tracer trace.Tracer, validator *validation.Validator, charger Charger, tokens TokenGenerator, notifier Notifier) *Service {
	if tracer == nil {
		tracer = otel.Tracer("registration-service")
	}
	return &Service{
		tracer:      tracer,
		validator:   validator,
		charger:     charger,
		tokens:      tokens,
		notifier:    notifier,
		callTimeout: 10 * time.Second,
		money:       accounting.Accounting{Symbol: "$", Precision: 2},
	}
}

// BuildChargeRequest maps a validated registration onto the gateway's sale
// shape. It performs no validation and always submits for settlement.
func BuildChargeRequest(reg models.Registration) models.ChargeRequest {
	return models.ChargeRequest{
		Amount:             reg.TicketInfo.TotalAmount,
		PaymentMethodNonce: reg.Nonce,
		Customer: models.Customer{
			FirstName: reg.PurchaserInfo.FirstName,
			LastName:  reg.PurchaserInfo.LastName,
			Phone:     reg.PurchaserInfo.Phone,
			Email:     reg.PurchaserInfo.Email,
		},
		Billing: models.BillingAddress{
			StreetAddress: reg.PurchaserInfo.Address.StreetAddress,
			Locality:      reg.PurchaserInfo.Address.City,
			Region:        reg.PurchaserInfo.Address.State,
			PostalCode:    reg.PurchaserInfo.Address.Zip,
		},
		Options:      models.ChargeOptions{SubmitForSettlement: true},
		CustomFields: models.ChargeCustomFields{TicketCount: reg.TicketInfo.Quantity},
	}
}

// IssueToken requests a client token from the gateway. Failures are returned
// to the caller instead of being dropped.
func (s *Service) IssueToken(ctx context.Context) (*models.ClientTokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "issue_client_token")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	token, err := s.tokens.GenerateClientToken(ctx)
	if err != nil {
		logging.WithTraceContext(span).Error("Client token generation failed", zap.Error(err))
		span.SetAttributes(attribute.String("token.status", "failed"))
		return nil, err
	}

	span.SetAttributes(attribute.String("token.status", "issued"))
	return &models.ClientTokenResponse{ClientToken: token}, nil
}

// Register runs the full flow for one submission. It always returns a
// response: a validation failure short-circuits before the gateway is
// contacted, a failed charge reports the gateway's reason, and an email
// failure never demotes a successful charge.
func (s *Service) Register(ctx context.Context, req models.RegistrationRequest) *models.RegisterResponse {
	ctx, span := s.tracer.Start(ctx, "process_registration")
	defer span.End()

	logger := logging.WithTraceContext(span).With(
		zap.String("request_id", uuid.NewString()),
	)

	reg, verr := s.validator.Validate(req)
	if verr != nil {
		logger.Info("Registration rejected by validation",
			zap.Strings("field_errors", verr.Fields),
		)
		return s.fail(ctx, span, models.ErrorKindValidation, verr.Error())
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	result, err := s.charger.Sale(chargeCtx, BuildChargeRequest(reg))
	if err != nil {
		logger.Error("Charge submission failed", zap.Error(err))
		return s.fail(ctx, span, models.ErrorKindGateway, err.Error())
	}
	if result == nil || (result.Success && result.Transaction == nil) {
		logger.Error("Charge resolved without a usable outcome")
		return s.fail(ctx, span, models.ErrorKindProcessor, noResultMessage)
	}
	if !result.Success {
		logger.Info("Charge declined by processor", zap.String("reason", result.Message))
		return s.fail(ctx, span, models.ErrorKindProcessor, result.Message)
	}

	s.recordOutcome(ctx, "success")
	if monitoring.ChargeAmount != nil {
		monitoring.ChargeAmount.Record(ctx, result.Transaction.Amount)
	}
	span.SetAttributes(
		attribute.String("charge.transaction_id", result.Transaction.ID),
		attribute.String("registration.status", "success"),
	)
	logger.Info("Charge settled",
		zap.String("transaction_id", result.Transaction.ID),
		zap.Float64("amount", result.Transaction.Amount),
	)

	payload := models.EmailPayload{
		PurchaserFirstName: reg.PurchaserInfo.FirstName,
		PurchaserEmail:     reg.PurchaserInfo.Email,
		TotalAmount:        s.money.FormatMoney(reg.TicketInfo.TotalAmount),
		TransactionID:      result.Transaction.ID,
		CreditCardLast4:    result.Transaction.CreditCard.Last4,
		TicketCount:        reg.TicketInfo.Quantity,
	}

	emailCtx, cancelEmail := context.WithTimeout(ctx, s.callTimeout)
	defer cancelEmail()

	if err := s.notifier.SendConfirmation(emailCtx, payload); err != nil {
		// The charge settled, so the purchaser still gets a success even
		// though the notification was lost.
		logger.Error("Confirmation email failed after settled charge",
			zap.Error(err),
			zap.String("transaction_id", result.Transaction.ID),
		)
		return &models.RegisterResponse{
			Success:       true,
			TransactionID: result.Transaction.ID,
		}
	}

	return &models.RegisterResponse{
		Success:         true,
		TransactionID:   result.Transaction.ID,
		CreditCardLast4: result.Transaction.CreditCard.Last4,
		TotalAmount:     result.Transaction.Amount,
	}
}

func (s *Service) fail(ctx context.Context, span trace.Span, kind, message string) *models.RegisterResponse {
	s.recordOutcome(ctx, kind)
	span.SetAttributes(attribute.String("registration.status", kind))
	return &models.RegisterResponse{
		Success: false,
		Error:   &models.ResultError{Kind: kind, Message: message},
	}
}

func (s *Service) recordOutcome(ctx context.Context, status string) {
	if monitoring.RegistrationCounter == nil {
		return
	}
	monitoring.RegistrationCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

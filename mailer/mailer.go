// Package mailer sends the ticket confirmation email through SendGrid using
// a fixed template with {{ }} substitution markers.
package mailer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"registration-service/config"
	"registration-service/models"
	"registration-service/monitoring"
)

const defaultHost = "https://api.sendgrid.com"

// Mailer sends templated confirmation emails.
type Mailer struct {
	cfg  config.MailConfig
	host string
}

// New returns a Mailer using the real SendGrid API host.
func New(cfg config.MailConfig) *Mailer {
	return NewWithHost(cfg, defaultHost)
}

// NewWithHost returns a Mailer pointed at an explicit API host.
func NewWithHost(cfg config.MailConfig, host string) *Mailer {
	return &Mailer{cfg: cfg, host: host}
}

// SendConfirmation delivers the templated confirmation to the purchaser.
// Callers treat a returned error as a notification loss, never as a
// registration failure.
func (m *Mailer) SendConfirmation(ctx context.Context, payload models.EmailPayload) error {
	msg := m.buildMessage(payload)

	request := sendgrid.GetRequest(m.cfg.APIKey, "/v3/mail/send", m.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(msg)

	start := time.Now()
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	duration := time.Since(start).Seconds()

	if err != nil {
		m.recordCall(ctx, duration, "error")
		return fmt.Errorf("send confirmation email: %w", err)
	}
	if response.StatusCode >= 400 {
		m.recordCall(ctx, duration, "failed")
		return fmt.Errorf("email service returned status %d", response.StatusCode)
	}

	m.recordCall(ctx, duration, "success")
	return nil
}

func (m *Mailer) buildMessage(payload models.EmailPayload) *mail.SGMailV3 {
	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail("", m.cfg.Sender))
	msg.SetTemplateID(m.cfg.TemplateID)
	msg.AddContent(
		mail.NewContent("text/plain", " "),
		mail.NewContent("text/html", " "),
	)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(payload.PurchaserFirstName, payload.PurchaserEmail))
	p.Subject = m.cfg.Subject
	p.SetSubstitution("{{purchaserFirstName}}", payload.PurchaserFirstName)
	p.SetSubstitution("{{totalAmount}}", payload.TotalAmount)
	p.SetSubstitution("{{transactionId}}", payload.TransactionID)
	p.SetSubstitution("{{creditCardLast4}}", payload.CreditCardLast4)
	p.SetSubstitution("{{ticketCount}}", strconv.Itoa(payload.TicketCount))
	msg.AddPersonalizations(p)

	return msg
}

func (m *Mailer) recordCall(ctx context.Context, duration float64, status string) {
	if monitoring.EmailCounter != nil {
		monitoring.EmailCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", status)),
		)
	}
	if monitoring.ExternalCallDuration != nil {
		monitoring.ExternalCallDuration.Record(ctx, duration,
			metric.WithAttributes(
				attribute.String("target", "email-service"),
				attribute.String("status", status),
			),
		)
	}
}

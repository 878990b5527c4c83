// Package gateway is the payment-gateway client. It covers the two calls the
// registration flow needs: issuing a client token and submitting a sale.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"registration-service/config"
	"registration-service/models"
	"registration-service/monitoring"
)

const (
	productionHost = "https://payments.example.com"
	sandboxHost    = "https://sandbox.payments.example.com"
)

// Client talks to the payment gateway for one merchant account.
type Client struct {
	cfg     config.GatewayConfig
	baseURL string
	http    *http.Client
}

// New selects the production host only when the configured environment is
// exactly "production"; everything else goes to sandbox.
func New(cfg config.GatewayConfig) *Client {
	host := sandboxHost
	if cfg.Environment == "production" {
		host = productionHost
	}
	return NewWithBaseURL(cfg, host)
}

// NewWithBaseURL builds a client against an explicit gateway host.
func NewWithBaseURL(cfg config.GatewayConfig, baseURL string) *Client {
	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

type clientTokenRequest struct {
	MerchantAccountID string `json:"merchant_account_id,omitempty"`
}

type clientTokenResponse struct {
	ClientToken string `json:"client_token"`
}

// GenerateClientToken asks the gateway for a short-lived token the front-end
// uses to collect a payment method.
func (c *Client) GenerateClientToken(ctx context.Context) (string, error) {
	var out clientTokenResponse
	err := c.post(ctx, "client_tokens", clientTokenRequest{MerchantAccountID: c.cfg.MerchantAccountID}, &out)
	if err != nil {
		return "", fmt.Errorf("generate client token: %w", err)
	}
	if out.ClientToken == "" {
		return "", errors.New("generate client token: gateway returned an empty token")
	}
	return out.ClientToken, nil
}

// Sale submits a charge. A nil result with a nil error means the gateway
// answered without a usable outcome; callers must map that to a processor
// failure rather than dropping the request.
func (c *Client) Sale(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("external.service", "payment-gateway"),
		attribute.Float64("charge.amount", req.Amount),
	)

	var result models.ChargeResult
	err := c.post(ctx, "transactions", req, &result)
	if errors.Is(err, errEmptyOutcome) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("submit sale: %w", err)
	}
	return &result, nil
}

var errEmptyOutcome = errors.New("empty outcome")

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/merchants/%s/%s", c.baseURL, c.cfg.MerchantID, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.PublicKey, c.cfg.PrivateKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start).Seconds()

	if err != nil {
		c.recordCall(ctx, duration, "error")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.recordCall(ctx, duration, "failed")
		return fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	switch {
	case err == nil:
		c.recordCall(ctx, duration, "success")
		return nil
	case errors.Is(err, io.EOF):
		// 2xx with an empty body: the gateway answered without an outcome.
		c.recordCall(ctx, duration, "success")
		return errEmptyOutcome
	default:
		c.recordCall(ctx, duration, "error")
		return err
	}
}

func (c *Client) recordCall(ctx context.Context, duration float64, status string) {
	if monitoring.ExternalCallDuration == nil {
		return
	}
	monitoring.ExternalCallDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("target", "payment-gateway"),
			attribute.String("status", status),
		),
	)
}

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registration-service/config"
	"registration-service/models"
)

func testConfig() config.GatewayConfig {
	return config.GatewayConfig{
		Environment:       "sandbox",
		MerchantID:        "m-1",
		PublicKey:         "pub",
		PrivateKey:        "priv",
		MerchantAccountID: "acct-1",
	}
}

func TestGenerateClientToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/merchants/m-1/client_tokens", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "pub", user)
		assert.Equal(t, "priv", pass)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "acct-1", body["merchant_account_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"client_token":"token-abc"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)

	token, err := c.GenerateClientToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
}

func TestGenerateClientToken_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)

	_, err := c.GenerateClientToken(context.Background())

	require.Error(t, err)
}

func TestSale_Settled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchants/m-1/transactions", r.URL.Path)

		var req models.ChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "fake-valid-nonce", req.PaymentMethodNonce)
		assert.True(t, req.Options.SubmitForSettlement)
		assert.Equal(t, 2, req.CustomFields.TicketCount)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"success": true,
			"transaction": {"id": "txn-1", "amount": 50, "credit_card": {"last_4": "1234"}}
		}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)

	result, err := c.Sale(context.Background(), models.ChargeRequest{
		Amount:             50,
		PaymentMethodNonce: "fake-valid-nonce",
		Options:            models.ChargeOptions{SubmitForSettlement: true},
		CustomFields:       models.ChargeCustomFields{TicketCount: 2},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, "txn-1", result.Transaction.ID)
	assert.Equal(t, 50.0, result.Transaction.Amount)
	assert.Equal(t, "1234", result.Transaction.CreditCard.Last4)
}

func TestSale_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "Insufficient Funds"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)

	result, err := c.Sale(context.Background(), models.ChargeRequest{})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient Funds", result.Message)
}

func TestSale_EmptyOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)

	result, err := c.Sale(context.Background(), models.ChargeRequest{})

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSale_GatewayStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)

	result, err := c.Sale(context.Background(), models.ChargeRequest{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSale_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Sale(ctx, models.ChargeRequest{})

	require.Error(t, err)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registration-service/models"
)

type stubRegistrar struct {
	tokenResp    *models.ClientTokenResponse
	tokenErr     error
	registerResp *models.RegisterResponse
	gotRequest   *models.RegistrationRequest
}

func (s *stubRegistrar) IssueToken(ctx context.Context) (*models.ClientTokenResponse, error) {
	return s.tokenResp, s.tokenErr
}

func (s *stubRegistrar) Register(ctx context.Context, req models.RegistrationRequest) *models.RegisterResponse {
	s.gotRequest = &req
	return s.registerResp
}

func setupRouter(t *testing.T, stub *stubRegistrar) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewRegistrationHandler(stub)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/api/registration/client_token", h.ClientToken)
	r.POST("/api/registration", h.Register)
	return r
}

func TestClientToken_Success(t *testing.T) {
	stub := &stubRegistrar{tokenResp: &models.ClientTokenResponse{ClientToken: "token-abc"}}
	r := setupRouter(t, stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/registration/client_token", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body models.ClientTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "token-abc", body.ClientToken)
}

func TestClientToken_GatewayFailureStillResponds(t *testing.T) {
	stub := &stubRegistrar{tokenErr: errors.New("gateway down")}
	r := setupRouter(t, stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/registration/client_token", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var body models.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, models.ErrorKindGateway, body.Error.Kind)
	assert.Equal(t, "Unable to issue client token.", body.Error.Message)
}

func TestRegister_Success(t *testing.T) {
	stub := &stubRegistrar{registerResp: &models.RegisterResponse{
		Success:         true,
		TransactionID:   "txn-1",
		CreditCardLast4: "1234",
		TotalAmount:     50,
	}}
	r := setupRouter(t, stub)

	payload := `{
		"ticket_info": {"total_amount": 50, "quantity": 2},
		"purchaser_info": {
			"first_name": "Ann", "last_name": "Lee",
			"email": "ann@example.com", "phone": "555-1212",
			"address": {"street_address": "1 Main St", "city": "Boise", "state": "ID", "zip": "83701"}
		},
		"nonce": "fake-valid-nonce"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/registration", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, stub.gotRequest)
	assert.Equal(t, "Ann", stub.gotRequest.PurchaserInfo.FirstName)
	assert.Equal(t, "fake-valid-nonce", stub.gotRequest.Nonce)

	var body models.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "txn-1", body.TransactionID)
	assert.Equal(t, "1234", body.CreditCardLast4)
	assert.Equal(t, 50.0, body.TotalAmount)
}

func TestRegister_ValidationFailure(t *testing.T) {
	stub := &stubRegistrar{registerResp: &models.RegisterResponse{
		Success: false,
		Error:   &models.ResultError{Kind: models.ErrorKindValidation, Message: "Missing valid state"},
	}}
	r := setupRouter(t, stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/registration", bytes.NewBufferString(`{"nonce":"n"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body models.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Missing valid state", body.Error.Message)
}

func TestRegister_ProcessorDecline(t *testing.T) {
	stub := &stubRegistrar{registerResp: &models.RegisterResponse{
		Success: false,
		Error:   &models.ResultError{Kind: models.ErrorKindProcessor, Message: "Insufficient Funds"},
	}}
	r := setupRouter(t, stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/registration", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestRegister_MalformedBody(t *testing.T) {
	stub := &stubRegistrar{}
	r := setupRouter(t, stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/registration", bytes.NewBufferString(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, stub.gotRequest)

	var body models.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.ErrorKindValidation, body.Error.Kind)
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter(t, &stubRegistrar{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL}, nil)
}

func TestClient_Transfer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transfer", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "tok-1", r.Header.Get("Idempotency-Key"))

		var req TransferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "store@school.edu", req.ReceiverEmail)
		assert.Equal(t, "1234", req.PIN)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":     "ok",
			"transaction": map[string]interface{}{"reference": "ref-1", "status": "COMPLETED"},
		})
	})

	record, err := client.Transfer(context.Background(), "token", "tok-1", TransferRequest{
		ReceiverEmail: "store@school.edu",
		Amount:        decimal.NewFromInt(5000),
		PIN:           "1234",
	})

	require.NoError(t, err)
	assert.Equal(t, "ref-1", record.Reference)
}

func TestClient_Transfer_MissingTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})

	_, err := client.Transfer(context.Background(), "token", "tok-1", TransferRequest{})
	assert.ErrorIs(t, err, ErrServer)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "body code invalid_pin",
			status:  http.StatusBadRequest,
			body:    `{"code":"invalid_pin","message":"wrong pin"}`,
			wantErr: ErrInvalidSecret,
		},
		{
			name:    "body code otp_expired",
			status:  http.StatusBadRequest,
			body:    `{"code":"otp_expired"}`,
			wantErr: ErrOTPExpired,
		},
		{
			name:    "body code insufficient_balance",
			status:  http.StatusBadRequest,
			body:    `{"code":"insufficient_balance"}`,
			wantErr: ErrInsufficientBalance,
		},
		{
			name:    "body code beats status",
			status:  http.StatusNotFound,
			body:    `{"code":"invalid_pin"}`,
			wantErr: ErrInvalidSecret,
		},
		{
			name:    "401 without code",
			status:  http.StatusUnauthorized,
			body:    `{}`,
			wantErr: ErrInvalidSecret,
		},
		{
			name:    "expired bearer token",
			status:  http.StatusUnauthorized,
			body:    `{"code":"token_expired"}`,
			wantErr: ErrUnauthorized,
		},
		{
			name:    "404 without code",
			status:  http.StatusNotFound,
			body:    `{}`,
			wantErr: ErrRecipientNotFound,
		},
		{
			name:    "422 without code",
			status:  http.StatusUnprocessableEntity,
			body:    `{}`,
			wantErr: ErrInsufficientBalance,
		},
		{
			name:    "500",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Transfer(context.Background(), "token", "tok-1", TransferRequest{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_NetworkFailureIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, nil)
	server.Close() // connection refused from here on

	_, err := client.Transfer(context.Background(), "token", "tok-1", TransferRequest{})
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, Retryable(err))
}

func TestClient_ResolveAccount(t *testing.T) {
	t.Run("verified", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/resolveaccount", r.URL.Path)
			assert.Equal(t, "0123456789", r.URL.Query().Get("account_number"))
			assert.Equal(t, "058", r.URL.Query().Get("bank_code"))
			json.NewEncoder(w).Encode(ResolveAccountResponse{AccountName: "ADA OBI"})
		})

		name, err := client.ResolveAccount(context.Background(), "token", "0123456789", "058")
		require.NoError(t, err)
		assert.Equal(t, "ADA OBI", name)
	})

	t.Run("empty name means unresolved", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ResolveAccountResponse{})
		})

		_, err := client.ResolveAccount(context.Background(), "token", "0123456789", "058")
		assert.ErrorIs(t, err, ErrRecipientNotFound)
	})
}

func TestClient_ValidateWithdrawal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/validateaccount", r.URL.Path)
		json.NewEncoder(w).Encode(ValidateWithdrawalResponse{
			Amount: decimal.NewFromInt(5000),
			Charge: decimal.NewFromInt(100),
		})
	})

	preview, err := client.ValidateWithdrawal(context.Background(), "token", decimal.NewFromInt(5000))
	require.NoError(t, err)
	assert.Equal(t, "100", preview.Charge.String())
}

func TestClient_ListCharges(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/charges", r.URL.Path)
		w.Write([]byte(`[{"id":"c1","name":"Transfer Fee","amount":"50","active":true}]`))
	})

	charges, err := client.ListCharges(context.Background(), "token")
	require.NoError(t, err)
	require.Len(t, charges, 1)
	assert.Equal(t, "Transfer Fee", charges[0].Name)
	assert.True(t, charges[0].Active)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(ErrNetwork))
	assert.False(t, Retryable(ErrInvalidSecret))
	assert.False(t, Retryable(ErrServer))
	assert.False(t, Retryable(nil))
}

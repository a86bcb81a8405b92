package wallet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pethealth-commerce/internal/config"
)

func newTestClient(baseURL string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Wallet: config.WalletConfig{
			BaseURL: baseURL,
			Timeout: 2 * time.Second,
		},
	}
	return NewClient(cfg, log)
}

func TestGetBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/Wallets/getWalletByUserId/42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]float64{"balance": 23.48})
	}))
	defer srv.Close()

	balance, err := newTestClient(srv.URL).GetBalance(context.Background(), 42)
	require.NoError(t, err)
	assert.InDelta(t, 23.48, balance, 0.001)
}

func TestGetBalance_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetBalance(context.Background(), 42)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestGetBalance_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).GetBalance(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeductAmount(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/Wallets/deductAmount/42", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotKey = r.Header.Get("X-Idempotency-Key")

		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 23.48, body["amount"], 0.001)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).DeductAmount(context.Background(), 42, 2348, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, "attempt-1", gotKey)
}

func TestDeductAmount_InsufficientFunds(t *testing.T) {
	for _, status := range []int{http.StatusPaymentRequired, http.StatusConflict} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		err := newTestClient(srv.URL).DeductAmount(context.Background(), 42, 100, "attempt-1")
		assert.ErrorIs(t, err, ErrInsufficientFunds, "status %d", status)
		srv.Close()
	}
}

func TestDeductAmount_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).DeductAmount(context.Background(), 42, 100, "attempt-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientFunds)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestDeductAmount_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := newTestClient(srv.URL).DeductAmount(context.Background(), 42, 100, "attempt-1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

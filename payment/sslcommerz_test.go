package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dinedash-server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway(t *testing.T, h http.HandlerFunc) *SSLCommerz {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewSSLCommerz(config.PaymentSettings{
		StoreID:       "store",
		StorePassword: "secret",
		Currency:      "BDT",
		Timeout:       5 * time.Second,
	}).WithEndpoint(srv.URL)
}

func TestInitSessionReturnsGatewayURL(t *testing.T) {
	g := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "store", r.PostForm.Get("store_id"))
		assert.Equal(t, "secret", r.PostForm.Get("store_passwd"))
		assert.Equal(t, "1250", r.PostForm.Get("total_amount"))
		assert.Equal(t, "BDT", r.PostForm.Get("currency"))
		assert.Equal(t, "tran-1", r.PostForm.Get("tran_id"))
		assert.Equal(t, "https://api.example.com/payment/success/tran-1/rand-1", r.PostForm.Get("success_url"))
		assert.Equal(t, "Dhaka", r.PostForm.Get("cus_add1"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":         "SUCCESS",
			"GatewayPageURL": "https://sandbox.sslcommerz.com/pay/abc",
		})
	})

	url, err := g.InitSession(context.Background(), Session{
		TransactionID: "tran-1",
		Amount:        1250,
		CustomerName:  "A",
		CustomerEmail: "a@example.com",
		SuccessURL:    "https://api.example.com/payment/success/tran-1/rand-1",
		FailURL:       "https://api.example.com/payment/failed",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.sslcommerz.com/pay/abc", url)
}

func TestInitSessionFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  error
	}{
		{
			name: "gateway rejects",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "FAILED", "failedreason": "Store Credential Error"})
			},
			target: ErrSessionRejected,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGateway(t, tt.handler)
			_, err := g.InitSession(context.Background(), Session{TransactionID: "t", Amount: 1})
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

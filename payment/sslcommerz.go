// Package payment opens SSLCommerz hosted checkout sessions.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dinedash-server/config"
	"dinedash-server/metrics"
)

const (
	sandboxURL = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	liveURL    = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"
)

var ErrSessionRejected = errors.New("payment session rejected")

// Session describes one checkout. Callback URLs are absolute.
type Session struct {
	TransactionID string
	Amount        int
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CustomerAddr  string
	SuccessURL    string
	FailURL       string
	CancelURL     string
}

// Gateway starts hosted checkout sessions and returns the redirect URL.
type Gateway interface {
	InitSession(ctx context.Context, s Session) (string, error)
}

type SSLCommerz struct {
	storeID  string
	password string
	currency string
	endpoint string
	client   *http.Client
}

var _ Gateway = (*SSLCommerz)(nil)

func NewSSLCommerz(cfg config.PaymentSettings) *SSLCommerz {
	endpoint := sandboxURL
	if cfg.Live {
		endpoint = liveURL
	}
	return &SSLCommerz{
		storeID:  cfg.StoreID,
		password: cfg.StorePassword,
		currency: cfg.Currency,
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// WithEndpoint points the adapter at another session API, e.g. a test server.
func (g *SSLCommerz) WithEndpoint(endpoint string) *SSLCommerz {
	g.endpoint = endpoint
	return g
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

func (g *SSLCommerz) InitSession(ctx context.Context, s Session) (string, error) {
	form := g.form(s)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("sslcommerz: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sslcommerz: init session: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveGateway(start, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sslcommerz: init session: unexpected status %d", resp.StatusCode)
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("sslcommerz: decode response: %w", err)
	}
	if !strings.EqualFold(body.Status, "SUCCESS") || body.GatewayPageURL == "" {
		return "", fmt.Errorf("%w: %s", ErrSessionRejected, body.FailedReason)
	}
	return body.GatewayPageURL, nil
}

func (g *SSLCommerz) form(s Session) url.Values {
	addr := s.CustomerAddr
	if addr == "" {
		addr = "Dhaka"
	}
	phone := s.CustomerPhone
	if phone == "" {
		phone = "01711111111"
	}
	return url.Values{
		"store_id":         {g.storeID},
		"store_passwd":     {g.password},
		"total_amount":     {strconv.Itoa(s.Amount)},
		"currency":         {g.currency},
		"tran_id":          {s.TransactionID},
		"success_url":      {s.SuccessURL},
		"fail_url":         {s.FailURL},
		"cancel_url":       {s.CancelURL},
		"shipping_method":  {"Courier"},
		"product_name":     {"Food"},
		"product_category": {"Food"},
		"product_profile":  {"general"},
		"cus_name":         {s.CustomerName},
		"cus_email":        {s.CustomerEmail},
		"cus_add1":         {addr},
		"cus_city":         {"Dhaka"},
		"cus_postcode":     {"1000"},
		"cus_country":      {"Bangladesh"},
		"cus_phone":        {phone},
		"ship_name":        {s.CustomerName},
		"ship_add1":        {addr},
		"ship_city":        {"Dhaka"},
		"ship_postcode":    {"1000"},
		"ship_country":     {"Bangladesh"},
	}
}

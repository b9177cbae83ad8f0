package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"dinedash-server/config"
	"dinedash-server/handlers"
	"dinedash-server/models"
	"dinedash-server/payment"
	"dinedash-server/routes"
	"dinedash-server/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) InitSession(ctx context.Context, s payment.Session) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

// fakeNotifier records what would have been mailed.
type fakeNotifier struct {
	mu           sync.Mutex
	invoices     []string
	instructions []string
	rejections   []string
	codes        map[string][]string
}

func (f *fakeNotifier) SendInvoice(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices = append(f.invoices, o.ID)
	return nil
}

func (f *fakeNotifier) SendPartnerInstruction(_ context.Context, email, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instructions = append(f.instructions, "partner:"+email)
	return nil
}

func (f *fakeNotifier) SendRiderInstruction(_ context.Context, email, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instructions = append(f.instructions, "rider:"+email)
	return nil
}

func (f *fakeNotifier) SendRejection(_ context.Context, email, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejections = append(f.rejections, email)
	return nil
}

func (f *fakeNotifier) SendVerificationCode(_ context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[email] = append(f.codes[email], code)
	return nil
}

func (f *fakeNotifier) lastCode(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	codes := f.codes[email]
	if len(codes) == 0 {
		return ""
	}
	return codes[len(codes)-1]
}

type testServer struct {
	router   *gin.Engine
	store    *store.Store
	gateway  *mockGateway
	notifier *fakeNotifier
	cfg      *config.Settings
}

func testSettings() *config.Settings {
	return &config.Settings{
		App:  config.AppSettings{Name: "dinedash-server", Env: "test"},
		HTTP: config.HTTPSettings{Port: "5001"},
		Payment: config.PaymentSettings{
			Currency:  "BDT",
			ServerURL: "https://api.dinedash.test",
			ClientURL: "https://dine-dash-client.web.app",
			Timeout:   time.Second,
		},
		Auth: config.AuthSettings{JWTSecret: "test-secret-key", TokenTTL: time.Hour},
	}
}

func newTestServer(t *testing.T, tweak ...func(*config.Settings)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testSettings()
	for _, f := range tweak {
		f(cfg)
	}

	s, err := store.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })

	ts := &testServer{
		router:   gin.New(),
		store:    s,
		gateway:  &mockGateway{},
		notifier: &fakeNotifier{codes: map[string][]string{}},
		cfg:      cfg,
	}
	h := handlers.New(handlers.Deps{
		Store:    s,
		Gateway:  ts.gateway,
		Notifier: ts.notifier,
		Config:   cfg,
	})
	routes.SetupRoutes(ts.router, h, cfg)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// placeOrder posts a cash order with one regular and one custom item and
// returns the server ids of both items.
func (ts *testServer) placeOrder(t *testing.T, email, region string, seq int) (regularID, customID string) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/orders", map[string]any{
		"email":         email,
		"name":          "Customer",
		"address":       "House 12, Road 5",
		"phone":         "01711111111",
		"region":        region,
		"paymentMethod": "Cash On Delivery",
		"orderTotal":    750,
		"order":         seq,
		"cartFood": []map[string]any{
			{"_id": "food-kacchi", "restaurant": "Kacchi Bhai", "totalPrice": "450", "name": "Kacchi"},
		},
		"burger": []map[string]any{
			{"_id": "burger-classic", "restaurant": "Burger Lab", "totalPrice": 300},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	orders, err := ts.store.OrdersByEmail(context.Background(), email)
	require.NoError(t, err)
	for _, o := range orders {
		if o.Sequence == int64(seq) {
			return o.CartFood[0].ID, o.Burger[0].ID
		}
	}
	t.Fatalf("order %d of %s not found", seq, email)
	return "", ""
}

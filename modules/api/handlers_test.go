package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/3marnadates-alt/3marna.art/domain/form"
	"github.com/3marnadates-alt/3marna.art/domain/order"
	"github.com/3marnadates-alt/3marna.art/modules/admin"
	"github.com/3marnadates-alt/3marna.art/modules/assistant"
	cartmod "github.com/3marnadates-alt/3marna.art/modules/cart"
	catalogmod "github.com/3marnadates-alt/3marna.art/modules/catalog"
	checkoutmod "github.com/3marnadates-alt/3marna.art/modules/checkout"
	"github.com/3marnadates-alt/3marna.art/modules/consent"
	"github.com/3marnadates-alt/3marna.art/modules/contact"
	"github.com/3marnadates-alt/3marna.art/modules/formrelay"
	"github.com/3marnadates-alt/3marna.art/modules/kvstore"
	"github.com/3marnadates-alt/3marna.art/modules/orders"
	"github.com/3marnadates-alt/3marna.art/modules/ratelimit"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	fiberredis "github.com/gofiber/storage/redis/v3"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

const (
	testSession = "7b1f3c2e-8a4d-4e5f-9b6a-0c1d2e3f4a5b"
	validToken  = "valid-admin-token"
)

type fakeRelay struct {
	result formrelay.Result
	forms  []form.Fields
}

func (r *fakeRelay) Submit(_ context.Context, fields form.Fields) formrelay.Result {
	r.forms = append(r.forms, fields)
	return r.result
}

type fakeAdmin struct{}

func (fakeAdmin) Login(_ context.Context, password string) (*admin.Session, error) {
	if password != admin.DefaultPassword {
		return nil, admin.ErrInvalidPassword
	}
	return &admin.Session{AccessToken: validToken, ExpiresIn: 3600, TokenType: "Bearer"}, nil
}

func (fakeAdmin) ValidateToken(_ context.Context, token string) error {
	if token != validToken {
		return admin.ErrInvalidToken
	}
	return nil
}

type fakeGenerator struct {
	mu       sync.Mutex
	text     string
	err      error
	contents [][]*genai.Content
}

func (g *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content,
	_ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.mu.Lock()
	g.contents = append(g.contents, contents)
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: g.text}}},
		}},
	}, nil
}

type testEnv struct {
	app     *fiber.App
	relay   *fakeRelay
	gen     *fakeGenerator
	catalog *catalogmod.Service
	orders  *orders.Repository
	mr      *miniredis.Miniredis
}

func newTestStore(t *testing.T) (*miniredis.Miniredis, kvstore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	s := fiberredis.New(fiberredis.Config{Host: mr.Host(), Port: port})
	store := kvstore.NewStore(s, "test:")
	t.Cleanup(func() { store.Close() })
	return mr, store
}

func newTestLedger(t *testing.T) *orders.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, orders.Migrate(db))
	return orders.NewRepository(db)
}

func setupTestEnv(t *testing.T, limiter *ratelimit.Middleware, limit ratelimit.Config) *testEnv {
	t.Helper()
	log := &mockLogger{}

	mr, store := newTestStore(t)
	catalogSvc := catalogmod.NewService(store, log)
	carts := cartmod.NewService(catalogSvc, time.Hour)
	relay := &fakeRelay{result: formrelay.Result{Outcome: formrelay.OutcomeAccepted, StatusCode: http.StatusOK}}
	numbers, err := order.NewNumberGenerator()
	require.NoError(t, err)
	gen := &fakeGenerator{text: "أهلاً بك في تمور العمارنة"}
	ledger := newTestLedger(t)

	h := NewHandlers(Deps{
		Catalog:   catalogSvc,
		Carts:     carts,
		Checkout:  checkoutmod.NewService(catalogSvc, carts, relay, numbers, nil, log),
		Contact:   contact.NewService(relay, log),
		Assistant: assistant.NewService(gen, "", catalogSvc, log),
		Consent:   consent.NewService(store, consent.DefaultTTL),
		Orders:    ledger,
		Admin:     fakeAdmin{},
	}, log)

	return &testEnv{
		app:     NewApp(h, limiter, limit),
		relay:   relay,
		gen:     gen,
		catalog: catalogSvc,
		orders:  ledger,
		mr:      mr,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func session() map[string]string {
	return map[string]string{SessionHeader: testSession}
}

func adminAuth() map[string]string {
	return map[string]string{"Authorization": "Bearer " + validToken}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decode[HealthResponse](t, resp).Status)
}

func TestProducts(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Total int `json:"total"`
	}](t, resp)
	assert.Equal(t, len(env.catalog.ListProducts()), list.Total)

	resp = env.do(t, http.MethodGet, "/api/v1/products/1", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/products/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/products/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLocalities(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodGet, "/api/v1/localities", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Localities []LocalityResponse `json:"localities"`
		Default    string             `json:"default"`
	}](t, resp)
	assert.NotEmpty(t, body.Localities)
	assert.NotEmpty(t, body.Default)
}

func TestSessionMiddleware_IssuesSession(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodGet, "/api/v1/cart", nil, map[string]string{SessionHeader: "not-a-uuid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	issued := resp.Header.Get(SessionHeader)
	assert.NotEqual(t, "not-a-uuid", issued)
	assert.Len(t, issued, 36)

	resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, session())
	assert.Equal(t, testSession, resp.Header.Get(SessionHeader))
}

func TestCartFlow(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", AddToCartRequest{ProductID: 1}, session())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/v1/cart/items", AddToCartRequest{ProductID: 1}, session())
	view := decode[cartmod.View](t, resp)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, 370.0, view.TotalPrice)

	resp = env.do(t, http.MethodPost, "/api/v1/cart/items", AddToCartRequest{ProductID: 999}, session())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/cart/items/1", UpdateQuantityRequest{Quantity: 5}, session())
	assert.Equal(t, 5, decode[cartmod.View](t, resp).TotalItems)

	resp = env.do(t, http.MethodPut, "/api/v1/cart/items/1", UpdateQuantityRequest{Quantity: 0}, session())
	assert.Empty(t, decode[cartmod.View](t, resp).Items)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddToCartRequest{ProductID: 2}, session())
	resp = env.do(t, http.MethodDelete, "/api/v1/cart/items/2", nil, session())
	assert.Empty(t, decode[cartmod.View](t, resp).Items)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddToCartRequest{ProductID: 3}, session())
	resp = env.do(t, http.MethodDelete, "/api/v1/cart", nil, session())
	assert.Zero(t, decode[cartmod.View](t, resp).TotalItems)
}

func TestQuote(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())
	env.do(t, http.MethodPost, "/api/v1/cart/items", AddToCartRequest{ProductID: 1}, session())

	resp := env.do(t, http.MethodPost, "/api/v1/checkout/quote", nil, session())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	quote := decode[QuoteResponse](t, resp)
	assert.Equal(t, 185.0, quote.Quote.Subtotal)
	assert.Equal(t, 1, quote.Items)
	assert.Equal(t, quote.Quote.Subtotal+quote.Quote.DeliveryFee-quote.Quote.DiscountAmount, quote.Quote.FinalTotal)
	assert.NotEmpty(t, quote.Formatted.Total)
}

func validCustomer() order.Customer {
	return order.Customer{
		Name:    "أحمد علي",
		Phone:   "01012345678",
		City:    "القاهرة",
		Address: "شارع التحرير",
	}
}

func TestPlaceOrder(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodPost, "/api/v1/checkout", validCustomer(), session())
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddToCartRequest{ProductID: 1}, session())

	resp = env.do(t, http.MethodPost, "/api/v1/checkout", order.Customer{Name: "x"}, session())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/checkout", validCustomer(), session())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := decode[checkoutmod.Result](t, resp)
	require.True(t, result.Success)
	require.NotNil(t, result.Order)
	assert.Len(t, result.Order.Number, 5)
	assert.Len(t, env.relay.forms, 1)

	resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, session())
	assert.Empty(t, decode[cartmod.View](t, resp).Items)
}

func TestPlaceOrder_RelayFailureKeepsCart(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())
	env.relay.result = formrelay.Result{Outcome: formrelay.OutcomeUnreachable, Err: errors.New("dial tcp: timeout")}
	env.do(t, http.MethodPost, "/api/v1/cart/items", AddToCartRequest{ProductID: 1}, session())

	resp := env.do(t, http.MethodPost, "/api/v1/checkout", validCustomer(), session())
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	result := decode[checkoutmod.Result](t, resp)
	assert.False(t, result.Success)
	assert.Equal(t, checkoutmod.MsgSubmitNetwork, result.ErrorReason)

	resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, session())
	assert.Len(t, decode[cartmod.View](t, resp).Items, 1)
}

func TestContact(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	req := contact.Request{Name: "منى", Email: "mona@example.com", Phone: "0100", Message: "هل يوجد توصيل للإسكندرية؟"}
	resp := env.do(t, http.MethodPost, "/api/v1/contact", req, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.relay.forms, 1)

	req.Email = "not-an-email"
	resp = env.do(t, http.MethodPost, "/api/v1/contact", req, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req.Email = "mona@example.com"
	env.relay.result = formrelay.Result{Outcome: formrelay.OutcomeRejected, StatusCode: http.StatusUnprocessableEntity}
	resp = env.do(t, http.MethodPost, "/api/v1/contact", req, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestConsent(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodGet, "/api/v1/consent", nil, session())
	assert.False(t, decode[ConsentResponse](t, resp).CookieConsent)

	resp = env.do(t, http.MethodPost, "/api/v1/consent", nil, session())
	assert.True(t, decode[ConsentResponse](t, resp).CookieConsent)

	resp = env.do(t, http.MethodGet, "/api/v1/consent", nil, session())
	assert.True(t, decode[ConsentResponse](t, resp).CookieConsent)
}

func TestAssistant(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodPost, "/api/v1/assistant/chat", assistant.ChatRequest{Message: "بكام العجوة؟"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, env.gen.text, decode[ChatResponse](t, resp).Reply)

	resp = env.do(t, http.MethodPost, "/api/v1/assistant/chat", assistant.ChatRequest{Message: "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/assistant/recipe",
		assistant.RecipeRequest{Difficulty: "extreme"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env.gen.err = errors.New("quota exceeded")
	resp = env.do(t, http.MethodPost, "/api/v1/assistant/recipe", nil, nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, assistant.ErrRecipeFailed.Error(), decode[ErrorResponse](t, resp).Message)
}

func TestAdminLogin(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	resp := env.do(t, http.MethodPost, "/api/v1/admin/login", AdminLoginRequest{Password: "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, admin.ErrInvalidPassword.Error(), decode[ErrorResponse](t, resp).Message)

	resp = env.do(t, http.MethodPost, "/api/v1/admin/login", AdminLoginRequest{Password: admin.DefaultPassword}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, validToken, decode[AdminLoginResponse](t, resp).AccessToken)
}

func TestAdminAuthMiddleware(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing header", nil},
		{"wrong scheme", map[string]string{"Authorization": "Basic abc"}},
		{"invalid token", map[string]string{"Authorization": "Bearer nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, "/api/v1/admin/orders", nil, tt.headers)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAdminProducts(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())
	before := len(env.catalog.ListProducts())

	in := map[string]any{
		"name":        "تمر برحي",
		"description": "طري وحلو",
		"price":       "160 ج.م / كجم",
		"image":       "https://example.com/barhi.jpg",
		"category":    "daily",
	}
	resp := env.do(t, http.MethodPost, "/api/v1/admin/products", in, adminAuth())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, env.catalog.ListProducts(), before+1)

	resp = env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]any{"name": "x"}, adminAuth())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	in["price"] = "170 ج.م / كجم"
	resp = env.do(t, http.MethodPut, "/api/v1/admin/products/1", in, adminAuth())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p, ok := env.catalog.Product(1)
	require.True(t, ok)
	assert.Equal(t, "170 ج.م / كجم", p.Price)

	resp = env.do(t, http.MethodPut, "/api/v1/admin/products/999", in, adminAuth())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/v1/admin/products/1", nil, adminAuth())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/v1/admin/products/1", nil, adminAuth())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.True(t, env.mr.Exists("test:"+catalogmod.KeyProducts))
}

func TestAdminSettings(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())

	rates := env.catalog.Settings().DeliveryRates
	rates.Cairo = 55
	resp := env.do(t, http.MethodPut, "/api/v1/admin/settings", map[string]any{
		"deliveryRates":      rates,
		"discountPercentage": 10,
		"isDiscountActive":   true,
	}, adminAuth())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settings := env.catalog.Settings()
	assert.True(t, settings.IsDiscountActive)
	assert.Equal(t, 10.0, settings.DiscountPercentage)
	assert.Equal(t, 55.0, settings.DeliveryRates.Cairo)
	assert.True(t, env.mr.Exists("test:"+catalogmod.KeySettings))

	tests := []struct {
		name string
		body map[string]any
	}{
		{"partial body", map[string]any{"isDiscountActive": false, "discountPercentage": 10}},
		{"out of range", map[string]any{"deliveryRates": rates, "discountPercentage": 150, "isDiscountActive": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPut, "/api/v1/admin/settings", tt.body, adminAuth())
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, settings, env.catalog.Settings())
		})
	}
}

func TestAdminOrders(t *testing.T) {
	env := setupTestEnv(t, nil, ratelimit.DefaultConfig())
	ctx := context.Background()

	for i, n := range []string{"10001", "10002", "10003"} {
		rec := orders.NewOrderRecord(order.OrderPlacedEvent{
			Number:   n,
			Customer: validCustomer(),
			Quote:    order.Quote{City: "القاهرة", Subtotal: 185, FinalTotal: 235},
			PlacedAt: time.Now().Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, env.orders.Create(ctx, rec))
	}

	resp := env.do(t, http.MethodGet, "/api/v1/admin/orders?page=1&page_size=2", nil, adminAuth())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[orders.Page](t, resp)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, "10003", page.Orders[0].Number)

	resp = env.do(t, http.MethodGet, "/api/v1/admin/orders/10002", nil, adminAuth())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/admin/orders/99999", nil, adminAuth())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/admin/orders/12ab", nil, adminAuth())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimitedLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := ratelimit.NewMiddleware(client, "test:", &mockLogger{})
	env := setupTestEnv(t, limiter, ratelimit.Config{RequestsPerWindow: 2, WindowSize: time.Minute})

	for i := 0; i < 2; i++ {
		resp := env.do(t, http.MethodPost, "/api/v1/admin/login", AdminLoginRequest{Password: "wrong"}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp := env.do(t, http.MethodPost, "/api/v1/admin/login", AdminLoginRequest{Password: admin.DefaultPassword}, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Other scopes keep their own window.
	resp = env.do(t, http.MethodGet, "/api/v1/products", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}


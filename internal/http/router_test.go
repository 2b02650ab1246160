package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GobLyne/ECommerce/internal/ai"
	"github.com/GobLyne/ECommerce/internal/auth"
	"github.com/GobLyne/ECommerce/internal/cache"
	"github.com/GobLyne/ECommerce/internal/domain"
	"github.com/GobLyne/ECommerce/internal/service"
)

// In-memory fakes standing in for Mongo, SQLite and Redis so the full router
// can be exercised over real HTTP.

type memCartRepo struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]*domain.Cart)}
}

func (s *memCartRepo) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	cart, ok := s.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

func (s *memCartRepo) AddItem(_ context.Context, userID string, item domain.CartItem) error {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		s.carts[userID] = &domain.Cart{UserID: userID, Items: []domain.CartItem{item}}
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	cart.Items = append(cart.Items, item)
	return nil
}

func (s *memCartRepo) UpdateItemQuantity(_ context.Context, userID string, productID int64, quantity int) error {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return domain.ErrItemNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (s *memCartRepo) DeleteItem(_ context.Context, userID string, productID int64) error {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return domain.ErrItemNotFound
	}
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (s *memCartRepo) RemoveItem(_ context.Context, userID string, productID int64) error {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return domain.ErrCartNotFound
	}
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memCartRepo) ClearCart(_ context.Context, userID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return domain.ErrCartNotFound
	}
	cart.Items = []domain.CartItem{}
	return nil
}

type memCatalog struct {
	m        sync.RWMutex
	products []*domain.Product
	nextID   int64
}

func newMemCatalog(products ...*domain.Product) *memCatalog {
	c := &memCatalog{nextID: 1}
	for _, p := range products {
		cp := *p
		cp.ID = c.nextID
		c.nextID++
		c.products = append(c.products, &cp)
	}
	return c
}

func (c *memCatalog) GetAllProducts(context.Context) ([]*domain.Product, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	out := make([]*domain.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *memCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (c *memCatalog) CreateProduct(_ context.Context, p *domain.Product) error {
	c.m.Lock()
	defer c.m.Unlock()
	p.ID = c.nextID
	c.nextID++
	c.products = append(c.products, p)
	return nil
}

func (c *memCatalog) SearchProducts(_ context.Context, query string) ([]*domain.Product, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	query = strings.ToLower(query)
	var out []*domain.Product
	for _, p := range c.products {
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		if strings.Contains(haystack, query) {
			out = append(out, p)
		}
		if len(out) == 5 {
			break
		}
	}
	return out, nil
}

func (c *memCatalog) Close() error { return nil }

type memCache struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
}

func newMemCache() *memCache {
	return &memCache{carts: make(map[string]*domain.Cart)}
}

func (c *memCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	cart, ok := c.carts[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return cart, nil
}

func (c *memCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.carts[userID] = cart
	return nil
}

func (c *memCache) Delete(_ context.Context, userID string) error {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.carts, userID)
	return nil
}

type memUserRepo struct {
	m      sync.RWMutex
	users  map[string]*domain.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (s *memUserRepo) Create(_ context.Context, user *domain.User) error {
	s.m.Lock()
	defer s.m.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.ID = fmt.Sprintf("user-%d", s.nextID)
	s.nextID++
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	s.m.Lock()
	defer s.m.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	u.Email = email
	cp := *u
	return &cp, nil
}

type stubAI struct {
	m     sync.Mutex
	err   error
	calls int
	last  string
}

func (s *stubAI) GenerateText(_ context.Context, prompt string) (string, error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.calls++
	s.last = prompt
	if s.err != nil {
		return "", s.err
	}
	return "Here is what I found in our store.", nil
}

var _ ai.Client = (*stubAI)(nil)

type testApp struct {
	t      *testing.T
	server *httptest.Server
	ai     *stubAI
}

func newTestApp(t *testing.T, products ...*domain.Product) *testApp {
	t.Helper()

	cat := newMemCatalog(products...)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	cartService := service.NewCartService(newMemCartRepo(), cat, newMemCache())
	authService := service.NewAuthService(newMemUserRepo(), tokens)
	orderService := service.NewOrderService(cartService)
	aiStub := &stubAI{}
	chatService := service.NewChatService(cat, cartService, aiStub)

	router := NewRouter(RouterConfig{
		Tokens:         tokens,
		Products:       NewProductHandler(cat),
		Carts:          NewCartHandler(cartService),
		Auth:           NewAuthHandler(authService),
		Chatbot:        NewChatbotHandler(chatService),
		Checkout:       NewCheckoutHandler(orderService),
		RequestTimeout: 5 * time.Second,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{t: t, server: server, ai: aiStub}
}

func (a *testApp) do(method, path, token string, body interface{}) (*http.Response, []byte) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, raw
}

// register creates a user and returns the bearer token from the response.
func (a *testApp) register(email string) string {
	a.t.Helper()

	resp, body := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode, string(body))

	var out AuthResponseDTO
	require.NoError(a.t, json.Unmarshal(body, &out))
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

func testProducts() []*domain.Product {
	return []*domain.Product{
		{Name: "Classic White T-Shirt", Price: 29.99, Stock: 50, Category: "T-Shirts"},
		{Name: "Vintage Denim Jacket", Price: 89.99, Stock: 25, Category: "Jackets"},
		{Name: "Athletic Joggers", Price: 45.99, Stock: 0, Category: "Activewear"},
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodOptions, app.server.URL+"/api/products", nil)
	require.NoError(t, err)
	resp, err := app.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestProducts_ListAndGet(t *testing.T) {
	app := newTestApp(t, testProducts()...)

	resp, body := app.do(http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(body, &products))
	require.Len(t, products, 3)
	assert.Equal(t, "Classic White T-Shirt", products[0].Name)

	resp, body = app.do(http.MethodGet, "/api/products/2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var product domain.Product
	require.NoError(t, json.Unmarshal(body, &product))
	assert.Equal(t, "Vintage Denim Jacket", product.Name)
}

func TestProducts_GetErrors(t *testing.T) {
	app := newTestApp(t, testProducts()...)

	resp, _ := app.do(http.MethodGet, "/api/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = app.do(http.MethodGet, "/api/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_Create(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(http.MethodPost, "/api/products", "", map[string]interface{}{
		"name": "Wool Scarf", "price": 19.99, "stock": 7, "category": "Accessories",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var product domain.Product
	require.NoError(t, json.Unmarshal(body, &product))
	assert.NotZero(t, product.ID)

	resp, _ = app.do(http.MethodPost, "/api/products", "", map[string]interface{}{
		"name": "", "price": 1.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = app.do(http.MethodPost, "/api/products", "", map[string]interface{}{
		"name": "Bad", "price": -1.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCart_RequiresAuth(t *testing.T) {
	app := newTestApp(t, testProducts()...)

	resp, _ := app.do(http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = app.do(http.MethodGet, "/api/cart", "not-a-valid-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCart_FullFlow(t *testing.T) {
	app := newTestApp(t, testProducts()...)
	token := app.register("cart@example.com")

	// Empty to start.
	resp, body := app.do(http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart domain.HydratedCart
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Empty(t, cart.Items)

	// Add two shirts and a jacket.
	resp, body = app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 1, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 2, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &cart))
	require.Len(t, cart.Items, 2)
	assert.InDelta(t, 149.97, cart.Total, 0.001)

	// Same product again merges into one line.
	resp, body = app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 1, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &cart))
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Update the shirt line down to one.
	resp, body = app.do(http.MethodPost, "/api/cart/update", token, map[string]interface{}{
		"productId": 1, "quantity": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Equal(t, 1, cart.Items[0].Quantity)

	// Update to zero removes the line.
	resp, body = app.do(http.MethodPost, "/api/cart/update", token, map[string]interface{}{
		"productId": 1, "quantity": 0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].Product.ID)

	// Remove the jacket, then clear.
	resp, body = app.do(http.MethodPost, "/api/cart/remove", token, map[string]interface{}{
		"productId": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Empty(t, cart.Items)

	resp, _ = app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{"productId": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = app.do(http.MethodDelete, "/api/cart/clear", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = app.do(http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Empty(t, cart.Items)
}

func TestCart_Validation(t *testing.T) {
	app := newTestApp(t, testProducts()...)
	token := app.register("validation@example.com")

	resp, _ := app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 0, "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 1, "quantity": 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 999, "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "unknown products cannot be added")

	resp, _ = app.do(http.MethodPost, "/api/cart/update", token, map[string]interface{}{
		"productId": 1, "quantity": 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCart_DefaultQuantityIsOne(t *testing.T) {
	app := newTestApp(t, testProducts()...)
	token := app.register("default-qty@example.com")

	resp, body := app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cart domain.HydratedCart
	require.NoError(t, json.Unmarshal(body, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_IsolatedPerUser(t *testing.T) {
	app := newTestApp(t, testProducts()...)
	alice := app.register("alice@example.com")
	bob := app.register("bob@example.com")

	resp, _ := app.do(http.MethodPost, "/api/cart/add", alice, map[string]interface{}{
		"productId": 1, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := app.do(http.MethodGet, "/api/cart", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart domain.HydratedCart
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Empty(t, cart.Items, "one user's cart must never leak into another's")
}

func TestAuth_Flow(t *testing.T) {
	app := newTestApp(t)

	token := app.register("flow@example.com")

	// Duplicate email conflicts.
	resp, _ := app.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Other", "email": "flow@example.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password and unknown email both come back 401.
	resp, _ = app.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = app.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := app.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login AuthResponseDTO
	require.NoError(t, json.Unmarshal(body, &login))
	assert.NotEmpty(t, login.Token)

	// The profile endpoint needs the credential and never returns the hash.
	resp, _ = app.do(http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = app.do(http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "flow@example.com")
	assert.NotContains(t, string(body), "password")

	resp, body = app.do(http.MethodPut, "/api/auth/update-profile", token, map[string]string{
		"name": "Renamed", "email": "renamed@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "renamed@example.com")
}

func TestChatbot_AnonymousChat(t *testing.T) {
	app := newTestApp(t, testProducts()...)

	resp, body := app.do(http.MethodPost, "/api/chatbot/chat", "", map[string]string{
		"message": "what shirts do you have?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out ChatResponseDTO
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Here is what I found in our store.", out.Message)
	assert.True(t, out.Context.HasProducts)
	assert.False(t, out.Context.HasCartItems)

	app.ai.m.Lock()
	defer app.ai.m.Unlock()
	assert.NotContains(t, app.ai.last, "USER'S CART", "anonymous chats must not carry a cart section")
}

func TestChatbot_CartContextComesFromCredential(t *testing.T) {
	app := newTestApp(t, testProducts()...)
	token := app.register("chat@example.com")

	resp, _ := app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 1, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The body cannot name a user; only the bearer token identifies the cart.
	resp, body := app.do(http.MethodPost, "/api/chatbot/chat", token, map[string]string{
		"message": "what is in my cart?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ChatResponseDTO
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Context.HasCartItems)
	assert.InDelta(t, 59.98, out.Context.CartTotal, 0.001)

	app.ai.m.Lock()
	defer app.ai.m.Unlock()
	assert.Contains(t, app.ai.last, "USER'S CURRENT CART:")
	assert.Contains(t, app.ai.last, "2x Classic White T-Shirt")
}

func TestChatbot_EmptyMessage(t *testing.T) {
	app := newTestApp(t, testProducts()...)

	resp, _ := app.do(http.MethodPost, "/api/chatbot/chat", "", map[string]string{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	app.ai.m.Lock()
	defer app.ai.m.Unlock()
	assert.Zero(t, app.ai.calls, "invalid input must not reach the upstream API")
}

func TestChatbot_UpstreamFailureIs502(t *testing.T) {
	app := newTestApp(t, testProducts()...)
	app.ai.err = assert.AnError

	resp, body := app.do(http.MethodPost, "/api/chatbot/chat", "", map[string]string{
		"message": "hello",
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "upstream_failure", out.Code)
	assert.Equal(t, service.FallbackReply, out.Message)
}

func TestChatbot_Suggestions(t *testing.T) {
	app := newTestApp(t, testProducts()...)

	resp, body := app.do(http.MethodGet, "/api/chatbot/suggestions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string][]string
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out["suggestions"])
	assert.LessOrEqual(t, len(out["suggestions"]), 6)
}

func TestChatbot_SearchProducts(t *testing.T) {
	app := newTestApp(t, testProducts()...)

	resp, body := app.do(http.MethodPost, "/api/chatbot/search-products", "", map[string]string{
		"query": "denim",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string][]domain.SearchResult
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out["products"], 1)
	assert.Equal(t, "Vintage Denim Jacket", out["products"][0].Name)

	resp, _ = app.do(http.MethodPost, "/api/chatbot/search-products", "", map[string]string{"query": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = app.do(http.MethodPost, "/api/chatbot/search-products", "", map[string]string{
		"query": "snowboard",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotNil(t, out["products"])
	assert.Empty(t, out["products"])
}

func TestCheckout_Flow(t *testing.T) {
	app := newTestApp(t, testProducts()...)
	token := app.register("buyer@example.com")

	// Checkout with nothing in the cart is rejected.
	resp, _ := app.do(http.MethodPost, "/api/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = app.do(http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": 1, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := app.do(http.MethodPost, "/api/checkout", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var order domain.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.NotEmpty(t, order.ID)
	assert.InDelta(t, 59.98, order.Total, 0.001)

	// The cart is cleared and the order shows up in the history.
	resp, body = app.do(http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart domain.HydratedCart
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Empty(t, cart.Items)

	resp, body = app.do(http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history map[string][]domain.Order
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history["orders"], 1)
	assert.Equal(t, order.ID, history["orders"][0].ID)
}

func TestCheckout_RequiresAuth(t *testing.T) {
	app := newTestApp(t, testProducts()...)

	resp, _ := app.do(http.MethodPost, "/api/checkout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = app.do(http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.do(http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "fixed-id")
	resp2, err := app.server.Client().Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "fixed-id", resp2.Header.Get("X-Request-ID"))
}

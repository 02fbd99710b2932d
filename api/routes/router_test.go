package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backoffice/internal/addresses"
	"github.com/angelmondragon/storefront-backoffice/internal/cart"
	"github.com/angelmondragon/storefront-backoffice/internal/catalog"
	"github.com/angelmondragon/storefront-backoffice/internal/customers"
	"github.com/angelmondragon/storefront-backoffice/pkg/config"
	"github.com/angelmondragon/storefront-backoffice/pkg/db"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	"github.com/angelmondragon/storefront-backoffice/pkg/logger"
	"github.com/angelmondragon/storefront-backoffice/pkg/metrics"
	"github.com/angelmondragon/storefront-backoffice/pkg/security"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	conn    *gorm.DB
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginIPLimit:    100,
			LoginEmailLimit: 100,
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	client := db.FromConn(conn)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	hasher := security.NewArgon2Hasher(config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})

	customerSvc, err := customers.NewService(customers.NewRepository(conn), client, hasher, logg)
	require.NoError(t, err)
	addressSvc, err := addresses.NewService(addresses.NewRepository(conn), client, logg)
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), client, logg)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.NewRepository(conn), logg)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	handler := NewRouter(
		testConfig(),
		logg,
		client,
		nil,
		metrics.NewHTTPMetrics(reg),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Services{
			Customers: customerSvc,
			Addresses: addressSvc,
			Catalog:   catalogSvc,
			Cart:      cartSvc,
		},
	)
	return &testServer{handler: handler, conn: conn}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func registerBody(email string) map[string]any {
	return map[string]any{
		"first_name":    "Grace",
		"last_name":     "Hopper",
		"email":         email,
		"phone_number":  "555-0100",
		"date_of_birth": "1906-12-09",
		"password":      "cobol-forever",
	}
}

func TestCustomerLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/customers/register", registerBody("Grace@Navy.mil"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created customers.CustomerDTO
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.IsActive)
	assert.NotContains(t, rec.Body.String(), "password")

	rec, env = srv.do(t, http.MethodPost, "/api/v1/customers/register", registerBody("grace@navy.mil"))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already exists", env.Error.Message)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/customers/login", map[string]any{"email": "Grace@Navy.mil", "password": "cobol-forever"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login customers.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, created.ID, login.CustomerID)
	assert.Equal(t, "Grace Hopper", login.CustomerName)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/customers/login", map[string]any{"email": "Grace@Navy.mil", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid password", env.Error.Message)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/customers/"+created.ID.String()+"/password", map[string]any{
		"current_password": "cobol-forever",
		"new_password":     "flow-matic-1959",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = srv.do(t, http.MethodDelete, "/api/v1/customers/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/customers/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/customers/login", map[string]any{"email": "Grace@Navy.mil", "password": "flow-matic-1959"})
	assert.Equal(t, http.StatusOK, rec.Code, "inactive customers can still log in")
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	srv := newTestServer(t)

	body := registerBody("not-an-email")
	rec, env := srv.do(t, http.MethodPost, "/api/v1/customers/register", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	body = registerBody("a@example.com")
	body["date_of_birth"] = "09/12/1906"
	rec, _ = srv.do(t, http.MethodPost, "/api/v1/customers/register", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogAndAddressesAndCart(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/customers/register", registerBody("buyer@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var customer customers.CustomerDTO
	require.NoError(t, json.Unmarshal(env.Data, &customer))

	rec, env = srv.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Books", "description": "Paper"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category catalog.CategoryDTO
	require.NoError(t, json.Unmarshal(env.Data, &category))

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "BOOKS"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name":                "The Art of Computer Programming",
		"price":               "199.99",
		"category_id":         category.ID.String(),
		"stock_quantity":      3,
		"discount_percentage": "10",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product catalog.ProductDTO
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "199.99", product.Price.StringFixed(2))

	rec, env = srv.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name":        "Ghost",
		"price":       "1",
		"category_id": uuid.NewString(),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category does not exist", env.Error.Message)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/categories/"+category.ID.String()+"/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []catalog.ProductDTO
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)

	rec, _ = srv.do(t, http.MethodPatch, "/api/v1/products/"+product.ID.String()+"/availability", map[string]any{"is_available": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/categories/"+category.ID.String()+"/products", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/addresses", map[string]any{
		"customer_id": customer.ID.String(),
		"line1":       "1 Main St",
		"city":        "Arlington",
		"state":       "VA",
		"postal_code": "22201",
		"country":     "US",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var address addresses.AddressDTO
	require.NoError(t, json.Unmarshal(env.Data, &address))

	rec, env = srv.do(t, http.MethodGet, "/api/v1/customers/"+customer.ID.String()+"/addresses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var addressList []addresses.AddressDTO
	require.NoError(t, json.Unmarshal(env.Data, &addressList))
	require.Len(t, addressList, 1)
	assert.Equal(t, address.ID, addressList[0].ID)

	rec, _ = srv.do(t, http.MethodDelete, "/api/v1/addresses/"+address.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = srv.do(t, http.MethodGet, "/api/v1/customers/"+customer.ID.String()+"/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var openCart cart.CartDTO
	require.NoError(t, json.Unmarshal(env.Data, &openCart))
	assert.Equal(t, uuid.Nil, openCart.ID)
	assert.Empty(t, openCart.Items)
	assert.True(t, openCart.TotalAmount.IsZero())
}

func TestInvalidPathIDIsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = srv.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = srv.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := NewRouter(testConfig(), logg, stubPinger{err: errors.New("db down")}, nil, nil, nil, Services{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "nil services report unavailability")
}

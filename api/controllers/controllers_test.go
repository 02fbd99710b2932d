package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backoffice/internal/addresses"
	"github.com/angelmondragon/storefront-backoffice/internal/cart"
	"github.com/angelmondragon/storefront-backoffice/pkg/config"
	"github.com/angelmondragon/storefront-backoffice/pkg/logger"
	"github.com/angelmondragon/storefront-backoffice/pkg/types"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubCartService struct {
	got uuid.UUID
	err error
}

func (s *stubCartService) GetOpenCart(ctx context.Context, customerID uuid.UUID) (*cart.CartDTO, error) {
	s.got = customerID
	if s.err != nil {
		return nil, s.err
	}
	return &cart.CartDTO{CustomerID: customerID, Items: []cart.CartItemDTO{}}, nil
}

func TestCartGetOpen(t *testing.T) {
	customerID := uuid.New()

	t.Run("invalid customer id", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "customerID", "nope")
		rec := httptest.NewRecorder()
		CartGetOpen(&stubCartService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("untyped service failure is internal", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "customerID", customerID.String())
		rec := httptest.NewRecorder()
		CartGetOpen(&stubCartService{err: errors.New("boom")}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubCartService{}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "customerID", customerID.String())
		rec := httptest.NewRecorder()
		CartGetOpen(stub, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.got != customerID {
			t.Fatalf("expected service to receive %s, got %s", customerID, stub.got)
		}
	})
}

type stubAddressService struct {
	addresses.Service
	deleted addresses.DeleteInput
}

func (s *stubAddressService) Delete(ctx context.Context, input addresses.DeleteInput) (*types.Confirmation, error) {
	s.deleted = input
	return types.Confirm("deleted"), nil
}

func TestAddressDeleteBody(t *testing.T) {
	addressID := uuid.New()
	customerID := uuid.New()

	t.Run("without body", func(t *testing.T) {
		stub := &stubAddressService{}
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "addressID", addressID.String())
		rec := httptest.NewRecorder()
		AddressDelete(stub, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.deleted.AddressID != addressID || stub.deleted.CustomerID != uuid.Nil {
			t.Fatalf("unexpected delete input %+v", stub.deleted)
		}
	})

	t.Run("with customer id", func(t *testing.T) {
		stub := &stubAddressService{}
		body := strings.NewReader(`{"customer_id":"` + customerID.String() + `"}`)
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/", body), "addressID", addressID.String())
		rec := httptest.NewRecorder()
		AddressDelete(stub, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.deleted.CustomerID != customerID {
			t.Fatalf("expected customer id to be forwarded, got %s", stub.deleted.CustomerID)
		}
	})

	t.Run("malformed customer id", func(t *testing.T) {
		body := strings.NewReader(`{"customer_id":"123"}`)
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/", body), "addressID", addressID.String())
		rec := httptest.NewRecorder()
		AddressDelete(&stubAddressService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReadySkipsUnconfiguredRedis(t *testing.T) {
	cfg := testConfig()

	rec := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), stubPinger{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without redis, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), stubPinger{}, stubPinger{err: errors.New("down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when redis is down, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redis":"unreachable"`) {
		t.Fatalf("expected redis check in details, got %s", rec.Body.String())
	}
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: config.AppEnvDev}}
}

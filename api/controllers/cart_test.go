package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/middleware"
	cartsvc "github.com/vitrinelabs/vitrine-backend/internal/cart"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

type stubCartService struct {
	view cartsvc.View
	err  error

	addedProduct uuid.UUID
}

func (s *stubCartService) Get(context.Context, uuid.UUID) (cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) Add(_ context.Context, _ uuid.UUID, productID uuid.UUID) (cartsvc.View, error) {
	s.addedProduct = productID
	return s.view, s.err
}

func (s *stubCartService) Remove(context.Context, uuid.UUID, uuid.UUID, bool) (cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) Snapshot(uuid.UUID) []cartsvc.Line { return nil }

func (s *stubCartService) Clear(uuid.UUID) {}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestGetCartSuccess(t *testing.T) {
	handler := GetCart(&stubCartService{view: cartsvc.View{ItemCount: 2}}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ItemCount != 2 {
		t.Fatalf("unexpected item count: %d", envelope.Data.ItemCount)
	}
}

func TestGetCartMissingUserContext(t *testing.T) {
	handler := GetCart(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAddCartItemPassesProductID(t *testing.T) {
	svc := &stubCartService{}
	handler := AddCartItem(svc, nil)
	productID := uuid.New()

	body := `{"product_id":"` + productID.String() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.addedProduct != productID {
		t.Fatalf("unexpected product id: %s", svc.addedProduct)
	}
}

func TestAddCartItemOutOfStock(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "out of stock")}
	handler := AddCartItem(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "out of stock") {
		t.Fatalf("expected message passthrough, got %s", resp.Body.String())
	}
}

func TestAddCartItemRejectsMalformedBody(t *testing.T) {
	handler := AddCartItem(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

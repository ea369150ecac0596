package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/gateway"
)

type mockCatalog struct {
	categories []gateway.Category
	products   []gateway.Product
	orders     []gateway.Order

	featuredArg bool
	listErr     error
}

func (m *mockCatalog) ListCategories(ctx context.Context, featured bool) ([]gateway.Category, error) {
	m.featuredArg = featured
	return m.categories, m.listErr
}

func (m *mockCatalog) ListProducts(ctx context.Context, category, search string) ([]gateway.Product, error) {
	return m.products, m.listErr
}

func (m *mockCatalog) GetProduct(ctx context.Context, slug string) (gateway.Product, error) {
	return gateway.Product{}, m.listErr
}

func (m *mockCatalog) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	return nil, m.listErr
}

func (m *mockCatalog) ListOrders(ctx context.Context) ([]gateway.Order, error) {
	return m.orders, m.listErr
}

func (m *mockCatalog) Profile(ctx context.Context) (domain.Profile, error) {
	return domain.Profile{}, m.listErr
}

func TestListCategories_FeaturedQuery(t *testing.T) {
	catalog := &mockCatalog{categories: []gateway.Category{
		{ID: 1, Name: "Rings", Slug: "rings", IsFeatured: true},
	}}
	handler := NewCatalogHandler(catalog, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.ListCategories(recorder, httptest.NewRequest("GET", "/categories?featured=1", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if !catalog.featuredArg {
		t.Errorf("Expected featured filter passed through")
	}

	var categories []gateway.Category
	if err := json.NewDecoder(recorder.Body).Decode(&categories); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(categories) != 1 || categories[0].Slug != "rings" {
		t.Errorf("Expected rings category, got %+v", categories)
	}
}

func TestListOrders_Success(t *testing.T) {
	catalog := &mockCatalog{orders: []gateway.Order{
		{ID: 100, Status: "cod_pending", Total: 1050},
	}}
	handler := NewCatalogHandler(catalog, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, authedRequest("GET", "/orders", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var orders []gateway.Order
	if err := json.NewDecoder(recorder.Body).Decode(&orders); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != 100 {
		t.Errorf("Expected order 100, got %+v", orders)
	}
}

func TestListOrders_BackendUnavailable(t *testing.T) {
	catalog := &mockCatalog{listErr: &gateway.GatewayError{Status: 502}}
	handler := NewCatalogHandler(catalog, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, authedRequest("GET", "/orders", nil))

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("Expected status code %d, got %d", http.StatusBadGateway, recorder.Code)
	}
}

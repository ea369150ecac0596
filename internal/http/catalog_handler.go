package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/gateway"
)

// Catalog is the read-only backend surface proxied to the browsing pages.
type Catalog interface {
	ListCategories(ctx context.Context, featured bool) ([]gateway.Category, error)
	ListProducts(ctx context.Context, category, search string) ([]gateway.Product, error)
	GetProduct(ctx context.Context, slug string) (gateway.Product, error)
	ListAddresses(ctx context.Context) ([]domain.Address, error)
	ListOrders(ctx context.Context) ([]gateway.Order, error)
	Profile(ctx context.Context) (domain.Profile, error)
}

type CatalogHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewCatalogHandler(catalog Catalog, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, timeout: timeout}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	featured := r.URL.Query().Get("featured")
	categories, err := h.catalog.ListCategories(ctx, featured == "1" || featured == "true")
	if err != nil {
		handleFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx,
		r.URL.Query().Get("category"),
		r.URL.Query().Get("search"))
	if err != nil {
		handleFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_slug", "product slug is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, slug)
	if err != nil {
		handleFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	addresses, err := h.catalog.ListAddresses(ctx)
	if err != nil {
		handleFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, addresses)
}

func (h *CatalogHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.catalog.ListOrders(ctx)
	if err != nil {
		handleFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *CatalogHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	profile, err := h.catalog.Profile(ctx)
	if err != nil {
		handleFlowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

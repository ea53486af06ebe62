package api

import (
	"net/http"

	"github.com/erazemk/foodhub/internal/catalog"
	"github.com/erazemk/foodhub/internal/health"
	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/orders"
)

// ProvidersHandler serves hubs, their stock and their orders.
type ProvidersHandler struct {
	Catalog *catalog.Service
	Orders  *orders.Service
}

// List handles GET /api/providers.
func (h *ProvidersHandler) List(w http.ResponseWriter, r *http.Request) {
	providers, err := h.Catalog.ListProviders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if providers == nil {
		providers = []model.Provider{}
	}
	jsonResponse(w, http.StatusOK, providers)
}

// Get handles GET /api/providers/{id}.
func (h *ProvidersHandler) Get(w http.ResponseWriter, r *http.Request) {
	provider, err := h.Catalog.GetProvider(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, provider)
}

// Inventory handles GET /api/providers/{id}/inventory.
func (h *ProvidersHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Catalog.ProviderInventory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if lines == nil {
		lines = []model.StockLine{}
	}
	jsonResponse(w, http.StatusOK, lines)
}

// ListOrders handles GET /api/providers/{id}/orders.
func (h *ProvidersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListByProvider(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []model.Order{}
	}
	jsonResponse(w, http.StatusOK, list)
}

// Supplier handles GET /api/supplier/inventory.
func (h *ProvidersHandler) Supplier(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.Catalog.SupplierView(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ranked == nil {
		ranked = []health.ProviderSummary{}
	}
	jsonResponse(w, http.StatusOK, ranked)
}

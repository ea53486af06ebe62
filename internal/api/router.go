package api

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/foodhub/internal/catalog"
	"github.com/erazemk/foodhub/internal/orders"
)

// Deps are the services behind the HTTP API.
type Deps struct {
	Catalog *catalog.Service
	Orders  *orders.Service
	// DB holds food photos, which live beside the snapshot.
	DB *sql.DB
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	providersHandler := &ProvidersHandler{Catalog: d.Catalog, Orders: d.Orders}
	ordersHandler := &OrdersHandler{Orders: d.Orders}
	foodsHandler := &FoodsHandler{Catalog: d.Catalog, DB: d.DB}

	// Hubs and their stock.
	mux.HandleFunc("GET /api/providers", providersHandler.List)
	mux.HandleFunc("GET /api/providers/{id}", providersHandler.Get)
	mux.HandleFunc("GET /api/providers/{id}/inventory", providersHandler.Inventory)
	mux.HandleFunc("GET /api/providers/{id}/orders", providersHandler.ListOrders)

	// Orders.
	mux.HandleFunc("POST /api/orders", ordersHandler.Create)
	mux.HandleFunc("POST /api/orders/confirm", ordersHandler.Confirm)
	mux.HandleFunc("POST /api/orders/{id}/prepared", ordersHandler.Prepared)

	// Supplier.
	mux.HandleFunc("GET /api/supplier/inventory", providersHandler.Supplier)

	// Foods.
	mux.HandleFunc("GET /api/foods", foodsHandler.List)
	mux.HandleFunc("PUT /api/foods/{id}/image", foodsHandler.UploadImage)
	mux.HandleFunc("GET /api/foods/{id}/image", foodsHandler.GetImage)

	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}

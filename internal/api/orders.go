package api

import (
	"net/http"

	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/orders"
)

// OrdersHandler serves order creation and pickup.
type OrdersHandler struct {
	Orders *orders.Service
}

type createOrderRequest struct {
	ProviderID string               `json:"provider_id" validate:"required"`
	Items      []orders.ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Create handles POST /api/orders.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := h.Orders.Create(r.Context(), req.ProviderID, req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, receipt)
}

type confirmRequest struct {
	OrderID     string `json:"order_id" validate:"required_without=PickupToken"`
	PickupToken string `json:"pickup_token"`
	ProviderID  string `json:"provider_id"`
}

type pickupResponse struct {
	OrderID string            `json:"order_id"`
	Status  model.OrderStatus `json:"status"`
}

// Confirm handles POST /api/orders/confirm. The order is named by id, by its
// scanned pickup token, or by both when they agree.
func (h *OrdersHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	orderID := req.OrderID
	var err error
	if req.PickupToken != "" {
		orderID, err = h.Orders.ConfirmToken(r.Context(), req.PickupToken, req.OrderID, req.ProviderID)
	} else {
		err = h.Orders.Confirm(r.Context(), req.OrderID, req.ProviderID)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, pickupResponse{OrderID: orderID, Status: model.OrderStatusPickedUp})
}

type preparedRequest struct {
	ProviderID string `json:"provider_id"`
}

// Prepared handles POST /api/orders/{id}/prepared. The body is optional.
func (h *OrdersHandler) Prepared(w http.ResponseWriter, r *http.Request) {
	var req preparedRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if err := h.Orders.MarkPrepared(r.Context(), id, req.ProviderID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, pickupResponse{OrderID: id, Status: model.OrderStatusPrepared})
}

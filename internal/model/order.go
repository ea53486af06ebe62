package model

import "time"

// OrderStatus is the pickup state of an order.
type OrderStatus string

// Order statuses. PickedUp is terminal.
const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPrepared OrderStatus = "prepared"
	OrderStatusPickedUp OrderStatus = "picked_up"
)

// Order is a patron's cart at one hub, waiting for pickup.
type Order struct {
	ID          string      `json:"id" validate:"required"`
	ProviderID  string      `json:"provider_id" validate:"required"`
	Status      OrderStatus `json:"status" validate:"oneof=pending prepared picked_up"`
	PickupToken string      `json:"pickup_token,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	PickedAt    *time.Time  `json:"picked_at,omitempty"`

	// Joined fields (not always populated).
	Items []OrderLine `json:"items,omitempty" validate:"-"`
}

// Open reports whether the order can still be picked up.
func (o *Order) Open() bool {
	return o.Status != OrderStatusPickedUp
}

// OrderItem is one requested food line of an order.
type OrderItem struct {
	OrderID  string `json:"order_id" validate:"required"`
	FoodID   string `json:"food_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// OrderLine is an order item with the food name resolved.
type OrderLine struct {
	FoodID   string `json:"food_id"`
	FoodName string `json:"food_name"`
	Quantity int    `json:"quantity"`
}

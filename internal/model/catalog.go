package model

// Provider is a food hub with its own inventory.
type Provider struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address,omitempty"`
}

// FoodItem is a food definition shared by all hubs.
type FoodItem struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Unit string `json:"unit" validate:"required"`
}

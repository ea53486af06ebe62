package model

// InventoryRow is the stock of one food item at one hub.
type InventoryRow struct {
	ID              int64  `json:"id"`
	ProviderID      string `json:"provider_id" validate:"required"`
	FoodID          string `json:"food_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"min=0"`
	ThresholdLow    int    `json:"threshold_low" validate:"min=0"`
	ThresholdMedium int    `json:"threshold_medium" validate:"min=0"`
}

// Default thresholds for seeded rows.
const (
	DefaultThresholdLow    = 5
	DefaultThresholdMedium = 15
)

// Health is the restocking status of a row or a hub.
type Health string

// Health levels.
const (
	HealthGreen  Health = "green"
	HealthYellow Health = "yellow"
	HealthRed    Health = "red"
)

// Severity orders health levels so that red ranks highest.
func (h Health) Severity() int {
	switch h {
	case HealthRed:
		return 2
	case HealthYellow:
		return 1
	default:
		return 0
	}
}

// StockLine is an inventory row joined with its food definition.
type StockLine struct {
	InventoryRow
	FoodName string `json:"food_name"`
	Unit     string `json:"unit"`
	Status   Health `json:"status"`
}

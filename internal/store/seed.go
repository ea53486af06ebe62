package store

import (
	"math/rand/v2"

	"github.com/erazemk/foodhub/internal/model"
)

// SeedOptions controls the generated starting dataset.
type SeedOptions struct {
	MinQuantity     int
	MaxQuantity     int
	ThresholdLow    int
	ThresholdMedium int
	// Rand picks quantities; nil uses the global source.
	Rand *rand.Rand
}

// DefaultSeedOptions returns quantities in [2, 26] and thresholds 5/15.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		MinQuantity:     2,
		MaxQuantity:     26,
		ThresholdLow:    model.DefaultThresholdLow,
		ThresholdMedium: model.DefaultThresholdMedium,
	}
}

var seedProviders = []model.Provider{
	{ID: "hub-downtown", Name: "Downtown Food Hub", Address: "123 Main St, Saint Paul"},
	{ID: "hub-midway", Name: "Midway Community Kitchen", Address: "456 University Ave, Saint Paul"},
	{ID: "hub-north", Name: "North Side Pantry", Address: "789 Payne Ave, Saint Paul"},
}

var seedFoods = []model.FoodItem{
	{ID: "bread", Name: "Bread", Unit: "loaf"},
	{ID: "milk", Name: "Milk", Unit: "gallon"},
	{ID: "eggs", Name: "Eggs", Unit: "dozen"},
	{ID: "rice", Name: "Rice", Unit: "bag"},
	{ID: "canned-beans", Name: "Canned Beans", Unit: "can"},
	{ID: "vegetables", Name: "Fresh Vegetables", Unit: "bag"},
}

// Seed builds the fixed hub and food catalog with one stock row per pair.
func Seed(opts SeedOptions) *model.Snapshot {
	if opts.MinQuantity < 0 {
		opts.MinQuantity = 0
	}
	if opts.MaxQuantity < opts.MinQuantity {
		opts.MaxQuantity = opts.MinQuantity
	}
	span := opts.MaxQuantity - opts.MinQuantity + 1
	intN := rand.IntN
	if opts.Rand != nil {
		intN = opts.Rand.IntN
	}

	snap := &model.Snapshot{
		Providers: append([]model.Provider(nil), seedProviders...),
		FoodItems: append([]model.FoodItem(nil), seedFoods...),
	}
	var id int64 = 1
	for _, p := range seedProviders {
		for _, f := range seedFoods {
			snap.Inventory = append(snap.Inventory, model.InventoryRow{
				ID:              id,
				ProviderID:      p.ID,
				FoodID:          f.ID,
				Quantity:        opts.MinQuantity + intN(span),
				ThresholdLow:    opts.ThresholdLow,
				ThresholdMedium: opts.ThresholdMedium,
			})
			id++
		}
	}
	return snap
}

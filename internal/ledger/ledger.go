// Package ledger reads and mutates the per-hub stock rows of a snapshot.
// Quantities only ever move down through Deduct, which never takes a row
// below zero.
package ledger

import (
	"math"

	"github.com/erazemk/foodhub/internal/model"
)

// Shortfall reports a food whose stock cannot cover the requested quantity.
type Shortfall struct {
	FoodID    string `json:"food_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// Rows returns the stock rows of a hub in stored order.
func Rows(s *model.Snapshot, providerID string) []model.InventoryRow {
	var rows []model.InventoryRow
	for _, r := range s.Inventory {
		if r.ProviderID == providerID {
			rows = append(rows, r)
		}
	}
	return rows
}

// Find returns the stock row for a hub and food, or nil.
func Find(s *model.Snapshot, providerID, foodID string) *model.InventoryRow {
	for i := range s.Inventory {
		r := &s.Inventory[i]
		if r.ProviderID == providerID && r.FoodID == foodID {
			return r
		}
	}
	return nil
}

// Demand sums item quantities per food. Foods are returned in first-seen order.
// Sums saturate at math.MaxInt and non-positive quantities add nothing, so a
// total never wraps below what was asked for.
func Demand(items []model.OrderItem) ([]string, map[string]int) {
	var foods []string
	qty := map[string]int{}
	for _, it := range items {
		cur, seen := qty[it.FoodID]
		if !seen {
			foods = append(foods, it.FoodID)
		}
		if it.Quantity <= 0 {
			qty[it.FoodID] = cur
			continue
		}
		if it.Quantity > math.MaxInt-cur {
			qty[it.FoodID] = math.MaxInt
			continue
		}
		qty[it.FoodID] = cur + it.Quantity
	}
	return foods, qty
}

// Check compares the summed demand of items against a hub's stock. It
// returns the foods that have no row at the hub and the foods whose row holds
// less than requested.
func Check(s *model.Snapshot, providerID string, items []model.OrderItem) (missing []string, short []Shortfall) {
	foods, qty := Demand(items)
	for _, foodID := range foods {
		row := Find(s, providerID, foodID)
		if row == nil {
			missing = append(missing, foodID)
			continue
		}
		if row.Quantity < qty[foodID] {
			short = append(short, Shortfall{FoodID: foodID, Requested: qty[foodID], Available: row.Quantity})
		}
	}
	return missing, short
}

// Deduct takes items out of a hub's stock. Items without a row are skipped.
// If any present row holds less than its demand, nothing is changed and the
// shortfalls are returned.
func Deduct(s *model.Snapshot, providerID string, items []model.OrderItem) []Shortfall {
	_, short := Check(s, providerID, items)
	if len(short) > 0 {
		return short
	}

	foods, qty := Demand(items)
	for _, foodID := range foods {
		if row := Find(s, providerID, foodID); row != nil {
			row.Quantity -= qty[foodID]
		}
	}
	return nil
}

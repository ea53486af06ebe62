// Package health classifies stock rows and ranks hubs by restocking urgency.
package health

import (
	"slices"

	"github.com/erazemk/foodhub/internal/ledger"
	"github.com/erazemk/foodhub/internal/model"
)

// Classify maps a quantity to a health level. With medium below low the
// yellow band is empty; the result is still well defined.
func Classify(quantity, low, medium int) model.Health {
	if quantity >= medium {
		return model.HealthGreen
	}
	if quantity >= low {
		return model.HealthYellow
	}
	return model.HealthRed
}

// ProviderSummary is a hub's classified stock and its overall status.
type ProviderSummary struct {
	Provider    model.Provider    `json:"provider"`
	Items       []model.StockLine `json:"items"`
	Overall     model.Health      `json:"overall"`
	RedCount    int               `json:"red_count"`
	YellowCount int               `json:"yellow_count"`
}

// Urgency weights red rows twice as heavily as yellow ones.
func (p ProviderSummary) Urgency() int {
	return 2*p.RedCount + p.YellowCount
}

// Lines returns a hub's stock rows joined with their food and classified.
func Lines(s *model.Snapshot, providerID string) []model.StockLine {
	rows := ledger.Rows(s, providerID)
	lines := make([]model.StockLine, 0, len(rows))
	for _, r := range rows {
		line := model.StockLine{
			InventoryRow: r,
			FoodName:     r.FoodID,
			Status:       Classify(r.Quantity, r.ThresholdLow, r.ThresholdMedium),
		}
		if f, ok := s.Food(r.FoodID); ok {
			line.FoodName = f.Name
			line.Unit = f.Unit
		}
		lines = append(lines, line)
	}
	return lines
}

// Aggregate summarizes one hub. Overall is red if any row is red, else
// yellow if any row is yellow, else green.
func Aggregate(s *model.Snapshot, provider model.Provider) ProviderSummary {
	sum := ProviderSummary{Provider: provider, Items: Lines(s, provider.ID)}
	for _, line := range sum.Items {
		switch line.Status {
		case model.HealthRed:
			sum.RedCount++
		case model.HealthYellow:
			sum.YellowCount++
		}
	}

	switch {
	case sum.RedCount > 0:
		sum.Overall = model.HealthRed
	case sum.YellowCount > 0:
		sum.Overall = model.HealthYellow
	default:
		sum.Overall = model.HealthGreen
	}
	return sum
}

// Rank orders summaries red, yellow, green, then by urgency descending.
// Remaining ties keep their input order. The input is not modified.
func Rank(summaries []ProviderSummary) []ProviderSummary {
	ranked := slices.Clone(summaries)
	slices.SortStableFunc(ranked, func(a, b ProviderSummary) int {
		if d := b.Overall.Severity() - a.Overall.Severity(); d != 0 {
			return d
		}
		return b.Urgency() - a.Urgency()
	})
	return ranked
}

// Supplier summarizes every hub in catalog order and ranks them.
func Supplier(s *model.Snapshot) []ProviderSummary {
	summaries := make([]ProviderSummary, 0, len(s.Providers))
	for _, p := range s.Providers {
		summaries = append(summaries, Aggregate(s, p))
	}
	return Rank(summaries)
}

// Package catalog serves the read side of the food hub: hubs, foods, stock
// and the supplier's ranked view.
package catalog

import (
	"context"

	"github.com/erazemk/foodhub/internal/apperr"
	"github.com/erazemk/foodhub/internal/health"
	"github.com/erazemk/foodhub/internal/metrics"
	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/store"
)

// Service answers catalog and stock queries against one snapshot per call.
type Service struct {
	store   *store.Store
	metrics *metrics.Metrics
}

// NewService returns a catalog over st. m may be nil.
func NewService(st *store.Store, m *metrics.Metrics) *Service {
	return &Service{store: st, metrics: m}
}

// ListProviders returns all hubs in catalog order.
func (s *Service) ListProviders(ctx context.Context) ([]model.Provider, error) {
	var providers []model.Provider
	err := s.store.View(ctx, func(snap *model.Snapshot) error {
		providers = append([]model.Provider{}, snap.Providers...)
		return nil
	})
	return providers, err
}

// GetProvider returns one hub.
func (s *Service) GetProvider(ctx context.Context, id string) (*model.Provider, error) {
	var provider *model.Provider
	err := s.store.View(ctx, func(snap *model.Snapshot) error {
		p, ok := snap.Provider(id)
		if !ok {
			return apperr.Newf(apperr.CodeNotFound, "provider %q not found", id)
		}
		cp := *p
		provider = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// ListFoods returns all food definitions.
func (s *Service) ListFoods(ctx context.Context) ([]model.FoodItem, error) {
	var foods []model.FoodItem
	err := s.store.View(ctx, func(snap *model.Snapshot) error {
		foods = append([]model.FoodItem{}, snap.FoodItems...)
		return nil
	})
	return foods, err
}

// GetFood returns one food definition.
func (s *Service) GetFood(ctx context.Context, id string) (*model.FoodItem, error) {
	var food *model.FoodItem
	err := s.store.View(ctx, func(snap *model.Snapshot) error {
		f, ok := snap.Food(id)
		if !ok {
			return apperr.Newf(apperr.CodeNotFound, "food %q not found", id)
		}
		cp := *f
		food = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return food, nil
}

// ProviderInventory returns a hub's classified stock. An unknown hub has no
// stock.
func (s *Service) ProviderInventory(ctx context.Context, providerID string) ([]model.StockLine, error) {
	var lines []model.StockLine
	err := s.store.View(ctx, func(snap *model.Snapshot) error {
		lines = health.Lines(snap, providerID)
		return nil
	})
	return lines, err
}

// SupplierView returns every hub's summary, most urgent first, and refreshes
// the stock gauges.
func (s *Service) SupplierView(ctx context.Context) ([]health.ProviderSummary, error) {
	var ranked []health.ProviderSummary
	err := s.store.View(ctx, func(snap *model.Snapshot) error {
		ranked = health.Supplier(snap)
		return nil
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]map[string]int, len(ranked))
	for _, sum := range ranked {
		byStatus := map[string]int{
			string(model.HealthGreen):  0,
			string(model.HealthYellow): 0,
			string(model.HealthRed):    0,
		}
		for _, line := range sum.Items {
			byStatus[string(line.Status)]++
		}
		counts[sum.Provider.ID] = byStatus
	}
	s.metrics.StockRows(counts)
	return ranked, nil
}

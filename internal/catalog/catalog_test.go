package catalog

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/foodhub/internal/apperr"
	"github.com/erazemk/foodhub/internal/metrics"
	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/store"
)

func row(id int64, provider, food string, qty int) model.InventoryRow {
	return model.InventoryRow{ID: id, ProviderID: provider, FoodID: food, Quantity: qty, ThresholdLow: 5, ThresholdMedium: 15}
}

func fixture() *model.Snapshot {
	return &model.Snapshot{
		Providers: []model.Provider{
			{ID: "green", Name: "Green Hub"},
			{ID: "red", Name: "Red Hub", Address: "1 Main St"},
			{ID: "yellow", Name: "Yellow Hub"},
		},
		FoodItems: []model.FoodItem{
			{ID: "bread", Name: "Bread", Unit: "loaf"},
			{ID: "rice", Name: "Rice", Unit: "bag"},
		},
		Inventory: []model.InventoryRow{
			row(1, "green", "bread", 20),
			row(2, "green", "rice", 15),
			row(3, "red", "bread", 4),
			row(4, "red", "rice", 30),
			row(5, "yellow", "bread", 5),
			row(6, "yellow", "rice", 14),
		},
	}
}

func newService(t *testing.T, m *metrics.Metrics) *Service {
	t.Helper()
	return NewService(store.New(store.NewMemory(fixture()), store.DefaultSeedOptions()), m)
}

func TestListProvidersAndFoods(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	providers, err := svc.ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, providers, 3)
	assert.Equal(t, "green", providers[0].ID)

	foods, err := svc.ListFoods(ctx)
	require.NoError(t, err)
	assert.Len(t, foods, 2)
}

func TestGetProvider(t *testing.T) {
	svc := newService(t, nil)

	p, err := svc.GetProvider(context.Background(), "red")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", p.Address)

	_, err = svc.GetProvider(context.Background(), "nowhere")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), "got %v", err)
}

func TestGetFood(t *testing.T) {
	svc := newService(t, nil)

	f, err := svc.GetFood(context.Background(), "rice")
	require.NoError(t, err)
	assert.Equal(t, "bag", f.Unit)

	_, err = svc.GetFood(context.Background(), "caviar")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), "got %v", err)
}

func TestProviderInventory(t *testing.T) {
	svc := newService(t, nil)

	lines, err := svc.ProviderInventory(context.Background(), "yellow")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Bread", lines[0].FoodName)
	assert.Equal(t, "loaf", lines[0].Unit)
	assert.Equal(t, model.HealthYellow, lines[0].Status)
	assert.Equal(t, model.HealthYellow, lines[1].Status)

	empty, err := svc.ProviderInventory(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSupplierViewRanksAndRecordsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newService(t, metrics.New(reg))

	ranked, err := svc.SupplierView(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "red", ranked[0].Provider.ID)
	assert.Equal(t, "yellow", ranked[1].Provider.ID)
	assert.Equal(t, "green", ranked[2].Provider.ID)
	assert.Equal(t, 1, ranked[0].RedCount)
	assert.Equal(t, 2, ranked[1].YellowCount)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	gauges := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "foodhub_stock_rows" {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			for _, l := range m.GetLabel() {
				key += l.GetName() + "=" + l.GetValue() + ","
			}
			gauges[key] = m.GetGauge().GetValue()
		}
	}
	assert.Len(t, gauges, 9)
	assert.Equal(t, float64(1), gauges["provider=red,status=red,"])
	assert.Equal(t, float64(2), gauges["provider=yellow,status=yellow,"])
	assert.Equal(t, float64(0), gauges["provider=green,status=red,"])
}

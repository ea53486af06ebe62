package orders

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/foodhub/internal/apperr"
	"github.com/erazemk/foodhub/internal/db"
	"github.com/erazemk/foodhub/internal/ledger"
	"github.com/erazemk/foodhub/internal/metrics"
	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/pickup"
	"github.com/erazemk/foodhub/internal/store"
)

const hub = "hub-h"

// fixture is one hub stocking 10 bread and 3 milk, plus a second hub.
func fixture() *model.Snapshot {
	return &model.Snapshot{
		Providers: []model.Provider{{ID: hub, Name: "Hub H"}, {ID: "hub-other", Name: "Other"}},
		FoodItems: []model.FoodItem{
			{ID: "bread", Name: "Bread", Unit: "loaf"},
			{ID: "milk", Name: "Milk", Unit: "gallon"},
		},
		Inventory: []model.InventoryRow{
			{ID: 1, ProviderID: hub, FoodID: "bread", Quantity: 10, ThresholdLow: 5, ThresholdMedium: 15},
			{ID: 2, ProviderID: hub, FoodID: "milk", Quantity: 3, ThresholdLow: 5, ThresholdMedium: 15},
			{ID: 3, ProviderID: "hub-other", FoodID: "bread", Quantity: 4, ThresholdLow: 5, ThresholdMedium: 15},
		},
	}
}

type harness struct {
	svc   *Service
	store *store.Store
	clock time.Time
}

func newHarness(t *testing.T, snap *model.Snapshot) *harness {
	t.Helper()
	st := store.New(store.NewMemory(snap), store.DefaultSeedOptions())
	h := &harness{store: st, clock: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)}
	h.svc = NewService(st, pickup.NewCodec("test-secret"), nil)
	h.svc.now = func() time.Time {
		h.clock = h.clock.Add(time.Minute)
		return h.clock
	}
	return h
}

func (h *harness) quantity(t *testing.T, providerID, foodID string) int {
	t.Helper()
	snap, err := h.store.Load(context.Background())
	require.NoError(t, err)
	row := ledger.Find(snap, providerID, foodID)
	require.NotNil(t, row, "%s/%s", providerID, foodID)
	return row.Quantity
}

func (h *harness) snapshot(t *testing.T) *model.Snapshot {
	t.Helper()
	snap, err := h.store.Load(context.Background())
	require.NoError(t, err)
	return snap
}

func TestCreateOrder(t *testing.T) {
	h := newHarness(t, fixture())
	ctx := context.Background()

	receipt, err := h.svc.Create(ctx, hub, []ItemRequest{{FoodID: "bread", Quantity: 2}, {FoodID: "milk", Quantity: 3}})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.OrderID)
	assert.NotEmpty(t, receipt.PickupToken)

	snap := h.snapshot(t)
	require.Len(t, snap.Orders, 1)
	order := snap.Orders[0]
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, receipt.PickupToken, order.PickupToken)
	assert.Nil(t, order.PickedAt)
	assert.Len(t, snap.ItemsOf(order.ID), 2)

	// Creation never touches stock.
	assert.Equal(t, 10, h.quantity(t, hub, "bread"))
	assert.Equal(t, 3, h.quantity(t, hub, "milk"))
}

func TestCreateOrderTokenCarriesOrder(t *testing.T) {
	h := newHarness(t, fixture())

	receipt, err := h.svc.Create(context.Background(), hub, []ItemRequest{{FoodID: "bread", Quantity: 1}})
	require.NoError(t, err)

	claims, err := h.svc.tokens.Parse(receipt.PickupToken)
	require.NoError(t, err)
	assert.Equal(t, receipt.OrderID, claims.OrderID)
	assert.Equal(t, hub, claims.ProviderID)
	assert.True(t, claims.CreatedAt.Equal(receipt.CreatedAt))
}

func TestCreateOrderIDsAreUnique(t *testing.T) {
	h := newHarness(t, fixture())
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		r, err := h.svc.Create(context.Background(), hub, []ItemRequest{{FoodID: "bread", Quantity: 1}})
		require.NoError(t, err)
		assert.False(t, seen[r.OrderID], "duplicate id %s", r.OrderID)
		assert.Len(t, r.OrderID, len("ord_")+32)
		seen[r.OrderID] = true
	}
}

func TestCreateOrderInvalidRequest(t *testing.T) {
	h := newHarness(t, fixture())
	ctx := context.Background()

	tests := []struct {
		name       string
		providerID string
		items      []ItemRequest
	}{
		{"missing provider", "", []ItemRequest{{FoodID: "bread", Quantity: 1}}},
		{"no items", hub, nil},
		{"empty items", hub, []ItemRequest{}},
		{"zero quantity", hub, []ItemRequest{{FoodID: "bread", Quantity: 0}}},
		{"negative quantity", hub, []ItemRequest{{FoodID: "bread", Quantity: -2}}},
		{"missing food", hub, []ItemRequest{{Quantity: 1}}},
		{"line above cap", hub, []ItemRequest{{FoodID: "bread", Quantity: MaxLineQuantity + 1}}},
		{"overflowing line", hub, []ItemRequest{{FoodID: "bread", Quantity: math.MaxInt}, {FoodID: "bread", Quantity: math.MaxInt}}},
		{"unknown provider", "hub-nowhere", []ItemRequest{{FoodID: "bread", Quantity: 1}}},
		{"food not stocked at hub", "hub-other", []ItemRequest{{FoodID: "milk", Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Create(ctx, tt.providerID, tt.items)
			assert.True(t, apperr.Is(err, apperr.CodeInvalidRequest), "got %v", err)
		})
	}
	assert.Empty(t, h.snapshot(t).Orders)
}

func TestCreateOrderAllOrNothing(t *testing.T) {
	h := newHarness(t, fixture())

	_, err := h.svc.Create(context.Background(), hub, []ItemRequest{
		{FoodID: "bread", Quantity: 5},
		{FoodID: "milk", Quantity: 4},
	})
	require.True(t, apperr.Is(err, apperr.CodeInsufficientStock), "got %v", err)

	details := apperr.As(err).Details().(map[string]any)
	short := details["shortfalls"].([]ledger.Shortfall)
	assert.Equal(t, []ledger.Shortfall{{FoodID: "milk", Requested: 4, Available: 3}}, short)

	snap := h.snapshot(t)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.OrderItems)
}

func TestCreateOrderSumsRepeatedFoods(t *testing.T) {
	h := newHarness(t, fixture())

	_, err := h.svc.Create(context.Background(), hub, []ItemRequest{
		{FoodID: "milk", Quantity: 2},
		{FoodID: "milk", Quantity: 2},
	})
	assert.True(t, apperr.Is(err, apperr.CodeInsufficientStock), "got %v", err)

	_, err = h.svc.Create(context.Background(), hub, []ItemRequest{
		{FoodID: "milk", Quantity: 2},
		{FoodID: "milk", Quantity: 1},
	})
	assert.NoError(t, err)
}

func TestCreateOrderCappedLinesCannotAddStock(t *testing.T) {
	h := newHarness(t, fixture())
	ctx := context.Background()

	lines := make([]ItemRequest, 0, 4)
	for i := 0; i < 4; i++ {
		lines = append(lines, ItemRequest{FoodID: "bread", Quantity: MaxLineQuantity})
	}
	_, err := h.svc.Create(ctx, hub, lines)
	assert.True(t, apperr.Is(err, apperr.CodeInsufficientStock), "got %v", err)
	assert.Empty(t, h.snapshot(t).Orders)
	assert.Equal(t, 10, h.quantity(t, hub, "bread"))
}

func TestListByProviderNewestFirst(t *testing.T) {
	h := newHarness(t, fixture())
	ctx := context.Background()

	first, _ := h.svc.Create(ctx, hub, []ItemRequest{{FoodID: "bread", Quantity: 1}})
	h.svc.Create(ctx, "hub-other", []ItemRequest{{FoodID: "bread", Quantity: 1}})
	second, _ := h.svc.Create(ctx, hub, []ItemRequest{{FoodID: "milk", Quantity: 2}, {FoodID: "bread", Quantity: 1}})

	orders, err := h.svc.ListByProvider(ctx, hub)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.OrderID, orders[0].ID)
	assert.Equal(t, first.OrderID, orders[1].ID)

	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, model.OrderLine{FoodID: "milk", FoodName: "Milk", Quantity: 2}, orders[0].Items[0])
	assert.Equal(t, "Bread", orders[0].Items[1].FoodName)

	none, err := h.svc.ListByProvider(ctx, "hub-nowhere")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByProviderSameInstant(t *testing.T) {
	h := newHarness(t, fixture())
	ctx := context.Background()
	fixed := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	h.svc.now = func() time.Time { return fixed }

	var ids []string
	for i := 0; i < 3; i++ {
		r, err := h.svc.Create(ctx, hub, []ItemRequest{{FoodID: "bread", Quantity: 1}})
		require.NoError(t, err)
		ids = append(ids, r.OrderID)
	}

	orders, err := h.svc.ListByProvider(ctx, hub)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestCreateOrderStorageFailure(t *testing.T) {
	database := db.NewTestDB(t)
	st := store.New(store.NewSQLite(database), store.DefaultSeedOptions())
	svc := NewService(st, pickup.NewCodec("test-secret"), nil)
	ctx := context.Background()

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	database.Close()

	_, err = svc.Create(ctx, snap.Providers[0].ID, []ItemRequest{{FoodID: snap.FoodItems[0].ID, Quantity: 1}})
	assert.True(t, apperr.Is(err, apperr.CodeStorageFailure), "got %v", err)
}

func TestRejectionsAreCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newHarness(t, fixture())
	h.svc.metrics = metrics.New(reg)
	ctx := context.Background()

	h.svc.Create(ctx, hub, []ItemRequest{{FoodID: "milk", Quantity: 99}})
	h.svc.Confirm(ctx, "ord_missing", "")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range mfs {
		if mf.GetName() == "foodhub_operations_rejected_total" {
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), total)
}

func ExampleService_Create() {
	st := store.New(store.NewMemory(fixture()), store.DefaultSeedOptions())
	svc := NewService(st, pickup.NewCodec("secret"), nil)

	_, err := svc.Create(context.Background(), hub, []ItemRequest{{FoodID: "milk", Quantity: 4}})
	fmt.Println(apperr.CodeOf(err))
	// Output: INSUFFICIENT_STOCK
}

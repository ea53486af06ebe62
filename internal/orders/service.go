// Package orders creates patron orders and confirms their pickup.
//
// Stock is not reserved when an order is created: the sufficiency check only
// looks at the stock at that moment, and several open orders may together
// claim more than a hub holds. Stock is taken at pickup confirmation, which
// refuses to drive any row below zero.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/erazemk/foodhub/internal/apperr"
	"github.com/erazemk/foodhub/internal/ledger"
	"github.com/erazemk/foodhub/internal/metrics"
	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/pickup"
	"github.com/erazemk/foodhub/internal/store"
)

var validate = validator.New()

// MaxLineQuantity caps a single cart line. Keep in sync with the lte tag below.
const MaxLineQuantity = 1_000_000

// ItemRequest is one requested cart line.
type ItemRequest struct {
	FoodID   string `json:"food_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0,lte=1000000"`
}

type createInput struct {
	ProviderID string        `validate:"required"`
	Items      []ItemRequest `validate:"required,min=1,dive"`
}

// Receipt is returned to the patron when an order is accepted.
type Receipt struct {
	OrderID     string    `json:"order_id"`
	PickupToken string    `json:"pickup_token"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service is the order engine. All mutations go through the store's
// exclusive Update, so they are serialized against each other.
type Service struct {
	store   *store.Store
	tokens  *pickup.Codec
	metrics *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// NewService returns an order engine over st. m may be nil.
func NewService(st *store.Store, tokens *pickup.Codec, m *metrics.Metrics) *Service {
	return &Service{
		store:   st,
		tokens:  tokens,
		metrics: m,
		now:     time.Now,
		newID:   func() string { return "ord_" + strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// Create places an order for items at a hub. Either every item fits the
// hub's current stock and the order is stored, or nothing is written.
func (s *Service) Create(ctx context.Context, providerID string, items []ItemRequest) (*Receipt, error) {
	receipt, err := s.create(ctx, providerID, items)
	if err != nil {
		s.metrics.Rejected("create_order", string(apperr.CodeOf(err)))
		return nil, err
	}
	s.metrics.OrderCreated()
	slog.Info("order created", "order", receipt.OrderID, "provider", providerID, "items", len(items))
	return receipt, nil
}

func (s *Service) create(ctx context.Context, providerID string, items []ItemRequest) (*Receipt, error) {
	if err := validate.Struct(createInput{ProviderID: providerID, Items: items}); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidRequest, err, "provider_id and items required")
	}

	var receipt *Receipt
	err := s.store.Update(ctx, func(snap *model.Snapshot) error {
		if _, ok := snap.Provider(providerID); !ok {
			return apperr.Newf(apperr.CodeInvalidRequest, "unknown provider %q", providerID)
		}

		id := s.newID()
		lines := make([]model.OrderItem, len(items))
		for i, it := range items {
			lines[i] = model.OrderItem{OrderID: id, FoodID: it.FoodID, Quantity: it.Quantity}
		}

		missing, short := ledger.Check(snap, providerID, lines)
		if len(missing) > 0 {
			return apperr.Newf(apperr.CodeInvalidRequest, "no stock of %s at this hub", strings.Join(missing, ", ")).
				WithDetails(map[string]any{"unknown_foods": missing})
		}
		if len(short) > 0 {
			return apperr.New(apperr.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{"shortfalls": short})
		}

		createdAt := s.now().UTC()
		token, err := s.tokens.Issue(id, providerID, createdAt)
		if err != nil {
			return fmt.Errorf("issuing pickup token: %w", err)
		}

		snap.Orders = append(snap.Orders, model.Order{
			ID:          id,
			ProviderID:  providerID,
			Status:      model.OrderStatusPending,
			PickupToken: token,
			CreatedAt:   createdAt,
		})
		snap.OrderItems = append(snap.OrderItems, lines...)

		receipt = &Receipt{OrderID: id, PickupToken: token, CreatedAt: createdAt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListByProvider returns a hub's orders with their items, newest first.
// Orders created at the same instant are listed latest insert first.
func (s *Service) ListByProvider(ctx context.Context, providerID string) ([]model.Order, error) {
	var orders []model.Order
	err := s.store.View(ctx, func(snap *model.Snapshot) error {
		for i := len(snap.Orders) - 1; i >= 0; i-- {
			o := snap.Orders[i]
			if o.ProviderID != providerID {
				continue
			}
			o.Items = resolveItems(snap, o.ID)
			orders = append(orders, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(orders, func(a, b model.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return orders, nil
}

func resolveItems(snap *model.Snapshot, orderID string) []model.OrderLine {
	items := snap.ItemsOf(orderID)
	lines := make([]model.OrderLine, 0, len(items))
	for _, it := range items {
		line := model.OrderLine{FoodID: it.FoodID, FoodName: it.FoodID, Quantity: it.Quantity}
		if f, ok := snap.Food(it.FoodID); ok {
			line.FoodName = f.Name
		}
		lines = append(lines, line)
	}
	return lines
}

// findOpen returns the order with the given id unless it was already picked up.
func findOpen(snap *model.Snapshot, orderID string) (*model.Order, error) {
	o, ok := snap.Order(orderID)
	if !ok || !o.Open() {
		return nil, apperr.Newf(apperr.CodeOrderNotFound, "order %q not found or already picked up", orderID)
	}
	return o, nil
}

func checkProvider(o *model.Order, providerID string) error {
	if providerID != "" && o.ProviderID != providerID {
		return apperr.Newf(apperr.CodeProviderMismatch, "order %q belongs to another hub", o.ID)
	}
	return nil
}

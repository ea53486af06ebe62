package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/erazemk/foodhub/internal/apperr"
	"github.com/erazemk/foodhub/internal/ledger"
	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/pickup"
)

// Confirm records that an order was handed over and takes its items out of
// the hub's stock. providerID, when set, must own the order. An order is
// confirmed at most once; later calls fail with OrderNotFound.
//
// Stock rows that have disappeared are skipped. If a present row holds less
// than the order needs, confirmation fails with InsufficientStock and the
// order stays open.
func (s *Service) Confirm(ctx context.Context, orderID, providerID string) error {
	wait, err := s.confirm(ctx, orderID, providerID)
	if err != nil {
		s.metrics.Rejected("confirm_pickup", string(apperr.CodeOf(err)))
		return err
	}
	s.metrics.PickupConfirmed(wait)
	slog.Info("pickup confirmed", "order", orderID, "provider", providerID, "wait", wait.Round(time.Second))
	return nil
}

func (s *Service) confirm(ctx context.Context, orderID, providerID string) (time.Duration, error) {
	if orderID == "" {
		return 0, apperr.New(apperr.CodeInvalidRequest, "order_id required")
	}

	var wait time.Duration
	err := s.store.Update(ctx, func(snap *model.Snapshot) error {
		order, err := findOpen(snap, orderID)
		if err != nil {
			return err
		}
		if err := checkProvider(order, providerID); err != nil {
			return err
		}

		items := snap.ItemsOf(order.ID)
		missing, _ := ledger.Check(snap, order.ProviderID, items)
		if short := ledger.Deduct(snap, order.ProviderID, items); len(short) > 0 {
			return apperr.New(apperr.CodeInsufficientStock, "hub stock no longer covers this order").
				WithDetails(map[string]any{"shortfalls": short})
		}
		for _, foodID := range missing {
			slog.Warn("stock row missing at pickup, skipped", "order", order.ID, "provider", order.ProviderID, "food", foodID)
		}

		pickedAt := s.now().UTC()
		order.Status = model.OrderStatusPickedUp
		order.PickedAt = &pickedAt
		wait = pickedAt.Sub(order.CreatedAt)
		return nil
	})
	return wait, err
}

// ConfirmToken confirms the order named by a scanned pickup token and
// returns its id. orderID, when set, must name the same order as the token.
func (s *Service) ConfirmToken(ctx context.Context, token, orderID, providerID string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.metrics.Rejected("confirm_pickup", string(apperr.CodeInvalidRequest))
		if errors.Is(err, pickup.ErrInvalidToken) {
			return "", apperr.Wrap(apperr.CodeInvalidRequest, err, "invalid pickup token")
		}
		return "", err
	}
	if orderID != "" && orderID != claims.OrderID {
		s.metrics.Rejected("confirm_pickup", string(apperr.CodeInvalidRequest))
		return "", apperr.New(apperr.CodeInvalidRequest, "order_id does not match the pickup token").
			WithDetails(map[string]any{"order_id": orderID})
	}
	if err := s.Confirm(ctx, claims.OrderID, providerID); err != nil {
		return "", err
	}
	return claims.OrderID, nil
}

// MarkPrepared moves a pending order to prepared. Marking a prepared order
// again succeeds without recording anything.
func (s *Service) MarkPrepared(ctx context.Context, orderID, providerID string) error {
	changed, err := s.markPrepared(ctx, orderID, providerID)
	if err != nil {
		s.metrics.Rejected("mark_prepared", string(apperr.CodeOf(err)))
		return err
	}
	if !changed {
		return nil
	}
	s.metrics.OrderPrepared()
	slog.Info("order prepared", "order", orderID, "provider", providerID)
	return nil
}

func (s *Service) markPrepared(ctx context.Context, orderID, providerID string) (bool, error) {
	if orderID == "" {
		return false, apperr.New(apperr.CodeInvalidRequest, "order_id required")
	}

	changed := false
	err := s.store.Update(ctx, func(snap *model.Snapshot) error {
		order, err := findOpen(snap, orderID)
		if err != nil {
			return err
		}
		if err := checkProvider(order, providerID); err != nil {
			return err
		}
		if order.Status != model.OrderStatusPrepared {
			order.Status = model.OrderStatusPrepared
			changed = true
		}
		return nil
	})
	return changed, err
}

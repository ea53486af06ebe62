package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/foodhub/internal/model"
)

// SQLite is a Backend over the tables created by db.Migrate.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite returns a SQLite backend.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

// Load reads all tables inside one transaction.
func (b *SQLite) Load(ctx context.Context) (*model.Snapshot, error) {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	s := &model.Snapshot{}
	if s.Providers, err = loadProviders(ctx, tx); err != nil {
		return nil, err
	}
	if s.FoodItems, err = loadFoodItems(ctx, tx); err != nil {
		return nil, err
	}
	if s.Inventory, err = loadInventory(ctx, tx); err != nil {
		return nil, err
	}
	if s.Orders, err = loadOrders(ctx, tx); err != nil {
		return nil, err
	}
	if s.OrderItems, err = loadOrderItems(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing load: %w", err)
	}
	return s, nil
}

// Save rewrites the dataset in a single transaction. Catalog rows are upserted
// and never deleted; stock rows and the order log are replaced wholesale.
func (b *SQLite) Save(ctx context.Context, s *model.Snapshot) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, p := range s.Providers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO providers (id, position, name, address) VALUES (?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET position = excluded.position, name = excluded.name, address = excluded.address`,
			p.ID, i, p.Name, nullString(p.Address),
		)
		if err != nil {
			return fmt.Errorf("saving provider %s: %w", p.ID, err)
		}
	}

	for i, f := range s.FoodItems {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO food_items (id, position, name, unit) VALUES (?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET position = excluded.position, name = excluded.name, unit = excluded.unit`,
			f.ID, i, f.Name, f.Unit,
		)
		if err != nil {
			return fmt.Errorf("saving food item %s: %w", f.ID, err)
		}
	}

	for _, table := range []string{"order_items", "orders", "inventory"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, r := range s.Inventory {
		var id any
		if r.ID > 0 {
			id = r.ID
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inventory (id, provider_id, food_id, quantity, threshold_low, threshold_medium)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, r.ProviderID, r.FoodID, r.Quantity, r.ThresholdLow, r.ThresholdMedium,
		)
		if err != nil {
			return fmt.Errorf("saving stock %s/%s: %w", r.ProviderID, r.FoodID, err)
		}
	}

	for i, o := range s.Orders {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, position, provider_id, status, pickup_token, created_at, picked_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			o.ID, i, o.ProviderID, string(o.Status), nullString(o.PickupToken), o.CreatedAt.UTC(), utcPtr(o.PickedAt),
		)
		if err != nil {
			return fmt.Errorf("saving order %s: %w", o.ID, err)
		}
	}

	for i, it := range s.OrderItems {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, food_id, quantity) VALUES (?, ?, ?, ?)`,
			it.OrderID, i, it.FoodID, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("saving item of order %s: %w", it.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Reset deletes the dataset and food photos. Settings are kept.
func (b *SQLite) Reset(ctx context.Context) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"order_items", "orders", "inventory", "food_images", "food_items", "providers"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset: %w", err)
	}
	return nil
}

func loadProviders(ctx context.Context, tx *sql.Tx) ([]model.Provider, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, address FROM providers ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("listing providers: %w", err)
	}
	defer rows.Close()

	var providers []model.Provider
	for rows.Next() {
		var p model.Provider
		var address sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &address); err != nil {
			return nil, fmt.Errorf("scanning provider: %w", err)
		}
		p.Address = address.String
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func loadFoodItems(ctx context.Context, tx *sql.Tx) ([]model.FoodItem, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, unit FROM food_items ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("listing food items: %w", err)
	}
	defer rows.Close()

	var foods []model.FoodItem
	for rows.Next() {
		var f model.FoodItem
		if err := rows.Scan(&f.ID, &f.Name, &f.Unit); err != nil {
			return nil, fmt.Errorf("scanning food item: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func loadInventory(ctx context.Context, tx *sql.Tx) ([]model.InventoryRow, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, provider_id, food_id, quantity, threshold_low, threshold_medium
		 FROM inventory ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var inventory []model.InventoryRow
	for rows.Next() {
		var r model.InventoryRow
		if err := rows.Scan(&r.ID, &r.ProviderID, &r.FoodID, &r.Quantity, &r.ThresholdLow, &r.ThresholdMedium); err != nil {
			return nil, fmt.Errorf("scanning inventory: %w", err)
		}
		inventory = append(inventory, r)
	}
	return inventory, rows.Err()
}

func loadOrders(ctx context.Context, tx *sql.Tx) ([]model.Order, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, provider_id, status, pickup_token, created_at, picked_at
		 FROM orders ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var status string
		var token sql.NullString
		if err := rows.Scan(&o.ID, &o.ProviderID, &status, &token, &o.CreatedAt, &o.PickedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.Status = model.OrderStatus(status)
		o.PickupToken = token.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func loadOrderItems(ctx context.Context, tx *sql.Tx) ([]model.OrderItem, error) {
	rows, err := tx.QueryContext(ctx, `SELECT order_id, food_id, quantity FROM order_items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.OrderID, &it.FoodID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

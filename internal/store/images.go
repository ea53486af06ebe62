package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SetFoodImage stores the photo shown for a food item, replacing any previous one.
func SetFoodImage(ctx context.Context, db *sql.DB, foodID string, data []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO food_images (food_id, image, image_mime) VALUES (?, ?, ?)
		 ON CONFLICT (food_id) DO UPDATE SET image = excluded.image, image_mime = excluded.image_mime, updated_at = CURRENT_TIMESTAMP`,
		foodID, data, mime,
	)
	if err != nil {
		return fmt.Errorf("setting food image: %w", err)
	}
	return nil
}

// GetFoodImage returns the photo for a food item, or nil data if none is stored.
func GetFoodImage(ctx context.Context, db *sql.DB, foodID string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM food_images WHERE food_id = ?`, foodID,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting food image: %w", err)
	}
	return data, mime, nil
}

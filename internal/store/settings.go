package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

// tokenSecretKey holds the HMAC key that signs pickup tokens. It lives in
// settings rather than the snapshot, so reseeding keeps outstanding tokens
// verifiable.
const tokenSecretKey = "pickup_token_secret"

// TokenSecret returns the pickup token key, creating it on first use.
// Concurrent first calls agree on one key: the insert is ignored when a key
// already exists and the stored value is always read back.
func TokenSecret(ctx context.Context, db *sql.DB) (string, error) {
	secret, err := setting(ctx, db, tokenSecretKey)
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		tokenSecretKey, hex.EncodeToString(buf),
	); err != nil {
		return "", fmt.Errorf("storing token secret: %w", err)
	}
	return setting(ctx, db, tokenSecretKey)
}

func setting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

package store

import (
	"context"
	"testing"

	"github.com/erazemk/foodhub/internal/db"
)

func TestTokenSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := TokenSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := TokenSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestTokenSecretSurvivesReset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	before, _ := TokenSecret(ctx, database)
	if err := NewSQLite(database).Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	after, _ := TokenSecret(ctx, database)
	if before != after {
		t.Error("expected reset to keep the token secret")
	}
}

func TestTokenSecretKeepsExistingKey(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := database.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, 'configured')`, tokenSecretKey); err != nil {
		t.Fatalf("inserting setting: %v", err)
	}
	secret, err := TokenSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret != "configured" {
		t.Errorf("expected stored key, got %q", secret)
	}
}

package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/erazemk/foodhub/internal/apperr"
	"github.com/erazemk/foodhub/internal/model"
)

// Backend loads and saves the whole dataset. Save must be atomic: a
// subsequent Load sees either the previous snapshot or the new one.
type Backend interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, s *model.Snapshot) error
}

// Store serializes access to a Backend. Mutations run load, compute and save
// under one exclusive lock; reads share the lock so they never see a torn save.
type Store struct {
	backend Backend
	seed    SeedOptions

	mu     sync.RWMutex
	seeded atomic.Bool
}

// New returns a Store over backend. An empty backend is seeded on first use.
func New(backend Backend, seed SeedOptions) *Store {
	return &Store{backend: backend, seed: seed}
}

// Load returns the current snapshot, seeding the backend first if it is empty.
func (s *Store) Load(ctx context.Context) (*model.Snapshot, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx)
}

// Save replaces the stored snapshot.
func (s *Store) Save(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, snap)
}

// View runs fn against the current snapshot. fn must not retain or mutate it.
func (s *Store) View(ctx context.Context, fn func(*model.Snapshot) error) error {
	snap, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return fn(snap)
}

// Update runs fn against the current snapshot and saves the result if fn
// returns nil. Nothing is saved when fn fails.
func (s *Store) Update(ctx context.Context, fn func(*model.Snapshot) error) error {
	if err := s.ensureSeeded(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return s.save(ctx, snap)
}

// Reseed replaces the whole dataset with fresh seed data.
func (s *Store) Reseed(ctx context.Context) (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Seed(s.seed)
	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	s.seeded.Store(true)
	slog.Info("dataset seeded", "providers", len(snap.Providers), "rows", len(snap.Inventory))
	return snap, nil
}

func (s *Store) ensureSeeded(ctx context.Context) error {
	if s.seeded.Load() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded.Load() {
		return nil
	}

	snap, err := s.backend.Load(ctx)
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		return apperr.Wrap(apperr.CodeStorageFailure, err, "loading snapshot")
	}
	if snap.Empty() {
		snap = Seed(s.seed)
		if err := s.save(ctx, snap); err != nil {
			return err
		}
		slog.Info("dataset seeded", "providers", len(snap.Providers), "rows", len(snap.Inventory))
	}

	s.seeded.Store(true)
	return nil
}

// load must be called with mu held.
func (s *Store) load(ctx context.Context) (*model.Snapshot, error) {
	snap, err := s.backend.Load(ctx)
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		return nil, apperr.Wrap(apperr.CodeStorageFailure, err, "loading snapshot")
	}

	clean, issues := Quarantine(snap)
	for _, is := range issues {
		slog.Warn("quarantined row", "table", is.Table, "key", is.Key, "reason", is.Reason)
	}
	return clean, nil
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context, snap *model.Snapshot) error {
	if err := s.backend.Save(ctx, snap); err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return apperr.Wrap(apperr.CodeStorageFailure, err, "saving snapshot")
	}
	return nil
}

package store

import (
	"context"
	"sync"

	"github.com/erazemk/foodhub/internal/model"
)

// Memory is a Backend that keeps the snapshot in process memory.
type Memory struct {
	mu   sync.Mutex
	snap *model.Snapshot
}

// NewMemory returns a Memory backend holding a copy of initial, or nothing if initial is nil.
func NewMemory(initial *model.Snapshot) *Memory {
	m := &Memory{}
	if initial != nil {
		m.snap = initial.Clone()
	}
	return m
}

func (m *Memory) Load(_ context.Context) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return &model.Snapshot{}, nil
	}
	return m.snap.Clone(), nil
}

func (m *Memory) Save(_ context.Context, s *model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s.Clone()
	return nil
}

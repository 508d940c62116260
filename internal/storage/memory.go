package storage

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFaucet/internal/model"
)

// MemoryStore keeps faucet state in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	settings *model.Settings
	claims   map[common.Address]uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{claims: make(map[common.Address]uint64)}
}

func (s *MemoryStore) LoadSettings(ctx context.Context) (model.Settings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return model.Settings{}, false, nil
	}
	return s.settings.Clone(), true, nil
}

func (s *MemoryStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	cloned := settings.Clone()
	s.mu.Lock()
	s.settings = &cloned
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LastClaim(ctx context.Context, claimant common.Address) (uint64, bool, error) {
	s.mu.RLock()
	ts, ok := s.claims[claimant]
	s.mu.RUnlock()
	return ts, ok, nil
}

func (s *MemoryStore) SaveClaim(ctx context.Context, claimant common.Address, ts uint64) error {
	s.mu.Lock()
	s.claims[claimant] = ts
	s.mu.Unlock()
	return nil
}

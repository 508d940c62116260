package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFaucet/internal/model"
)

// FileStore persists faucet state in a local JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileState struct {
	Settings  *model.Settings           `json:"settings,omitempty"`
	Claims    map[common.Address]uint64 `json:"claims"`
	UpdatedAt string                    `json:"updated_at"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadSettings(ctx context.Context) (model.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return model.Settings{}, false, err
	}
	if state.Settings == nil {
		return model.Settings{}, false, nil
	}
	return *state.Settings, true, nil
}

func (s *FileStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	cloned := settings.Clone()
	state.Settings = &cloned
	return s.write(state)
}

func (s *FileStore) LastClaim(ctx context.Context, claimant common.Address) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return 0, false, err
	}
	ts, ok := state.Claims[claimant]
	return ts, ok, nil
}

func (s *FileStore) SaveClaim(ctx context.Context, claimant common.Address, ts uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state.Claims[claimant] = ts
	return s.write(state)
}

func (s *FileStore) read() (fileState, error) {
	state := fileState{Claims: make(map[common.Address]uint64)}

	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("stat state: %w", err)
	}
	if stat.IsDir() {
		return state, fmt.Errorf("state path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return state, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("parse state: %w", err)
	}
	if state.Claims == nil {
		state.Claims = make(map[common.Address]uint64)
	}
	return state, nil
}

func (s *FileStore) write(state fileState) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	state.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

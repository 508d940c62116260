package faucet

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFaucet/internal/model"
	"liquidityFaucet/internal/storage"
)

// MaxClaimInterval keeps intervals representable by every storage backend.
const MaxClaimInterval = math.MaxInt64

// ConfigStore validates and persists the faucet settings singleton.
type ConfigStore struct {
	store storage.Store
}

func NewConfigStore(store storage.Store) *ConfigStore {
	return &ConfigStore{store: store}
}

// Initialize persists the initial settings. It can succeed only once per store.
func (c *ConfigStore) Initialize(ctx context.Context, settings model.Settings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}
	_, ok, err := c.store.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if ok {
		return ErrAlreadyInitialized
	}
	if err := c.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Load returns the current settings.
func (c *ConfigStore) Load(ctx context.Context) (model.Settings, error) {
	settings, ok, err := c.store.LoadSettings(ctx)
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return model.Settings{}, ErrNotInitialized
	}
	return settings, nil
}

// SetAmount replaces the per-claim amount.
func (c *ConfigStore) SetAmount(ctx context.Context, caller common.Address, amount *big.Int) error {
	return c.update(ctx, caller, func(s *model.Settings) error {
		if amount == nil || amount.Sign() <= 0 {
			return ErrAmountNotPositive
		}
		s.Amount = new(big.Int).Set(amount)
		return nil
	})
}

// SetClaimInterval replaces the minimum seconds between claims.
func (c *ConfigStore) SetClaimInterval(ctx context.Context, caller common.Address, interval uint64) error {
	return c.update(ctx, caller, func(s *model.Settings) error {
		if interval > MaxClaimInterval {
			return ErrIntervalTooLarge
		}
		s.ClaimInterval = interval
		return nil
	})
}

// SetTargetAsset replaces the distributed asset.
func (c *ConfigStore) SetTargetAsset(ctx context.Context, caller common.Address, asset model.Asset) error {
	return c.update(ctx, caller, func(s *model.Settings) error {
		if !asset.Valid() {
			return ErrInvalidAsset
		}
		s.TargetAsset = asset
		return nil
	})
}

// RequireAdmin fails with ErrNotAdmin unless caller is the configured admin.
func (c *ConfigStore) RequireAdmin(ctx context.Context, caller common.Address) (model.Settings, error) {
	settings, err := c.Load(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	if caller != settings.Admin {
		return model.Settings{}, ErrNotAdmin
	}
	return settings, nil
}

func (c *ConfigStore) update(ctx context.Context, caller common.Address, mutate func(*model.Settings) error) error {
	settings, err := c.RequireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if err := mutate(&settings); err != nil {
		return err
	}
	if err := c.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func validateSettings(settings model.Settings) error {
	if settings.Amount == nil || settings.Amount.Sign() <= 0 {
		return ErrAmountNotPositive
	}
	if !settings.TargetAsset.Valid() {
		return ErrInvalidAsset
	}
	if settings.ClaimInterval > MaxClaimInterval {
		return ErrIntervalTooLarge
	}
	return nil
}

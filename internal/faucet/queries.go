package faucet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFaucet/internal/model"
)

// Settings returns the current configuration.
func (s *Service) Settings(ctx context.Context) (model.Settings, error) {
	var settings model.Settings
	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		var err error
		settings, err = s.config.Load(ctx)
		return err
	})
	return settings, err
}

func (s *Service) FaucetAmount(ctx context.Context) (*big.Int, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return settings.Amount, nil
}

func (s *Service) ClaimInterval(ctx context.Context) (uint64, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.ClaimInterval, nil
}

func (s *Service) TargetAsset(ctx context.Context) (model.Asset, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.TargetAsset, nil
}

func (s *Service) Admin(ctx context.Context) (common.Address, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return settings.Admin, nil
}

func (s *Service) PoolAddress(ctx context.Context) (common.Address, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return settings.Pool, nil
}

// ShareBalance returns the faucet's pool share balance.
func (s *Service) ShareBalance(ctx context.Context) (*big.Int, error) {
	var balance *big.Int
	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.pool.ShareBalance(ctx, s.self)
		if err != nil {
			return fmt.Errorf("get share balance: %w", err)
		}
		return nil
	})
	return balance, err
}

// PoolReserves passes the pool's reserves through unmodified.
func (s *Service) PoolReserves(ctx context.Context) (*big.Int, *big.Int, error) {
	var reserveA, reserveB *big.Int
	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		var err error
		reserveA, reserveB, err = s.pool.Reserves(ctx)
		if err != nil {
			return fmt.Errorf("get reserves: %w", err)
		}
		return nil
	})
	return reserveA, reserveB, err
}

// Tokens passes the pool's token addresses through unmodified.
func (s *Service) Tokens(ctx context.Context) (common.Address, common.Address, error) {
	var tokenA, tokenB common.Address
	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		var err error
		tokenA, tokenB, err = s.pool.Tokens(ctx)
		if err != nil {
			return fmt.Errorf("get tokens: %w", err)
		}
		return nil
	})
	return tokenA, tokenB, err
}

// TimeUntilNextClaim returns the seconds claimant must still wait.
func (s *Service) TimeUntilNextClaim(ctx context.Context, claimant common.Address) (uint64, error) {
	eligibility, err := s.Eligibility(ctx, claimant)
	if err != nil {
		return 0, err
	}
	return eligibility.TimeUntilNextClaim, nil
}

// CanClaim reports whether claimant may claim now.
func (s *Service) CanClaim(ctx context.Context, claimant common.Address) (bool, error) {
	eligibility, err := s.Eligibility(ctx, claimant)
	if err != nil {
		return false, err
	}
	return eligibility.CanClaim, nil
}

// Eligibility returns the rate-limit view for claimant at the current time.
func (s *Service) Eligibility(ctx context.Context, claimant common.Address) (model.Eligibility, error) {
	var out model.Eligibility
	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		settings, err := s.config.Load(ctx)
		if err != nil {
			return err
		}
		now, err := s.clock.Now(ctx)
		if err != nil {
			return fmt.Errorf("read clock: %w", err)
		}
		out, err = s.ledger.Eligibility(ctx, claimant, now, settings.ClaimInterval)
		return err
	})
	return out, err
}

// AvailableForClaims estimates how much of the target asset the faucet's
// shares could still fund.
func (s *Service) AvailableForClaims(ctx context.Context) (*big.Int, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	return status.AvailableForClaims, nil
}

// Status returns the configuration together with a fresh pool snapshot.
func (s *Service) Status(ctx context.Context) (model.Status, error) {
	var out model.Status
	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		settings, err := s.config.Load(ctx)
		if err != nil {
			return err
		}
		snap, err := s.snapshot(ctx)
		if err != nil {
			return err
		}
		out = model.Status{
			Settings:           settings,
			Service:            s.self,
			TokenA:             snap.TokenA,
			TokenB:             snap.TokenB,
			ReserveA:           snap.ReserveA,
			ReserveB:           snap.ReserveB,
			TotalShares:        snap.TotalShares,
			ShareBalance:       snap.ShareBalance,
			AvailableForClaims: EstimateAvailable(snap, settings.TargetAsset),
		}
		return nil
	})
	return out, err
}

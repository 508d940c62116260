package faucet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"liquidityFaucet/internal/model"
	"liquidityFaucet/internal/storage"
)

// Deps holds the collaborators of a Service. Executor, Journal and Metrics
// are optional.
type Deps struct {
	Self      common.Address
	Store     storage.Store
	Pool      PoolGateway
	Transfers AssetTransferer
	Clock     Clock
	Auth      Authorizer
	Executor  Executor
	Journal   storage.Journal
	Metrics   *Metrics
}

// Service distributes a fixed amount of one pool asset per claim, funded by
// redeeming the faucet's pool shares.
type Service struct {
	self      common.Address
	config    *ConfigStore
	ledger    *ClaimLedger
	pool      PoolGateway
	transfers AssetTransferer
	clock     Clock
	auth      Authorizer
	exec      Executor
	journal   storage.Journal
	metrics   *Metrics
	logger    *zap.Logger
}

// NewService builds a Service with its dependencies.
func NewService(deps Deps, logger *zap.Logger) (*Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if deps.Pool == nil {
		return nil, fmt.Errorf("pool gateway is nil")
	}
	if deps.Transfers == nil {
		return nil, fmt.Errorf("asset transferer is nil")
	}
	if deps.Clock == nil {
		return nil, fmt.Errorf("clock is nil")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("authorizer is nil")
	}
	if deps.Self == (common.Address{}) {
		return nil, fmt.Errorf("service address is required")
	}
	if deps.Executor == nil {
		deps.Executor = &SerialExecutor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		self:      deps.Self,
		config:    NewConfigStore(deps.Store),
		ledger:    NewClaimLedger(deps.Store),
		pool:      deps.Pool,
		transfers: deps.Transfers,
		clock:     deps.Clock,
		auth:      deps.Auth,
		exec:      deps.Executor,
		journal:   deps.Journal,
		metrics:   deps.Metrics,
		logger:    logger,
	}, nil
}

// Self returns the identity that holds the faucet's pool shares.
func (s *Service) Self() common.Address {
	return s.self
}

// Initialize persists the initial configuration. A zero settings.Pool is
// filled in from the pool gateway; a different non-zero one is rejected.
func (s *Service) Initialize(ctx context.Context, settings model.Settings) error {
	return s.exec.Atomic(ctx, func(ctx context.Context) error {
		gateway := s.pool.Address()
		if settings.Pool == (common.Address{}) {
			settings.Pool = gateway
		}
		if settings.Pool != gateway {
			return fmt.Errorf("%w: pool %s does not match gateway %s", ErrValidation, settings.Pool.Hex(), gateway.Hex())
		}
		if err := s.config.Initialize(ctx, settings); err != nil {
			return err
		}
		s.logger.Info("faucet initialized",
			zap.String("admin", settings.Admin.Hex()),
			zap.String("pool", settings.Pool.Hex()),
			zap.Stringer("amount", settings.Amount),
			zap.Uint64("claim_interval", settings.ClaimInterval),
			zap.Stringer("target_asset", settings.TargetAsset),
		)
		return nil
	})
}

// Claim sends the configured amount of the target asset to claimant. It
// either completes fully or leaves the claim ledger untouched.
func (s *Service) Claim(ctx context.Context, claimant common.Address) (model.ClaimReceipt, error) {
	started := time.Now()
	var receipt model.ClaimReceipt

	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.claim(ctx, claimant)
		return err
	})
	s.metrics.observeClaim(resultFor(err), time.Since(started).Seconds())
	if err != nil {
		s.logger.Warn("claim failed", zap.String("claimant", claimant.Hex()), zap.Error(err))
		return model.ClaimReceipt{}, err
	}

	s.metrics.addDistributed(receipt.SharesBurned, receipt.Amount)
	if s.journal != nil {
		if err := s.journal.PutReceipts([]model.ClaimReceipt{receipt}); err != nil {
			s.logger.Warn("journal receipt failed", zap.String("id", receipt.ID), zap.Error(err))
		}
	}

	s.logger.Info("claim complete",
		zap.String("id", receipt.ID),
		zap.String("claimant", claimant.Hex()),
		zap.Stringer("asset", receipt.Asset),
		zap.Stringer("amount", receipt.Amount),
		zap.Stringer("shares", receipt.SharesBurned),
		zap.Stringer("received_a", receipt.ReceivedA),
		zap.Stringer("received_b", receipt.ReceivedB),
		zap.Uint64("next_claim_at", receipt.NextClaimAt),
	)
	return receipt, nil
}

func (s *Service) claim(ctx context.Context, claimant common.Address) (model.ClaimReceipt, error) {
	if err := s.requireAuth(ctx, claimant); err != nil {
		return model.ClaimReceipt{}, err
	}

	settings, err := s.config.Load(ctx)
	if err != nil {
		return model.ClaimReceipt{}, err
	}

	now, err := s.clock.Now(ctx)
	if err != nil {
		return model.ClaimReceipt{}, fmt.Errorf("read clock: %w", err)
	}
	wait, err := s.ledger.TimeUntilNextClaim(ctx, claimant, now, settings.ClaimInterval)
	if err != nil {
		return model.ClaimReceipt{}, err
	}
	if wait > 0 {
		return model.ClaimReceipt{}, fmt.Errorf("%w: %d seconds remaining", ErrIntervalNotMet, wait)
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return model.ClaimReceipt{}, err
	}

	withdrawal, err := SizeShares(snap, settings.TargetAsset, settings.Amount)
	if err != nil {
		return model.ClaimReceipt{}, err
	}

	s.logger.Debug("redeem shares",
		zap.String("claimant", claimant.Hex()),
		zap.Stringer("reserve_a", snap.ReserveA),
		zap.Stringer("reserve_b", snap.ReserveB),
		zap.Stringer("total_reserve", snap.TotalReserve()),
		zap.Stringer("total_shares", snap.TotalShares),
		zap.Stringer("share_balance", snap.ShareBalance),
		zap.Stringer("shares", withdrawal.Shares),
	)

	receivedA, receivedB, err := s.pool.Withdraw(ctx, s.self, withdrawal.Shares, withdrawal.MinA, withdrawal.MinB)
	if err != nil {
		return model.ClaimReceipt{}, fmt.Errorf("withdraw shares: %w", err)
	}

	token := snap.Token(settings.TargetAsset)
	if err := s.transfers.Transfer(ctx, token, s.self, claimant, settings.Amount); err != nil {
		return model.ClaimReceipt{}, fmt.Errorf("transfer claim: %w", err)
	}

	if err := s.ledger.RecordClaim(ctx, claimant, now); err != nil {
		return model.ClaimReceipt{}, err
	}

	return model.ClaimReceipt{
		ID:           uuid.NewString(),
		Claimant:     claimant,
		Asset:        settings.TargetAsset,
		Token:        token,
		Amount:       new(big.Int).Set(settings.Amount),
		SharesBurned: withdrawal.Shares,
		ReceivedA:    receivedA,
		ReceivedB:    receivedB,
		ClaimedAt:    now,
		NextClaimAt:  nextClaimAt(now, settings.ClaimInterval),
	}, nil
}

// DepositLiquidity moves desiredA/desiredB from the admin to the faucet and
// deposits both into the pool on the faucet's behalf.
func (s *Service) DepositLiquidity(ctx context.Context, caller common.Address, desiredA, minA, desiredB, minB *big.Int) error {
	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		if err := s.requireAuth(ctx, caller); err != nil {
			return err
		}
		if _, err := s.config.RequireAdmin(ctx, caller); err != nil {
			return err
		}

		tokenA, tokenB, err := s.pool.Tokens(ctx)
		if err != nil {
			return fmt.Errorf("get tokens: %w", err)
		}
		if err := s.transfers.Transfer(ctx, tokenA, caller, s.self, desiredA); err != nil {
			return fmt.Errorf("transfer token a: %w", err)
		}
		if err := s.transfers.Transfer(ctx, tokenB, caller, s.self, desiredB); err != nil {
			return fmt.Errorf("transfer token b: %w", err)
		}
		if err := s.pool.Deposit(ctx, s.self, desiredA, minA, desiredB, minB); err != nil {
			return fmt.Errorf("deposit liquidity: %w", err)
		}
		return nil
	})
	s.metrics.observeDeposit(resultFor(err))
	if err != nil {
		s.logger.Warn("deposit failed", zap.String("caller", caller.Hex()), zap.Error(err))
		return err
	}

	s.logger.Info("deposit complete",
		zap.String("caller", caller.Hex()),
		zap.Stringer("desired_a", desiredA),
		zap.Stringer("desired_b", desiredB),
	)
	return nil
}

// SetFaucetAmount replaces the per-claim amount.
func (s *Service) SetFaucetAmount(ctx context.Context, caller common.Address, amount *big.Int) error {
	return s.adminUpdate(ctx, "amount", caller, func(ctx context.Context) error {
		return s.config.SetAmount(ctx, caller, amount)
	})
}

// SetClaimInterval replaces the minimum seconds between claims.
func (s *Service) SetClaimInterval(ctx context.Context, caller common.Address, interval uint64) error {
	return s.adminUpdate(ctx, "interval", caller, func(ctx context.Context) error {
		return s.config.SetClaimInterval(ctx, caller, interval)
	})
}

// SetTargetAsset switches the distributed asset.
func (s *Service) SetTargetAsset(ctx context.Context, caller common.Address, asset model.Asset) error {
	return s.adminUpdate(ctx, "asset", caller, func(ctx context.Context) error {
		return s.config.SetTargetAsset(ctx, caller, asset)
	})
}

func (s *Service) adminUpdate(ctx context.Context, field string, caller common.Address, fn func(context.Context) error) error {
	err := s.exec.Atomic(ctx, func(ctx context.Context) error {
		if err := s.requireAuth(ctx, caller); err != nil {
			return err
		}
		return fn(ctx)
	})
	s.metrics.observeAdminUpdate(field, resultFor(err))
	if err != nil {
		s.logger.Warn("admin update failed", zap.String("field", field), zap.String("caller", caller.Hex()), zap.Error(err))
		return err
	}
	s.logger.Info("admin update", zap.String("field", field), zap.String("caller", caller.Hex()))
	return nil
}

func (s *Service) requireAuth(ctx context.Context, identity common.Address) error {
	if err := s.auth.RequireAuth(ctx, identity); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

func (s *Service) snapshot(ctx context.Context) (model.PoolSnapshot, error) {
	reserveA, reserveB, err := s.pool.Reserves(ctx)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("get reserves: %w", err)
	}
	tokenA, tokenB, err := s.pool.Tokens(ctx)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("get tokens: %w", err)
	}
	balance, err := s.pool.ShareBalance(ctx, s.self)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("get share balance: %w", err)
	}
	total, err := s.pool.TotalShares(ctx)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("get total shares: %w", err)
	}
	return model.PoolSnapshot{
		TokenA:       tokenA,
		TokenB:       tokenB,
		ReserveA:     reserveA,
		ReserveB:     reserveB,
		TotalShares:  total,
		ShareBalance: balance,
	}, nil
}

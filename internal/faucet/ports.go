package faucet

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PoolGateway is the faucet's view of the two-asset liquidity pool.
type PoolGateway interface {
	Address() common.Address
	Reserves(ctx context.Context) (*big.Int, *big.Int, error)
	Tokens(ctx context.Context) (common.Address, common.Address, error)
	ShareBalance(ctx context.Context, holder common.Address) (*big.Int, error)
	TotalShares(ctx context.Context) (*big.Int, error)
	// Withdraw burns shareAmount of the caller's shares and sends the
	// underlying assets to `to`. It fails when either minimum is not met.
	Withdraw(ctx context.Context, to common.Address, shareAmount, minA, minB *big.Int) (*big.Int, *big.Int, error)
	// Deposit moves assets from `to` into the pool and credits `to` with shares.
	Deposit(ctx context.Context, to common.Address, desiredA, minA, desiredB, minB *big.Int) error
}

// AssetTransferer moves a fixed amount of one token between two identities.
type AssetTransferer interface {
	Transfer(ctx context.Context, asset, from, to common.Address, amount *big.Int) error
}

// Clock returns the current host time in unix seconds.
type Clock interface {
	Now(ctx context.Context) (uint64, error)
}

// Authorizer fails unless the invoking context proves control of identity.
type Authorizer interface {
	RequireAuth(ctx context.Context, identity common.Address) error
}

// Executor applies a call atomically and in a total order relative to all
// other calls.
type Executor interface {
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now(context.Context) (uint64, error) {
	return uint64(time.Now().Unix()), nil
}

// SerialExecutor serializes calls. Effects already applied by a failing
// call are not undone.
type SerialExecutor struct {
	mu sync.Mutex
}

func (e *SerialExecutor) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

package pool

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityFaucet/internal/chain"
	"liquidityFaucet/internal/token"
)

// Backend is the chain access the gateway needs. *chain.Client satisfies it.
type Backend interface {
	token.Caller
	token.Transactor
}

// Gateway talks to a deployed share pool. Writes are signed by one key, which
// is the identity whose shares are burned on withdraw and whose tokens are
// pulled on deposit.
type Gateway struct {
	backend Backend
	address common.Address
	signer  *chain.Signer
	logger  *zap.Logger

	mu     sync.Mutex
	tokens *[2]common.Address
}

// NewGateway binds a pool contract. signer may be nil for read-only use.
func NewGateway(backend Backend, address common.Address, signer *chain.Signer, logger *zap.Logger) (*Gateway, error) {
	if backend == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if _, err := PoolABI(); err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{backend: backend, address: address, signer: signer, logger: logger}, nil
}

func (g *Gateway) Address() common.Address {
	return g.address
}

func (g *Gateway) Reserves(ctx context.Context) (*big.Int, *big.Int, error) {
	values, err := g.call(ctx, "getReserves")
	if err != nil {
		return nil, nil, err
	}
	if len(values) != 2 {
		return nil, nil, fmt.Errorf("getReserves return size %d", len(values))
	}
	reserveA, err := token.AsBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reserve a: %w", err)
	}
	reserveB, err := token.AsBigInt(values[1])
	if err != nil {
		return nil, nil, fmt.Errorf("reserve b: %w", err)
	}
	return reserveA, reserveB, nil
}

// Tokens returns the pool's asset addresses. They are immutable, so the
// first successful read is cached.
func (g *Gateway) Tokens(ctx context.Context) (common.Address, common.Address, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tokens != nil {
		return g.tokens[0], g.tokens[1], nil
	}

	values, err := g.call(ctx, "tokenA")
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	tokenA, err := token.AsAddress(values[0])
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("token a: %w", err)
	}
	values, err = g.call(ctx, "tokenB")
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	tokenB, err := token.AsAddress(values[0])
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("token b: %w", err)
	}

	g.tokens = &[2]common.Address{tokenA, tokenB}
	return tokenA, tokenB, nil
}

func (g *Gateway) ShareBalance(ctx context.Context, holder common.Address) (*big.Int, error) {
	values, err := g.call(ctx, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	return token.AsBigInt(values[0])
}

func (g *Gateway) TotalShares(ctx context.Context) (*big.Int, error) {
	values, err := g.call(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	return token.AsBigInt(values[0])
}

// Withdraw burns the signer's shares and sends the assets to `to`. The
// returned amounts are the balance changes observed at `to`.
func (g *Gateway) Withdraw(ctx context.Context, to common.Address, shareAmount, minA, minB *big.Int) (*big.Int, *big.Int, error) {
	parsed, err := g.writable()
	if err != nil {
		return nil, nil, err
	}
	tokenA, tokenB, err := g.Tokens(ctx)
	if err != nil {
		return nil, nil, err
	}

	beforeA, beforeB, err := g.balances(ctx, tokenA, tokenB, to)
	if err != nil {
		return nil, nil, err
	}
	receipt, err := g.backend.Transact(ctx, g.signer, g.address, parsed, "withdraw", to, shareAmount, minA, minB)
	if err != nil {
		return nil, nil, err
	}
	afterA, afterB, err := g.balances(ctx, tokenA, tokenB, to)
	if err != nil {
		return nil, nil, err
	}

	receivedA := new(big.Int).Sub(afterA, beforeA)
	receivedB := new(big.Int).Sub(afterB, beforeB)
	g.logger.Debug("pool withdraw",
		zap.String("pool", g.address.Hex()),
		zap.String("tx", receipt.TxHash.Hex()),
		zap.Stringer("shares", shareAmount),
		zap.Stringer("received_a", receivedA),
		zap.Stringer("received_b", receivedB),
	)
	return receivedA, receivedB, nil
}

// Deposit approves the pool for both desired amounts and deposits on behalf
// of `to`. The signer must already hold the tokens.
func (g *Gateway) Deposit(ctx context.Context, to common.Address, desiredA, minA, desiredB, minB *big.Int) error {
	parsed, err := g.writable()
	if err != nil {
		return err
	}
	tokenA, tokenB, err := g.Tokens(ctx)
	if err != nil {
		return err
	}

	if err := token.Approve(ctx, g.backend, g.signer, tokenA, g.address, desiredA); err != nil {
		return fmt.Errorf("approve token a: %w", err)
	}
	if err := token.Approve(ctx, g.backend, g.signer, tokenB, g.address, desiredB); err != nil {
		return fmt.Errorf("approve token b: %w", err)
	}
	receipt, err := g.backend.Transact(ctx, g.signer, g.address, parsed, "deposit", to, desiredA, minA, desiredB, minB)
	if err != nil {
		return err
	}
	g.logger.Debug("pool deposit",
		zap.String("pool", g.address.Hex()),
		zap.String("tx", receipt.TxHash.Hex()),
		zap.Stringer("desired_a", desiredA),
		zap.Stringer("desired_b", desiredB),
	)
	return nil
}

func (g *Gateway) writable() (abi.ABI, error) {
	if g.signer == nil {
		return abi.ABI{}, fmt.Errorf("pool gateway has no signer")
	}
	return PoolABI()
}

func (g *Gateway) balances(ctx context.Context, tokenA, tokenB, holder common.Address) (*big.Int, *big.Int, error) {
	balanceA, err := token.BalanceOf(ctx, g.backend, tokenA, holder)
	if err != nil {
		return nil, nil, fmt.Errorf("token a balance: %w", err)
	}
	balanceB, err := token.BalanceOf(ctx, g.backend, tokenB, holder)
	if err != nil {
		return nil, nil, fmt.Errorf("token b balance: %w", err)
	}
	return balanceA, balanceB, nil
}

func (g *Gateway) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	return token.Call(ctx, g.backend, g.address, parsed, method, args...)
}

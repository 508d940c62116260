package sim

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrMinNotSatisfied   = errors.New("min not satisfied")
	ErrDepositAmount     = errors.New("deposit amount below minimum")
	ErrInsufficientShare = errors.New("insufficient share balance")
)

// Pool is a constant-product two-token pool with proportional shares. Its
// token holdings live in the shared Tokens ledger under the pool address.
type Pool struct {
	mu       sync.Mutex
	address  common.Address
	tokenA   common.Address
	tokenB   common.Address
	tokens   *Tokens
	reserveA *big.Int
	reserveB *big.Int
	total    *big.Int
	shares   map[common.Address]*big.Int
}

type poolState struct {
	reserveA *big.Int
	reserveB *big.Int
	total    *big.Int
	shares   map[common.Address]*big.Int
}

func NewPool(address, tokenA, tokenB common.Address, tokens *Tokens) *Pool {
	return &Pool{
		address:  address,
		tokenA:   tokenA,
		tokenB:   tokenB,
		tokens:   tokens,
		reserveA: new(big.Int),
		reserveB: new(big.Int),
		total:    new(big.Int),
		shares:   make(map[common.Address]*big.Int),
	}
}

func (p *Pool) Address() common.Address {
	return p.address
}

func (p *Pool) Reserves(ctx context.Context) (*big.Int, *big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.reserveA), new(big.Int).Set(p.reserveB), nil
}

func (p *Pool) Tokens(ctx context.Context) (common.Address, common.Address, error) {
	return p.tokenA, p.tokenB, nil
}

func (p *Pool) ShareBalance(ctx context.Context, holder common.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.shareOf(holder)), nil
}

func (p *Pool) TotalShares(ctx context.Context) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.total), nil
}

// Deposit takes the ratio-adjusted amounts from `to` and mints shares to it.
// The first deposit mints sqrt(a*b) shares.
func (p *Pool) Deposit(ctx context.Context, to common.Address, desiredA, minA, desiredB, minB *big.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	amountA, amountB, err := p.depositAmounts(desiredA, minA, desiredB, minB)
	if err != nil {
		return err
	}

	if err := p.tokens.Transfer(ctx, p.tokenA, to, p.address, amountA); err != nil {
		return fmt.Errorf("transfer token a: %w", err)
	}
	if err := p.tokens.Transfer(ctx, p.tokenB, to, p.address, amountB); err != nil {
		return fmt.Errorf("transfer token b: %w", err)
	}

	balanceA := p.tokens.Balance(p.tokenA, p.address)
	balanceB := p.tokens.Balance(p.tokenB, p.address)

	var newTotal *big.Int
	if p.reserveA.Sign() > 0 && p.reserveB.Sign() > 0 {
		sharesA := new(big.Int).Mul(balanceA, p.total)
		sharesA.Quo(sharesA, p.reserveA)
		sharesB := new(big.Int).Mul(balanceB, p.total)
		sharesB.Quo(sharesB, p.reserveB)
		newTotal = sharesA
		if sharesB.Cmp(sharesA) < 0 {
			newTotal = sharesB
		}
	} else {
		newTotal = new(big.Int).Mul(balanceA, balanceB)
		newTotal.Sqrt(newTotal)
	}

	minted := new(big.Int).Sub(newTotal, p.total)
	p.shares[to] = new(big.Int).Add(p.shareOf(to), minted)
	p.total = newTotal
	p.reserveA = balanceA
	p.reserveB = balanceB
	return nil
}

// Withdraw burns shareAmount of `to`'s shares and pays out the proportional
// reserves to `to`.
func (p *Pool) Withdraw(ctx context.Context, to common.Address, shareAmount, minA, minB *big.Int) (*big.Int, *big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if shareAmount == nil || shareAmount.Sign() <= 0 {
		return nil, nil, fmt.Errorf("share amount must be positive")
	}
	held := p.shareOf(to)
	if held.Cmp(shareAmount) < 0 {
		return nil, nil, fmt.Errorf("%w: holds %s, burns %s", ErrInsufficientShare, held, shareAmount)
	}
	if p.total.Sign() == 0 {
		return nil, nil, fmt.Errorf("pool has no shares")
	}

	balanceA := p.tokens.Balance(p.tokenA, p.address)
	balanceB := p.tokens.Balance(p.tokenB, p.address)

	outA := new(big.Int).Mul(balanceA, shareAmount)
	outA.Quo(outA, p.total)
	outB := new(big.Int).Mul(balanceB, shareAmount)
	outB.Quo(outB, p.total)

	if outA.Cmp(orZero(minA)) < 0 || outB.Cmp(orZero(minB)) < 0 {
		return nil, nil, ErrMinNotSatisfied
	}

	if err := p.tokens.Transfer(ctx, p.tokenA, p.address, to, outA); err != nil {
		return nil, nil, fmt.Errorf("transfer token a: %w", err)
	}
	if err := p.tokens.Transfer(ctx, p.tokenB, p.address, to, outB); err != nil {
		return nil, nil, fmt.Errorf("transfer token b: %w", err)
	}

	p.shares[to] = new(big.Int).Sub(held, shareAmount)
	p.total = new(big.Int).Sub(p.total, shareAmount)
	p.reserveA = p.tokens.Balance(p.tokenA, p.address)
	p.reserveB = p.tokens.Balance(p.tokenB, p.address)
	return outA, outB, nil
}

// TransferShares moves shares between holders without touching reserves.
func (p *Pool) TransferShares(from, to common.Address, amount *big.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	held := p.shareOf(from)
	if held.Cmp(amount) < 0 {
		return fmt.Errorf("%w: holds %s, moves %s", ErrInsufficientShare, held, amount)
	}
	p.shares[from] = new(big.Int).Sub(held, amount)
	p.shares[to] = new(big.Int).Add(p.shareOf(to), amount)
	return nil
}

func (p *Pool) depositAmounts(desiredA, minA, desiredB, minB *big.Int) (*big.Int, *big.Int, error) {
	if p.reserveA.Sign() == 0 && p.reserveB.Sign() == 0 {
		return desiredA, desiredB, nil
	}
	if p.reserveA.Sign() == 0 || p.reserveB.Sign() == 0 {
		return nil, nil, fmt.Errorf("%w: one-sided reserves %s/%s", ErrDepositAmount, p.reserveA, p.reserveB)
	}

	amountB := new(big.Int).Mul(desiredA, p.reserveB)
	amountB.Quo(amountB, p.reserveA)
	if amountB.Cmp(desiredB) <= 0 {
		if amountB.Cmp(orZero(minB)) < 0 {
			return nil, nil, fmt.Errorf("%w: amount b %s < %s", ErrDepositAmount, amountB, minB)
		}
		return desiredA, amountB, nil
	}

	amountA := new(big.Int).Mul(desiredB, p.reserveA)
	amountA.Quo(amountA, p.reserveB)
	if amountA.Cmp(desiredA) > 0 || amountA.Cmp(orZero(minA)) < 0 {
		return nil, nil, fmt.Errorf("%w: amount a %s", ErrDepositAmount, amountA)
	}
	return amountA, desiredB, nil
}

func (p *Pool) shareOf(holder common.Address) *big.Int {
	if balance, ok := p.shares[holder]; ok {
		return balance
	}
	return new(big.Int)
}

func (p *Pool) snapshot() poolState {
	p.mu.Lock()
	defer p.mu.Unlock()
	shares := make(map[common.Address]*big.Int, len(p.shares))
	for holder, balance := range p.shares {
		shares[holder] = new(big.Int).Set(balance)
	}
	return poolState{
		reserveA: new(big.Int).Set(p.reserveA),
		reserveB: new(big.Int).Set(p.reserveB),
		total:    new(big.Int).Set(p.total),
		shares:   shares,
	}
}

func (p *Pool) restore(state poolState) {
	p.mu.Lock()
	p.reserveA = state.reserveA
	p.reserveB = state.reserveB
	p.total = state.total
	p.shares = state.shares
	p.mu.Unlock()
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

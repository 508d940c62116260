package sim

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Tokens is an in-memory multi-token balance ledger.
type Tokens struct {
	mu       sync.Mutex
	balances map[common.Address]map[common.Address]*big.Int
}

func NewTokens() *Tokens {
	return &Tokens{balances: make(map[common.Address]map[common.Address]*big.Int)}
}

// Mint credits amount of token to holder.
func (t *Tokens) Mint(token, holder common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(token, holder, amount)
}

// Balance returns holder's balance of token.
func (t *Tokens) Balance(token, holder common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(big.Int).Set(t.get(token, holder))
}

// Transfer moves amount of token from one holder to another.
func (t *Tokens) Transfer(ctx context.Context, token, from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transfer(token, from, to, amount)
}

func (t *Tokens) transfer(token, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("negative amount: %v", amount)
	}
	balance := t.get(token, from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient balance: %s has %s of %s, needs %s", from.Hex(), balance, token.Hex(), amount)
	}
	t.add(token, from, new(big.Int).Neg(amount))
	t.add(token, to, amount)
	return nil
}

func (t *Tokens) get(token, holder common.Address) *big.Int {
	if holders, ok := t.balances[token]; ok {
		if balance, ok := holders[holder]; ok {
			return balance
		}
	}
	return new(big.Int)
}

func (t *Tokens) add(token, holder common.Address, delta *big.Int) {
	holders, ok := t.balances[token]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		t.balances[token] = holders
	}
	next := new(big.Int).Add(t.get(token, holder), delta)
	holders[holder] = next
}

func (t *Tokens) snapshot() map[common.Address]map[common.Address]*big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[common.Address]map[common.Address]*big.Int, len(t.balances))
	for token, holders := range t.balances {
		copied := make(map[common.Address]*big.Int, len(holders))
		for holder, balance := range holders {
			copied[holder] = new(big.Int).Set(balance)
		}
		out[token] = copied
	}
	return out
}

func (t *Tokens) restore(balances map[common.Address]map[common.Address]*big.Int) {
	t.mu.Lock()
	t.balances = balances
	t.mu.Unlock()
}

package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Host bundles an in-process token ledger, one pool and a settable clock.
// Atomic runs a function under the host lock and restores the ledger and
// pool when it returns an error.
type Host struct {
	mu     sync.Mutex
	tokens *Tokens
	pool   *Pool

	clockMu sync.Mutex
	now     uint64

	authMu   sync.Mutex
	allowAll bool
	allowed  map[common.Address]bool
}

// NewHost creates a host whose pool trades tokenA against tokenB.
func NewHost(poolAddr, tokenA, tokenB common.Address) *Host {
	tokens := NewTokens()
	return &Host{
		tokens:  tokens,
		pool:    NewPool(poolAddr, tokenA, tokenB, tokens),
		allowed: make(map[common.Address]bool),
	}
}

func (h *Host) Tokens() *Tokens {
	return h.tokens
}

func (h *Host) Pool() *Pool {
	return h.pool
}

// Atomic implements the executor port with rollback on error.
func (h *Host) Atomic(ctx context.Context, fn func(context.Context) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	balances := h.tokens.snapshot()
	state := h.pool.snapshot()
	if err := fn(ctx); err != nil {
		h.tokens.restore(balances)
		h.pool.restore(state)
		return err
	}
	return nil
}

// Now returns the host ledger timestamp.
func (h *Host) Now(ctx context.Context) (uint64, error) {
	h.clockMu.Lock()
	defer h.clockMu.Unlock()
	return h.now, nil
}

func (h *Host) SetTimestamp(ts uint64) {
	h.clockMu.Lock()
	h.now = ts
	h.clockMu.Unlock()
}

func (h *Host) Advance(seconds uint64) {
	h.clockMu.Lock()
	h.now += seconds
	h.clockMu.Unlock()
}

// MockAllAuths makes RequireAuth succeed for every identity.
func (h *Host) MockAllAuths() {
	h.authMu.Lock()
	h.allowAll = true
	h.authMu.Unlock()
}

// Authorize lets identity pass RequireAuth. Revoke undoes it.
func (h *Host) Authorize(identity common.Address) {
	h.authMu.Lock()
	h.allowed[identity] = true
	h.authMu.Unlock()
}

func (h *Host) Revoke(identity common.Address) {
	h.authMu.Lock()
	h.allowAll = false
	delete(h.allowed, identity)
	h.authMu.Unlock()
}

func (h *Host) RequireAuth(ctx context.Context, identity common.Address) error {
	h.authMu.Lock()
	defer h.authMu.Unlock()
	if h.allowAll || h.allowed[identity] {
		return nil
	}
	return fmt.Errorf("identity %s did not authorize", identity.Hex())
}

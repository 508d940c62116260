package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFaucet/internal/chain"
)

var (
	ErrMissingProof = errors.New("missing identity proof")
	ErrStaleProof   = errors.New("identity proof expired")
	ErrWrongSigner  = errors.New("identity proof signed by another key")
)

// AllowAll accepts every identity. Only for trusted single-operator use.
type AllowAll struct{}

func (AllowAll) RequireAuth(context.Context, common.Address) error {
	return nil
}

// KeyAuthorizer accepts the identities whose private keys this process holds.
type KeyAuthorizer struct {
	mu      sync.RWMutex
	allowed map[common.Address]struct{}
}

func NewKeyAuthorizer(identities ...common.Address) *KeyAuthorizer {
	a := &KeyAuthorizer{allowed: make(map[common.Address]struct{}, len(identities))}
	for _, id := range identities {
		a.allowed[id] = struct{}{}
	}
	return a
}

// Add registers another held identity.
func (a *KeyAuthorizer) Add(identity common.Address) {
	a.mu.Lock()
	a.allowed[identity] = struct{}{}
	a.mu.Unlock()
}

func (a *KeyAuthorizer) RequireAuth(_ context.Context, identity common.Address) error {
	a.mu.RLock()
	_, ok := a.allowed[identity]
	a.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no key held for %s", identity.Hex())
	}
	return nil
}

// Clock is the time source used to bound proof age.
type Clock interface {
	Now(ctx context.Context) (uint64, error)
}

// SignatureAuthorizer accepts an identity when the context carries an
// EIP-191 signature of Message(domain, identity, ts) by that identity, with
// ts no older than maxAge seconds and no further than maxAge in the future.
type SignatureAuthorizer struct {
	clock  Clock
	domain Domain
	maxAge uint64
}

func NewSignatureAuthorizer(clock Clock, domain Domain, maxAge uint64) *SignatureAuthorizer {
	return &SignatureAuthorizer{clock: clock, domain: domain, maxAge: maxAge}
}

func (a *SignatureAuthorizer) RequireAuth(ctx context.Context, identity common.Address) error {
	proof, ok := ProofFrom(ctx)
	if !ok {
		return ErrMissingProof
	}

	now, err := a.clock.Now(ctx)
	if err != nil {
		return fmt.Errorf("read clock: %w", err)
	}
	if distance(now, proof.Timestamp) > a.maxAge {
		return fmt.Errorf("%w: signed at %d, now %d", ErrStaleProof, proof.Timestamp, now)
	}

	signer, err := chain.RecoverText(Message(a.domain, identity, proof.Timestamp), proof.Signature)
	if err != nil {
		return err
	}
	if signer != identity {
		return fmt.Errorf("%w: %s", ErrWrongSigner, signer.Hex())
	}
	return nil
}

func distance(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

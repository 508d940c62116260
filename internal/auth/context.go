package auth

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Proof is a signed statement that the holder of an identity's key asked
// for the current call at Timestamp.
type Proof struct {
	Timestamp uint64
	Signature []byte
}

type proofKey struct{}

// WithProof attaches proof to ctx.
func WithProof(ctx context.Context, proof Proof) context.Context {
	return context.WithValue(ctx, proofKey{}, proof)
}

// ProofFrom returns the proof attached to ctx, if any.
func ProofFrom(ctx context.Context) (Proof, bool) {
	proof, ok := ctx.Value(proofKey{}).(Proof)
	return proof, ok
}

// Domain scopes a proof to one faucet deployment.
type Domain struct {
	ChainID uint64
	Faucet  common.Address
}

// Message is the text an identity signs to authorize a call at timestamp
// against the faucet in domain.
func Message(domain Domain, identity common.Address, timestamp uint64) []byte {
	return []byte(fmt.Sprintf("liquidity-faucet claim for %s at %d on chain %d via %s",
		identity.Hex(), timestamp, domain.ChainID, domain.Faucet.Hex()))
}

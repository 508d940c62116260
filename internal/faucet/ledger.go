package faucet

import (
	"context"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFaucet/internal/model"
	"liquidityFaucet/internal/storage"
)

// ClaimLedger tracks the last successful claim per identity. An identity
// with no record has never claimed and is always eligible; one with a record
// is cooling down until lastClaim+interval and eligible from then on.
type ClaimLedger struct {
	store storage.Store
}

func NewClaimLedger(store storage.Store) *ClaimLedger {
	return &ClaimLedger{store: store}
}

// TimeUntilNextClaim returns the seconds left before claimant may claim again.
func (l *ClaimLedger) TimeUntilNextClaim(ctx context.Context, claimant common.Address, now, interval uint64) (uint64, error) {
	last, ok, err := l.store.LastClaim(ctx, claimant)
	if err != nil {
		return 0, fmt.Errorf("load last claim: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return remaining(last, now, interval), nil
}

// CanClaim reports whether claimant is eligible at now.
func (l *ClaimLedger) CanClaim(ctx context.Context, claimant common.Address, now, interval uint64) (bool, error) {
	wait, err := l.TimeUntilNextClaim(ctx, claimant, now, interval)
	if err != nil {
		return false, err
	}
	return wait == 0, nil
}

// Eligibility returns the full rate-limit view for claimant.
func (l *ClaimLedger) Eligibility(ctx context.Context, claimant common.Address, now, interval uint64) (model.Eligibility, error) {
	last, ok, err := l.store.LastClaim(ctx, claimant)
	if err != nil {
		return model.Eligibility{}, fmt.Errorf("load last claim: %w", err)
	}
	out := model.Eligibility{Claimant: claimant, CanClaim: true}
	if !ok {
		return out, nil
	}
	out.LastClaimAt = &last
	out.TimeUntilNextClaim = remaining(last, now, interval)
	out.CanClaim = out.TimeUntilNextClaim == 0
	return out, nil
}

// RecordClaim overwrites the claimant's last claim time. Callers check
// eligibility first.
func (l *ClaimLedger) RecordClaim(ctx context.Context, claimant common.Address, now uint64) error {
	if err := l.store.SaveClaim(ctx, claimant, now); err != nil {
		return fmt.Errorf("save claim: %w", err)
	}
	return nil
}

// nextClaimAt saturates at the max timestamp; on overflow the interval never
// elapses.
func nextClaimAt(last, interval uint64) uint64 {
	next := last + interval
	if next < last {
		return math.MaxUint64
	}
	return next
}

func remaining(last, now, interval uint64) uint64 {
	next := nextClaimAt(last, interval)
	if now >= next {
		return 0
	}
	return next - now
}

package faucet

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFaucet/internal/storage"
)

func TestLedgerStates(t *testing.T) {
	ctx := context.Background()
	ledger := NewClaimLedger(storage.NewMemoryStore())
	user := common.HexToAddress("0x0000000000000000000000000000000000000101")

	wait, err := ledger.TimeUntilNextClaim(ctx, user, 500, 3600)
	if err != nil {
		t.Fatalf("time until next claim: %v", err)
	}
	if wait != 0 {
		t.Fatalf("never claimed should wait 0, got %d", wait)
	}

	if err := ledger.RecordClaim(ctx, user, 1000); err != nil {
		t.Fatalf("record claim: %v", err)
	}

	cases := []struct {
		now  uint64
		wait uint64
	}{
		{now: 1000, wait: 3600},
		{now: 1001, wait: 3599},
		{now: 4599, wait: 1},
		{now: 4600, wait: 0},
		{now: 9000, wait: 0},
	}
	for _, tc := range cases {
		wait, err := ledger.TimeUntilNextClaim(ctx, user, tc.now, 3600)
		if err != nil {
			t.Fatalf("time until next claim: %v", err)
		}
		if wait != tc.wait {
			t.Fatalf("wait mismatch at %d: got %d want %d", tc.now, wait, tc.wait)
		}
		ok, err := ledger.CanClaim(ctx, user, tc.now, 3600)
		if err != nil {
			t.Fatalf("can claim: %v", err)
		}
		if ok != (tc.wait == 0) {
			t.Fatalf("can claim mismatch at %d: %v", tc.now, ok)
		}
	}
}

func TestLedgerEligibility(t *testing.T) {
	ctx := context.Background()
	ledger := NewClaimLedger(storage.NewMemoryStore())
	user := common.HexToAddress("0x0000000000000000000000000000000000000102")

	got, err := ledger.Eligibility(ctx, user, 10, 60)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if !got.CanClaim || got.LastClaimAt != nil {
		t.Fatalf("never claimed mismatch: %+v", got)
	}

	if err := ledger.RecordClaim(ctx, user, 10); err != nil {
		t.Fatalf("record claim: %v", err)
	}
	got, err = ledger.Eligibility(ctx, user, 30, 60)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if got.CanClaim || got.TimeUntilNextClaim != 40 || got.LastClaimAt == nil || *got.LastClaimAt != 10 {
		t.Fatalf("cooling down mismatch: %+v", got)
	}
}

func TestRemainingOverflow(t *testing.T) {
	max := ^uint64(0)
	if got := remaining(max-5, max-10, 100); got != 10 {
		t.Fatalf("overflow mismatch: got %d want 10", got)
	}
	if got := remaining(100, 150, 0); got != 0 {
		t.Fatalf("zero interval mismatch: got %d", got)
	}
	if got := nextClaimAt(max-5, 100); got != max {
		t.Fatalf("next claim should saturate: got %d", got)
	}
	if got := nextClaimAt(100, 50); got != 150 {
		t.Fatalf("next claim mismatch: got %d want 150", got)
	}
}

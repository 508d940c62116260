package faucet

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResultFor(t *testing.T) {
	cases := map[string]error{
		resultSuccess:      nil,
		resultUnauthorized: fmt.Errorf("%w: bad signature", ErrUnauthorized),
		resultRateLimited:  fmt.Errorf("%w: 10 seconds remaining", ErrIntervalNotMet),
		resultLiquidity:    ErrNoShares,
		resultInvalid:      ErrAmountNotPositive,
		resultError:        errors.New("rpc down"),
	}
	for want, err := range cases {
		if got := resultFor(err); got != want {
			t.Fatalf("result mismatch for %v: got %s want %s", err, got, want)
		}
	}
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.observeClaim(resultSuccess, 0.2)
	m.observeClaim(resultSuccess, 0.1)
	m.observeClaim(resultLiquidity, 0.1)
	m.addDistributed(big.NewInt(50), big.NewInt(75))
	m.observeAdminUpdate("amount", resultUnauthorized)

	if got := testutil.ToFloat64(m.claims.WithLabelValues(resultSuccess)); got != 2 {
		t.Fatalf("success claims mismatch: %v", got)
	}
	if got := testutil.ToFloat64(m.claims.WithLabelValues(resultLiquidity)); got != 1 {
		t.Fatalf("liquidity claims mismatch: %v", got)
	}
	if got := testutil.ToFloat64(m.sharesBurned); got != 50 {
		t.Fatalf("shares burned mismatch: %v", got)
	}
	if got := testutil.ToFloat64(m.distributed); got != 75 {
		t.Fatalf("distributed mismatch: %v", got)
	}
	if got := testutil.ToFloat64(m.adminUpdates.WithLabelValues("amount", resultUnauthorized)); got != 1 {
		t.Fatalf("admin updates mismatch: %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.observeClaim(resultSuccess, 1)
	m.addDistributed(big.NewInt(1), big.NewInt(1))
	m.observeDeposit(resultSuccess)
	m.observeAdminUpdate("amount", resultSuccess)
}

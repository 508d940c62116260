package faucet

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "faucet"

// Claim results used as metric labels.
const (
	resultSuccess      = "success"
	resultUnauthorized = "unauthorized"
	resultRateLimited  = "rate_limited"
	resultLiquidity    = "liquidity"
	resultInvalid      = "invalid"
	resultError        = "error"
)

// Metrics records faucet activity. A nil *Metrics is a no-op.
type Metrics struct {
	claims        *prometheus.CounterVec
	claimDuration prometheus.Histogram
	sharesBurned  prometheus.Counter
	distributed   prometheus.Counter
	deposits      *prometheus.CounterVec
	adminUpdates  *prometheus.CounterVec
}

// NewMetrics registers the faucet collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		claims: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "claims_total",
			Help:      "Claims by result (success, unauthorized, rate_limited, liquidity, invalid, error)",
		}, []string{"result"}),
		claimDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "claim_duration_seconds",
			Help:      "Wall time spent serving a claim",
			Buckets:   prometheus.DefBuckets,
		}),
		sharesBurned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "shares_burned_total",
			Help:      "Pool shares redeemed to fund claims",
		}),
		distributed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "distributed_total",
			Help:      "Base units of the target asset sent to claimants",
		}),
		deposits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "deposits_total",
			Help:      "Liquidity deposits by result",
		}, []string{"result"}),
		adminUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "admin_updates_total",
			Help:      "Admin configuration updates by field and result",
		}, []string{"field", "result"}),
	}
}

func (m *Metrics) observeClaim(result string, seconds float64) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(result).Inc()
	m.claimDuration.Observe(seconds)
}

func (m *Metrics) addDistributed(shares, amount *big.Int) {
	if m == nil {
		return
	}
	m.sharesBurned.Add(bigToFloat(shares))
	m.distributed.Add(bigToFloat(amount))
}

func (m *Metrics) observeDeposit(result string) {
	if m == nil {
		return
	}
	m.deposits.WithLabelValues(result).Inc()
}

func (m *Metrics) observeAdminUpdate(field, result string) {
	if m == nil {
		return
	}
	m.adminUpdates.WithLabelValues(field, result).Inc()
}

func bigToFloat(v *big.Int) float64 {
	if v == nil || v.Sign() <= 0 {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}

// resultFor maps an error to its metric label.
func resultFor(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case isKind(err, KindAuthorization):
		return resultUnauthorized
	case isKind(err, KindRateLimit):
		return resultRateLimited
	case isKind(err, KindLiquidity):
		return resultLiquidity
	case isKind(err, KindValidation):
		return resultInvalid
	default:
		return resultError
	}
}

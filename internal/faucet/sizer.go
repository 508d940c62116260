package faucet

import (
	"math/big"

	"liquidityFaucet/internal/model"
)

var (
	bufferNumerator   = big.NewInt(101)
	bufferDenominator = big.NewInt(100)
)

// Withdrawal is the redemption the faucet asks the pool for.
type Withdrawal struct {
	Shares *big.Int
	MinA   *big.Int
	MinB   *big.Int
}

// SizeShares computes how many pool shares to redeem so that at least amount
// of the target asset comes back. The share count carries a 1% buffer over the
// exact proportional requirement to absorb rounding in the pool.
func SizeShares(snap model.PoolSnapshot, asset model.Asset, amount *big.Int) (Withdrawal, error) {
	if !asset.Valid() {
		return Withdrawal{}, ErrInvalidAsset
	}
	if amount == nil || amount.Sign() <= 0 {
		return Withdrawal{}, ErrAmountNotPositive
	}

	targetReserve := snap.Reserve(asset)
	// A zero reserve always lands here, so the division below never sees it.
	if targetReserve == nil || targetReserve.Cmp(amount) < 0 {
		return Withdrawal{}, ErrInsufficientLiquidity
	}

	if snap.ShareBalance == nil || snap.ShareBalance.Sign() == 0 {
		return Withdrawal{}, ErrNoShares
	}

	totalShares := snap.TotalShares
	if totalShares == nil {
		totalShares = new(big.Int)
	}

	numerator := new(big.Int).Mul(amount, totalShares)
	numerator.Mul(numerator, bufferNumerator)
	denominator := new(big.Int).Mul(targetReserve, bufferDenominator)
	shares := numerator.Quo(numerator, denominator)

	if shares.Cmp(snap.ShareBalance) > 0 {
		return Withdrawal{}, ErrInsufficientShares
	}

	w := Withdrawal{Shares: shares, MinA: new(big.Int), MinB: new(big.Int)}
	if asset == model.AssetA {
		w.MinA.Set(amount)
	} else {
		w.MinB.Set(amount)
	}
	return w, nil
}

// EstimateAvailable is a conservative estimate of how much of the target
// asset the faucet's shares are worth. It ignores the withdrawal buffer and
// the price impact of redeeming.
func EstimateAvailable(snap model.PoolSnapshot, asset model.Asset) *big.Int {
	if snap.ShareBalance == nil || snap.ShareBalance.Sign() == 0 {
		return new(big.Int)
	}
	if snap.TotalShares == nil || snap.TotalShares.Sign() == 0 {
		return new(big.Int)
	}
	reserve := snap.Reserve(asset)
	if reserve == nil {
		return new(big.Int)
	}
	out := new(big.Int).Mul(snap.ShareBalance, reserve)
	return out.Quo(out, snap.TotalShares)
}

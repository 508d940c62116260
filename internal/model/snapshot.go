package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolSnapshot is a point-in-time view of the pool as seen by the faucet.
type PoolSnapshot struct {
	TokenA       common.Address
	TokenB       common.Address
	ReserveA     *big.Int
	ReserveB     *big.Int
	TotalShares  *big.Int
	ShareBalance *big.Int
}

// Reserve returns the reserve of the selected asset.
func (s PoolSnapshot) Reserve(asset Asset) *big.Int {
	if asset == AssetA {
		return s.ReserveA
	}
	return s.ReserveB
}

// Token returns the token address of the selected asset.
func (s PoolSnapshot) Token(asset Asset) common.Address {
	if asset == AssetA {
		return s.TokenA
	}
	return s.TokenB
}

// TotalReserve is reserveA + reserveB.
func (s PoolSnapshot) TotalReserve() *big.Int {
	total := new(big.Int)
	if s.ReserveA != nil {
		total.Add(total, s.ReserveA)
	}
	if s.ReserveB != nil {
		total.Add(total, s.ReserveB)
	}
	return total
}

package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Settings is the faucet's persisted configuration singleton.
type Settings struct {
	Admin         common.Address `json:"admin"`
	Pool          common.Address `json:"pool"`
	Amount        *big.Int       `json:"amount"`
	ClaimInterval uint64         `json:"claim_interval"`
	TargetAsset   Asset          `json:"target_asset"`
}

// Clone returns a copy that shares no big.Int with s.
func (s Settings) Clone() Settings {
	out := s
	if s.Amount != nil {
		out.Amount = new(big.Int).Set(s.Amount)
	}
	return out
}

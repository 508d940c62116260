package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ClaimReceipt describes a completed claim.
type ClaimReceipt struct {
	ID           string         `json:"id"`
	Claimant     common.Address `json:"claimant"`
	Asset        Asset          `json:"asset"`
	Token        common.Address `json:"token"`
	Amount       *big.Int       `json:"amount"`
	SharesBurned *big.Int       `json:"shares_burned"`
	ReceivedA    *big.Int       `json:"received_a"`
	ReceivedB    *big.Int       `json:"received_b"`
	ClaimedAt    uint64         `json:"claimed_at"`
	NextClaimAt  uint64         `json:"next_claim_at"`
}

// Eligibility is the rate-limit view for a single claimant.
type Eligibility struct {
	Claimant           common.Address `json:"claimant"`
	CanClaim           bool           `json:"can_claim"`
	TimeUntilNextClaim uint64         `json:"time_until_next_claim"`
	LastClaimAt        *uint64        `json:"last_claim_at,omitempty"`
}

// Status bundles the faucet configuration with the live pool view.
type Status struct {
	Settings           Settings       `json:"settings"`
	Service            common.Address `json:"service"`
	TokenA             common.Address `json:"token_a"`
	TokenB             common.Address `json:"token_b"`
	ReserveA           *big.Int       `json:"reserve_a"`
	ReserveB           *big.Int       `json:"reserve_b"`
	TotalShares        *big.Int       `json:"total_shares"`
	ShareBalance       *big.Int       `json:"share_balance"`
	AvailableForClaims *big.Int       `json:"available_for_claims"`
}

package api

import (
	"math/big"

	"liquidityFaucet/internal/model"
	"liquidityFaucet/internal/token"
)

type claimRequest struct {
	Claimant  string `json:"claimant"`
	Timestamp uint64 `json:"timestamp"`
	Signature string `json:"signature"`
}

type claimResponse struct {
	ID           string `json:"id"`
	Claimant     string `json:"claimant"`
	Asset        string `json:"asset"`
	Token        string `json:"token"`
	Amount       string `json:"amount"`
	SharesBurned string `json:"shares_burned"`
	ReceivedA    string `json:"received_a"`
	ReceivedB    string `json:"received_b"`
	ClaimedAt    uint64 `json:"claimed_at"`
	NextClaimAt  uint64 `json:"next_claim_at"`
}

type eligibilityResponse struct {
	Claimant           string  `json:"claimant"`
	CanClaim           bool    `json:"can_claim"`
	TimeUntilNextClaim uint64  `json:"time_until_next_claim"`
	LastClaimAt        *uint64 `json:"last_claim_at,omitempty"`
}

type tokenResponse struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals *uint8 `json:"decimals,omitempty"`
	Reserve  string `json:"reserve"`
	Display  string `json:"reserve_display,omitempty"`
}

type statusResponse struct {
	Admin              string        `json:"admin"`
	Pool               string        `json:"pool"`
	Service            string        `json:"service"`
	Amount             string        `json:"amount"`
	ClaimInterval      uint64        `json:"claim_interval"`
	TargetAsset        string        `json:"target_asset"`
	TokenA             tokenResponse `json:"token_a"`
	TokenB             tokenResponse `json:"token_b"`
	TotalShares        string        `json:"total_shares"`
	ShareBalance       string        `json:"share_balance"`
	AvailableForClaims string        `json:"available_for_claims"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func newClaimResponse(r model.ClaimReceipt) claimResponse {
	return claimResponse{
		ID:           r.ID,
		Claimant:     r.Claimant.Hex(),
		Asset:        r.Asset.String(),
		Token:        r.Token.Hex(),
		Amount:       bigString(r.Amount),
		SharesBurned: bigString(r.SharesBurned),
		ReceivedA:    bigString(r.ReceivedA),
		ReceivedB:    bigString(r.ReceivedB),
		ClaimedAt:    r.ClaimedAt,
		NextClaimAt:  r.NextClaimAt,
	}
}

func newEligibilityResponse(e model.Eligibility) eligibilityResponse {
	return eligibilityResponse{
		Claimant:           e.Claimant.Hex(),
		CanClaim:           e.CanClaim,
		TimeUntilNextClaim: e.TimeUntilNextClaim,
		LastClaimAt:        e.LastClaimAt,
	}
}

func newTokenResponse(reserve *big.Int, meta *model.TokenMeta, address string) tokenResponse {
	out := tokenResponse{Address: address, Reserve: bigString(reserve)}
	if meta != nil {
		decimals := meta.Decimals
		out.Symbol = meta.Symbol
		out.Decimals = &decimals
		out.Display = token.FormatUnits(reserve, decimals)
	}
	return out
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

package storage

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"liquidityFaucet/internal/model"
)

// Store persists the faucet settings singleton and one last-claim timestamp
// per claimant. Entries are overwritten in place and never deleted.
type Store interface {
	LoadSettings(ctx context.Context) (model.Settings, bool, error)
	SaveSettings(ctx context.Context, settings model.Settings) error
	LastClaim(ctx context.Context, claimant common.Address) (uint64, bool, error)
	SaveClaim(ctx context.Context, claimant common.Address, ts uint64) error
}

// Journal is a sink for completed claim receipts.
type Journal interface {
	PutReceipts(receipts []model.ClaimReceipt) error
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liquidityFaucet/internal/model"
)

const settingsName = "faucet"

// Schema creates the tables used by Store.
const Schema = `
CREATE TABLE IF NOT EXISTS faucet_settings (
	name           TEXT PRIMARY KEY,
	admin          TEXT NOT NULL,
	pool_address   TEXT NOT NULL,
	amount         NUMERIC(78, 0) NOT NULL CHECK (amount > 0),
	claim_interval BIGINT NOT NULL CHECK (claim_interval >= 0),
	target_asset   TEXT NOT NULL CHECK (target_asset IN ('a', 'b')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS faucet_claims (
	claimant      TEXT PRIMARY KEY,
	last_claim_ts BIGINT NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for faucet state.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// LoadSettings returns the settings singleton.
func (s *Store) LoadSettings(ctx context.Context) (model.Settings, bool, error) {
	var (
		admin, pool, amount, asset string
		interval                   int64
	)
	row := s.pool.QueryRow(ctx, `
		SELECT admin, pool_address, amount::text, claim_interval, target_asset
		FROM faucet_settings WHERE name=$1
	`, settingsName)
	if err := row.Scan(&admin, &pool, &amount, &interval, &asset); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Settings{}, false, nil
		}
		return model.Settings{}, false, err
	}

	parsedAmount, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return model.Settings{}, false, fmt.Errorf("invalid stored amount: %s", amount)
	}
	targetAsset, err := model.ParseAsset(asset)
	if err != nil {
		return model.Settings{}, false, err
	}

	return model.Settings{
		Admin:         common.HexToAddress(admin),
		Pool:          common.HexToAddress(pool),
		Amount:        parsedAmount,
		ClaimInterval: uint64(interval),
		TargetAsset:   targetAsset,
	}, true, nil
}

// SaveSettings upserts the settings singleton.
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) error {
	if settings.Amount == nil {
		return fmt.Errorf("settings amount required")
	}
	interval, err := toBigint("claim_interval", settings.ClaimInterval)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO faucet_settings (
			name, admin, pool_address, amount, claim_interval, target_asset, created_at, updated_at
		) VALUES ($1, $2, $3, $4::numeric, $5, $6, now(), now())
		ON CONFLICT (name) DO UPDATE SET
			admin = EXCLUDED.admin,
			pool_address = EXCLUDED.pool_address,
			amount = EXCLUDED.amount,
			claim_interval = EXCLUDED.claim_interval,
			target_asset = EXCLUDED.target_asset,
			updated_at = now()
	`,
		settingsName,
		settings.Admin.Hex(),
		settings.Pool.Hex(),
		settings.Amount.String(),
		interval,
		settings.TargetAsset.String(),
	)
	return err
}

// LastClaim returns last_claim_ts for a claimant.
func (s *Store) LastClaim(ctx context.Context, claimant common.Address) (uint64, bool, error) {
	var ts int64
	row := s.pool.QueryRow(ctx, `SELECT last_claim_ts FROM faucet_claims WHERE claimant=$1`, claimant.Hex())
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(ts), true, nil
}

// SaveClaim upserts last_claim_ts for a claimant.
func (s *Store) SaveClaim(ctx context.Context, claimant common.Address, ts uint64) error {
	value, err := toBigint("last_claim_ts", ts)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO faucet_claims (claimant, last_claim_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (claimant) DO UPDATE
		SET last_claim_ts = EXCLUDED.last_claim_ts, updated_at = now()
	`, claimant.Hex(), value)
	return err
}

// toBigint converts v for a BIGINT column.
func toBigint(column string, v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%s %d exceeds bigint range", column, v)
	}
	return int64(v), nil
}

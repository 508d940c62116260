package faucet_test

import (
	"context"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"liquidityFaucet/internal/faucet"
	"liquidityFaucet/internal/model"
	"liquidityFaucet/internal/sim"
	"liquidityFaucet/internal/storage"
)

var (
	poolAddr  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tokenA    = common.HexToAddress("0x000000000000000000000000000000000000000a")
	tokenB    = common.HexToAddress("0x000000000000000000000000000000000000000b")
	faucetID  = common.HexToAddress("0x00000000000000000000000000000000000000fa")
	admin     = common.HexToAddress("0x0000000000000000000000000000000000000ad1")
	provider  = common.HexToAddress("0x0000000000000000000000000000000000000111")
	userOne   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	userTwo   = common.HexToAddress("0x0000000000000000000000000000000000000002")
	claimFrom = uint64(1_700_000_000)
)

const interval = 3600

type harness struct {
	host    *sim.Host
	store   *storage.MemoryStore
	service *faucet.Service
}

// newHarness seeds a 1000/1000 pool owned by provider and gives the faucet
// `shares` of provider's shares.
func newHarness(t *testing.T, shares int64) *harness {
	t.Helper()
	ctx := context.Background()

	host := sim.NewHost(poolAddr, tokenA, tokenB)
	host.MockAllAuths()
	host.SetTimestamp(claimFrom)
	host.Tokens().Mint(tokenA, provider, big.NewInt(1000))
	host.Tokens().Mint(tokenB, provider, big.NewInt(1000))
	require.NoError(t, host.Pool().Deposit(ctx, provider, big.NewInt(1000), big.NewInt(0), big.NewInt(1000), big.NewInt(0)))
	if shares > 0 {
		require.NoError(t, host.Pool().TransferShares(provider, faucetID, big.NewInt(shares)))
	}

	store := storage.NewMemoryStore()
	service, err := faucet.NewService(faucet.Deps{
		Self:      faucetID,
		Store:     store,
		Pool:      host.Pool(),
		Transfers: host.Tokens(),
		Clock:     host,
		Auth:      host,
		Executor:  host,
		Metrics:   faucet.NewMetrics(prometheus.NewRegistry()),
	}, nil)
	require.NoError(t, err)

	require.NoError(t, service.Initialize(ctx, model.Settings{
		Admin:         admin,
		Amount:        big.NewInt(50),
		ClaimInterval: interval,
		TargetAsset:   model.AssetA,
	}))
	return &harness{host: host, store: store, service: service}
}

func TestBeforeAnyClaimEveryoneIsEligible(t *testing.T) {
	h := newHarness(t, 100)
	ctx := context.Background()
	for _, user := range []common.Address{userOne, userTwo, admin} {
		ok, err := h.service.CanClaim(ctx, user)
		require.NoError(t, err)
		require.True(t, ok)
		wait, err := h.service.TimeUntilNextClaim(ctx, user)
		require.NoError(t, err)
		require.Zero(t, wait)
	}
}

func TestInitializeValidation(t *testing.T) {
	host := sim.NewHost(poolAddr, tokenA, tokenB)
	service, err := faucet.NewService(faucet.Deps{
		Self:      faucetID,
		Store:     storage.NewMemoryStore(),
		Pool:      host.Pool(),
		Transfers: host.Tokens(),
		Clock:     host,
		Auth:      host,
		Executor:  host,
	}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	err = service.Initialize(ctx, model.Settings{Admin: admin, Amount: big.NewInt(-100), ClaimInterval: interval, TargetAsset: model.AssetA})
	require.ErrorIs(t, err, faucet.ErrValidation)
	require.ErrorIs(t, err, faucet.ErrAmountNotPositive)

	err = service.Initialize(ctx, model.Settings{Admin: admin, Amount: big.NewInt(10), ClaimInterval: math.MaxUint64, TargetAsset: model.AssetA})
	require.ErrorIs(t, err, faucet.ErrIntervalTooLarge)

	err = service.Initialize(ctx, model.Settings{Admin: admin, Pool: provider, Amount: big.NewInt(10), TargetAsset: model.AssetA})
	require.ErrorIs(t, err, faucet.ErrValidation)

	settings := model.Settings{Admin: admin, Amount: big.NewInt(10), ClaimInterval: interval, TargetAsset: model.AssetB}
	require.NoError(t, service.Initialize(ctx, settings))
	require.ErrorIs(t, service.Initialize(ctx, settings), faucet.ErrAlreadyInitialized)

	got, err := service.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, poolAddr, got.Pool)
	require.Equal(t, model.AssetB, got.TargetAsset)
}

func TestSetFaucetAmount(t *testing.T) {
	h := newHarness(t, 100)
	ctx := context.Background()

	for _, bad := range []int64{0, -1, -100} {
		err := h.service.SetFaucetAmount(ctx, admin, big.NewInt(bad))
		require.ErrorIs(t, err, faucet.ErrValidation)
	}
	err := h.service.SetFaucetAmount(ctx, userOne, big.NewInt(75))
	require.ErrorIs(t, err, faucet.ErrUnauthorized)

	amount, err := h.service.FaucetAmount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(50), amount.Int64())

	require.NoError(t, h.service.SetFaucetAmount(ctx, admin, big.NewInt(75)))
	amount, err = h.service.FaucetAmount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(75), amount.Int64())
}

func TestAdminSettersRequireAuthorization(t *testing.T) {
	h := newHarness(t, 100)
	ctx := context.Background()

	require.ErrorIs(t, h.service.SetClaimInterval(ctx, userOne, 10), faucet.ErrUnauthorized)
	require.ErrorIs(t, h.service.SetTargetAsset(ctx, userOne, model.AssetB), faucet.ErrUnauthorized)

	h.host.Revoke(admin)
	err := h.service.SetClaimInterval(ctx, admin, 10)
	require.ErrorIs(t, err, faucet.ErrUnauthorized)

	h.host.Authorize(admin)
	require.NoError(t, h.service.SetClaimInterval(ctx, admin, 10))
	require.NoError(t, h.service.SetTargetAsset(ctx, admin, model.AssetB))

	got, err := h.service.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(10), got.ClaimInterval)
	require.Equal(t, model.AssetB, got.TargetAsset)

	require.ErrorIs(t, h.service.SetTargetAsset(ctx, admin, model.Asset(7)), faucet.ErrValidation)
}

func TestSetClaimIntervalBounds(t *testing.T) {
	h := newHarness(t, 100)
	ctx := context.Background()

	err := h.service.SetClaimInterval(ctx, admin, math.MaxInt64+1)
	require.ErrorIs(t, err, faucet.ErrValidation)
	require.ErrorIs(t, err, faucet.ErrIntervalTooLarge)

	got, err := h.service.ClaimInterval(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(interval), got)

	require.NoError(t, h.service.SetClaimInterval(ctx, admin, math.MaxInt64))
	got, err = h.service.ClaimInterval(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxInt64), got)
}

func TestClaimWithExactShares(t *testing.T) {
	h := newHarness(t, 50)
	ctx := context.Background()

	receipt, err := h.service.Claim(ctx, userOne)
	require.NoError(t, err)
	require.NotEmpty(t, receipt.ID)
	require.Equal(t, int64(50), receipt.SharesBurned.Int64())
	require.Equal(t, int64(50), receipt.ReceivedA.Int64())
	require.Equal(t, int64(50), receipt.ReceivedB.Int64())
	require.Equal(t, tokenA, receipt.Token)
	require.Equal(t, claimFrom+interval, receipt.NextClaimAt)

	require.Equal(t, int64(50), h.host.Tokens().Balance(tokenA, userOne).Int64())
	require.Equal(t, int64(50), h.host.Tokens().Balance(tokenB, faucetID).Int64())
	require.Zero(t, h.host.Tokens().Balance(tokenA, faucetID).Sign())

	shares, err := h.service.ShareBalance(ctx)
	require.NoError(t, err)
	require.Zero(t, shares.Sign())
}

func TestClaimOneShareShort(t *testing.T) {
	h := newHarness(t, 49)
	ctx := context.Background()

	_, err := h.service.Claim(ctx, userOne)
	require.ErrorIs(t, err, faucet.ErrLiquidity)
	require.ErrorIs(t, err, faucet.ErrInsufficientShares)

	shares, err := h.service.ShareBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(49), shares.Int64())
	require.Zero(t, h.host.Tokens().Balance(tokenA, userOne).Sign())
}

func TestReceiptNextClaimAtSaturates(t *testing.T) {
	h := newHarness(t, 100)
	ctx := context.Background()
	now := uint64(math.MaxUint64 - 10)
	h.host.SetTimestamp(now)

	receipt, err := h.service.Claim(ctx, userOne)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), receipt.NextClaimAt)

	wait, err := h.service.TimeUntilNextClaim(ctx, userOne)
	require.NoError(t, err)
	require.Equal(t, receipt.NextClaimAt, now+wait)
}

func TestClaimWithoutShares(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	_, err := h.service.Claim(ctx, userOne)
	require.ErrorIs(t, err, faucet.ErrNoShares)

	require.NoError(t, h.service.SetFaucetAmount(ctx, admin, big.NewInt(1)))
	_, err = h.service.Claim(ctx, userOne)
	require.ErrorIs(t, err, faucet.ErrLiquidity)
}

func TestClaimExceedingReserve(t *testing.T) {
	h := newHarness(t, 1000)
	ctx := context.Background()

	require.NoError(t, h.service.SetFaucetAmount(ctx, admin, big.NewInt(1001)))
	_, err := h.service.Claim(ctx, userOne)
	require.ErrorIs(t, err, faucet.ErrInsufficientLiquidity)
}

func TestClaimRateLimit(t *testing.T) {
	h := newHarness(t, 500)
	ctx := context.Background()

	_, err := h.service.Claim(ctx, userOne)
	require.NoError(t, err)

	ok, err := h.service.CanClaim(ctx, userOne)
	require.NoError(t, err)
	require.False(t, ok)
	wait, err := h.service.TimeUntilNextClaim(ctx, userOne)
	require.NoError(t, err)
	require.Equal(t, uint64(interval), wait)

	h.host.Advance(interval - 1)
	_, err = h.service.Claim(ctx, userOne)
	require.ErrorIs(t, err, faucet.ErrRateLimited)
	require.ErrorIs(t, err, faucet.ErrIntervalNotMet)

	last, ok, err := h.store.LastClaim(ctx, userOne)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, claimFrom, last)

	// a second identity is unaffected
	_, err = h.service.Claim(ctx, userTwo)
	require.NoError(t, err)

	h.host.Advance(1)
	wait, err = h.service.TimeUntilNextClaim(ctx, userOne)
	require.NoError(t, err)
	require.Zero(t, wait)
	_, err = h.service.Claim(ctx, userOne)
	require.NoError(t, err)
	require.Equal(t, int64(100), h.host.Tokens().Balance(tokenA, userOne).Int64())
}

func TestClaimRequiresClaimantAuth(t *testing.T) {
	h := newHarness(t, 500)
	ctx := context.Background()
	h.host.Revoke(userOne)

	_, err := h.service.Claim(ctx, userOne)
	require.ErrorIs(t, err, faucet.ErrUnauthorized)
	_, ok, err := h.store.LastClaim(ctx, userOne)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFailedTransferRollsBackWithdraw(t *testing.T) {
	h := newHarness(t, 500)
	ctx := context.Background()
	service, err := faucet.NewService(faucet.Deps{
		Self:      faucetID,
		Store:     h.store,
		Pool:      h.host.Pool(),
		Transfers: failingTransfers{},
		Clock:     h.host,
		Auth:      h.host,
		Executor:  h.host,
	}, nil)
	require.NoError(t, err)

	_, err = service.Claim(ctx, userOne)
	require.ErrorContains(t, err, "transfer claim")

	shares, err := h.service.ShareBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(500), shares.Int64())
	ra, rb, err := h.service.PoolReserves(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1000), ra.Int64())
	require.Equal(t, int64(1000), rb.Int64())
	_, ok, err := h.store.LastClaim(ctx, userOne)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAvailableForClaims(t *testing.T) {
	h := newHarness(t, 250)
	ctx := context.Background()

	available, err := h.service.AvailableForClaims(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(250), available.Int64())

	empty := newHarness(t, 0)
	available, err = empty.service.AvailableForClaims(ctx)
	require.NoError(t, err)
	require.Zero(t, available.Sign())
}

func TestDepositLiquidity(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	h.host.Tokens().Mint(tokenA, admin, big.NewInt(500))
	h.host.Tokens().Mint(tokenB, admin, big.NewInt(500))

	err := h.service.DepositLiquidity(ctx, userOne, big.NewInt(500), big.NewInt(0), big.NewInt(500), big.NewInt(0))
	require.ErrorIs(t, err, faucet.ErrUnauthorized)

	require.NoError(t, h.service.DepositLiquidity(ctx, admin, big.NewInt(500), big.NewInt(0), big.NewInt(500), big.NewInt(0)))

	ra, rb, err := h.service.PoolReserves(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1500), ra.Int64())
	require.Equal(t, int64(1500), rb.Int64())
	shares, err := h.service.ShareBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(500), shares.Int64())

	_, err = h.service.Claim(ctx, userOne)
	require.NoError(t, err)
}

func TestStatus(t *testing.T) {
	h := newHarness(t, 100)
	status, err := h.service.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, faucetID, status.Service)
	require.Equal(t, tokenA, status.TokenA)
	require.Equal(t, tokenB, status.TokenB)
	require.Equal(t, int64(1000), status.TotalShares.Int64())
	require.Equal(t, int64(100), status.ShareBalance.Int64())
	require.Equal(t, int64(100), status.AvailableForClaims.Int64())
	require.Equal(t, admin, status.Settings.Admin)
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := faucet.NewService(faucet.Deps{Self: faucetID}, nil)
	require.Error(t, err)
}

var errTransfer = errors.New("token paused")

type failingTransfers struct{}

func (failingTransfers) Transfer(context.Context, common.Address, common.Address, common.Address, *big.Int) error {
	return errTransfer
}

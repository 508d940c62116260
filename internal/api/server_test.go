package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"liquidityFaucet/internal/api"
	"liquidityFaucet/internal/auth"
	"liquidityFaucet/internal/chain"
	"liquidityFaucet/internal/faucet"
	"liquidityFaucet/internal/model"
	"liquidityFaucet/internal/sim"
	"liquidityFaucet/internal/storage"
)

var (
	poolAddr   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tokenA     = common.HexToAddress("0x000000000000000000000000000000000000000a")
	tokenB     = common.HexToAddress("0x000000000000000000000000000000000000000b")
	faucetID   = common.HexToAddress("0x00000000000000000000000000000000000000fa")
	admin      = common.HexToAddress("0x0000000000000000000000000000000000000ad1")
	provider   = common.HexToAddress("0x0000000000000000000000000000000000000111")
	testDomain = auth.Domain{ChainID: 1, Faucet: faucetID}
)

const now = uint64(1_700_000_000)

type staticMeta struct{}

func (staticMeta) Resolve(_ context.Context, tok common.Address) model.TokenMeta {
	if tok == tokenA {
		return model.TokenMeta{Address: tok, Symbol: "AAA", Decimals: 2}
	}
	return model.TokenMeta{Address: tok, Symbol: "BBB", Decimals: 0}
}

func newTestServer(t *testing.T) (*httptest.Server, *sim.Host) {
	t.Helper()
	ctx := context.Background()

	host := sim.NewHost(poolAddr, tokenA, tokenB)
	host.SetTimestamp(now)
	host.Tokens().Mint(tokenA, provider, big.NewInt(1000))
	host.Tokens().Mint(tokenB, provider, big.NewInt(1000))
	require.NoError(t, host.Pool().Deposit(ctx, provider, big.NewInt(1000), big.NewInt(0), big.NewInt(1000), big.NewInt(0)))
	require.NoError(t, host.Pool().TransferShares(provider, faucetID, big.NewInt(200)))

	reg := prometheus.NewRegistry()
	service, err := faucet.NewService(faucet.Deps{
		Self:      faucetID,
		Store:     storage.NewMemoryStore(),
		Pool:      host.Pool(),
		Transfers: host.Tokens(),
		Clock:     host,
		Auth:      auth.NewSignatureAuthorizer(host, testDomain, 300),
		Executor:  host,
		Metrics:   faucet.NewMetrics(reg),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, service.Initialize(ctx, model.Settings{
		Admin:         admin,
		Amount:        big.NewInt(50),
		ClaimInterval: 3600,
		TargetAsset:   model.AssetA,
	}))

	srv := httptest.NewServer(api.NewServer(service, staticMeta{}, reg, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, host
}

func claimBody(t *testing.T, signer *chain.Signer, claimant common.Address, ts uint64) []byte {
	t.Helper()
	sig, err := signer.Sign(auth.Message(testDomain, claimant, ts))
	require.NoError(t, err)
	body, err := json.Marshal(map[string]interface{}{
		"claimant":  claimant.Hex(),
		"timestamp": ts,
		"signature": hexutil.Encode(sig),
	})
	require.NoError(t, err)
	return body
}

func postClaim(t *testing.T, srv *httptest.Server, body []byte) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/claims", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestClaimEndpoint(t *testing.T) {
	srv, host := newTestServer(t)
	signer, err := chain.NewSigner("0x0000000000000000000000000000000000000000000000000000000000000001", big.NewInt(1))
	require.NoError(t, err)
	claimant := signer.Address()

	resp, out := postClaim(t, srv, claimBody(t, signer, claimant, now))
	require.Equal(t, http.StatusOK, resp.StatusCode, out)
	require.Equal(t, "50", out["amount"])
	require.Equal(t, "a", out["asset"])
	require.Equal(t, int64(50), host.Tokens().Balance(tokenA, claimant).Int64())

	resp, out = postClaim(t, srv, claimBody(t, signer, claimant, now))
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "rate_limit", out["kind"])
}

func TestClaimEndpointRejectsBadProofs(t *testing.T) {
	srv, _ := newTestServer(t)
	signer, err := chain.NewSigner("0x0000000000000000000000000000000000000000000000000000000000000001", big.NewInt(1))
	require.NoError(t, err)
	victim := common.HexToAddress("0x0000000000000000000000000000000000000bad")

	resp, out := postClaim(t, srv, claimBody(t, signer, victim, now))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "authorization", out["kind"])

	resp, _ = postClaim(t, srv, claimBody(t, signer, signer.Address(), now-3600))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = postClaim(t, srv, []byte(`{"claimant":"nope"}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Amount             string `json:"amount"`
		TargetAsset        string `json:"target_asset"`
		ShareBalance       string `json:"share_balance"`
		AvailableForClaims string `json:"available_for_claims"`
		TokenA             struct {
			Symbol  string `json:"symbol"`
			Reserve string `json:"reserve"`
			Display string `json:"reserve_display"`
		} `json:"token_a"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "50", out.Amount)
	require.Equal(t, "a", out.TargetAsset)
	require.Equal(t, "200", out.ShareBalance)
	require.Equal(t, "200", out.AvailableForClaims)
	require.Equal(t, "AAA", out.TokenA.Symbol)
	require.Equal(t, "1000", out.TokenA.Reserve)
	require.Equal(t, "10", out.TokenA.Display)
}

func TestEligibilityEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/claimants/0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, true, out["can_claim"])
	require.EqualValues(t, 0, out["time_until_next_claim"])

	bad, err := http.Get(srv.URL + "/v1/claimants/xyz")
	require.NoError(t, err)
	bad.Body.Close()
	require.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	signer, err := chain.NewSigner("0x0000000000000000000000000000000000000000000000000000000000000002", big.NewInt(1))
	require.NoError(t, err)
	resp, _ := postClaim(t, srv, claimBody(t, signer, signer.Address(), now))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(metrics.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(buf.String(), `faucet_claims_total{result="success"} 1`), buf.String())
}

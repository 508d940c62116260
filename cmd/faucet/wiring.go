package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityFaucet/internal/auth"
	"liquidityFaucet/internal/chain"
	"liquidityFaucet/internal/config"
	"liquidityFaucet/internal/faucet"
	"liquidityFaucet/internal/model"
	"liquidityFaucet/internal/pool"
	"liquidityFaucet/internal/storage"
	"liquidityFaucet/internal/storage/postgres"
	"liquidityFaucet/internal/token"
)

// app is everything a subcommand needs, built from flags/env/config.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	client   *chain.Client
	service  *faucet.Service
	registry *prometheus.Registry
	meta     *metaResolver

	faucetSigner   *chain.Signer
	adminSigner    *chain.Signer
	claimantSigner *chain.Signer

	closers []func()
}

type authMode int

const (
	authKeys authMode = iota
	authSignatures
)

func newApp(cmd *cobra.Command, mode authMode) (*app, context.Context, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if cfg.RPCURL == "" {
		return nil, nil, fmt.Errorf("rpc url is required")
	}
	poolAddr, err := chain.ParseAddress(cfg.Pool)
	if err != nil {
		return nil, nil, fmt.Errorf("pool: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{cfg: cfg, logger: logger, closers: []func(){stop, func() { _ = logger.Sync() }}}

	client, err := chain.NewClient(ctx, cfg.RPCURL, chain.RetryConfig{MaxRetries: cfg.MaxRetries, Backoff: cfg.RetryBackoff})
	if err != nil {
		a.close()
		return nil, nil, fmt.Errorf("connect rpc: %w", err)
	}
	a.client = client
	a.closers = append(a.closers, client.Close)

	chainID, err := client.GetChainID(ctx)
	if err != nil {
		a.close()
		return nil, nil, fmt.Errorf("get chain id: %w", err)
	}

	if err := a.loadSigners(cfg, chainID); err != nil {
		a.close()
		return nil, nil, err
	}
	self, err := a.faucetIdentity()
	if err != nil {
		a.close()
		return nil, nil, err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.close()
		return nil, nil, err
	}

	gateway, err := pool.NewGateway(client, poolAddr, a.faucetSigner, logger)
	if err != nil {
		a.close()
		return nil, nil, err
	}

	var clock faucet.Clock = client
	if cfg.Clock == config.ClockSystem {
		clock = faucet.SystemClock{}
	}

	var authorizer faucet.Authorizer
	switch mode {
	case authSignatures:
		authorizer = auth.NewSignatureAuthorizer(clock, auth.Domain{ChainID: chainID.Uint64(), Faucet: self}, uint64(cfg.ProofMaxAge.Seconds()))
	default:
		keys := auth.NewKeyAuthorizer()
		for _, s := range a.signers() {
			keys.Add(s.Address())
		}
		authorizer = keys
	}

	var journal storage.Journal
	if cfg.Journal != "" {
		journal = storage.NewJsonlJournal(cfg.Journal)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service, err := faucet.NewService(faucet.Deps{
		Self:      self,
		Store:     store,
		Pool:      gateway,
		Transfers: token.NewTransferer(client, logger, a.signers()...),
		Clock:     clock,
		Auth:      authorizer,
		Journal:   journal,
		Metrics:   faucet.NewMetrics(a.registry),
	}, logger)
	if err != nil {
		a.close()
		return nil, nil, err
	}
	a.service = service
	a.meta = &metaResolver{cache: token.NewMetaCache(), caller: client, logger: logger}

	logger.Info("faucet ready",
		zap.String("rpc", cfg.RPCURL),
		zap.String("chain_id", chainID.String()),
		zap.String("pool", poolAddr.Hex()),
		zap.String("faucet", self.Hex()),
		zap.String("store", cfg.Store),
		zap.String("clock", cfg.Clock),
	)
	return a, ctx, nil
}

func (a *app) loadSigners(cfg config.Config, chainID *big.Int) error {
	load := func(name, key string) (*chain.Signer, error) {
		if key == "" {
			return nil, nil
		}
		signer, err := chain.NewSigner(key, chainID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return signer, nil
	}

	var err error
	if a.faucetSigner, err = load("faucet-key", cfg.FaucetKey); err != nil {
		return err
	}
	if a.adminSigner, err = load("admin-key", cfg.AdminKey); err != nil {
		return err
	}
	if a.claimantSigner, err = load("claimant-key", cfg.ClaimantKey); err != nil {
		return err
	}
	return nil
}

// faucetIdentity prefers the faucet key. Without it the faucet address alone
// is enough for read-only commands; writes then fail for lack of a signer.
func (a *app) faucetIdentity() (common.Address, error) {
	if a.faucetSigner != nil {
		if a.cfg.Faucet != "" && !strings.EqualFold(a.cfg.Faucet, a.faucetSigner.Address().Hex()) {
			return common.Address{}, fmt.Errorf("faucet %s does not match faucet-key %s", a.cfg.Faucet, a.faucetSigner.Address().Hex())
		}
		return a.faucetSigner.Address(), nil
	}
	if a.cfg.Faucet == "" {
		return common.Address{}, fmt.Errorf("faucet-key or faucet address is required")
	}
	addr, err := chain.ParseAddress(a.cfg.Faucet)
	if err != nil {
		return common.Address{}, fmt.Errorf("faucet: %w", err)
	}
	return addr, nil
}

func (a *app) openStore(ctx context.Context) (storage.Store, error) {
	switch a.cfg.Store {
	case config.StorePostgres:
		store, err := postgres.NewStore(ctx, a.cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return store, nil
	case config.StoreMemory:
		a.logger.Warn("memory store: faucet state is lost on exit")
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewFileStore(a.cfg.StateFile), nil
	}
}

func (a *app) signers() []*chain.Signer {
	out := make([]*chain.Signer, 0, 3)
	for _, s := range []*chain.Signer{a.faucetSigner, a.adminSigner, a.claimantSigner} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// claimantAddress takes the optional positional address, falling back to the
// claimant key.
func (a *app) claimantAddress(args []string) (common.Address, error) {
	if len(args) > 0 {
		return chain.ParseAddress(args[0])
	}
	if a.claimantSigner == nil {
		return common.Address{}, fmt.Errorf("address argument or claimant-key is required")
	}
	return a.claimantSigner.Address(), nil
}

func (a *app) requireAdmin() (*chain.Signer, error) {
	if a.adminSigner == nil {
		return nil, fmt.Errorf("admin-key is required")
	}
	return a.adminSigner, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// metaResolver adapts the token metadata cache to the chain client.
type metaResolver struct {
	cache  *token.MetaCache
	caller token.Caller
	logger *zap.Logger
}

func (m *metaResolver) Resolve(ctx context.Context, tok common.Address) model.TokenMeta {
	return m.cache.Resolve(ctx, m.caller, tok, m.logger)
}

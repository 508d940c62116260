package token

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"liquidityFaucet/internal/chain"
)

// Transactor sends state-changing contract calls. *chain.Client satisfies it.
type Transactor interface {
	Transact(ctx context.Context, signer *chain.Signer, contract common.Address, parsed abi.ABI, method string, args ...interface{}) (*types.Receipt, error)
}

// Transferer moves ERC20 balances using the keys it was given. A transfer
// from an identity without a registered signer fails.
type Transferer struct {
	client  Transactor
	logger  *zap.Logger
	mu      sync.RWMutex
	signers map[common.Address]*chain.Signer
}

func NewTransferer(client Transactor, logger *zap.Logger, signers ...*chain.Signer) *Transferer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Transferer{
		client:  client,
		logger:  logger,
		signers: make(map[common.Address]*chain.Signer, len(signers)),
	}
	for _, s := range signers {
		if s != nil {
			t.signers[s.Address()] = s
		}
	}
	return t
}

// Transfer sends amount of asset from `from` to `to`.
func (t *Transferer) Transfer(ctx context.Context, asset, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("invalid transfer amount: %v", amount)
	}
	t.mu.RLock()
	signer, ok := t.signers[from]
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no signer for %s", from.Hex())
	}

	parsed, err := ERC20ABI()
	if err != nil {
		return fmt.Errorf("parse erc20 abi: %w", err)
	}
	receipt, err := t.client.Transact(ctx, signer, asset, parsed, "transfer", to, amount)
	if err != nil {
		return err
	}
	t.logger.Debug("token transfer",
		zap.String("token", asset.Hex()),
		zap.String("from", from.Hex()),
		zap.String("to", to.Hex()),
		zap.Stringer("amount", amount),
		zap.String("tx", receipt.TxHash.Hex()),
	)
	return nil
}

// Approve lets spender pull up to amount of asset from the signer.
func Approve(ctx context.Context, client Transactor, signer *chain.Signer, asset, spender common.Address, amount *big.Int) error {
	parsed, err := ERC20ABI()
	if err != nil {
		return fmt.Errorf("parse erc20 abi: %w", err)
	}
	if _, err := client.Transact(ctx, signer, asset, parsed, "approve", spender, amount); err != nil {
		return err
	}
	return nil
}

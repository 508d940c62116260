package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer holds a private key and the transact options derived from it.
type Signer struct {
	address common.Address
	key     *ecdsa.PrivateKey
	opts    *bind.TransactOpts
}

// NewSigner loads a hex encoded secp256k1 key for the given chain.
func NewSigner(hexKey string, chainID *big.Int) (*Signer, error) {
	key, err := ParsePrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	return &Signer{
		address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
		opts:    opts,
	}, nil
}

// ParsePrivateKey decodes a hex key with or without the 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, fmt.Errorf("private key is empty")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

func (s *Signer) Address() common.Address {
	return s.address
}

// Sign produces an EIP-191 personal signature over message.
func (s *Signer) Sign(message []byte) ([]byte, error) {
	return SignText(s.key, message)
}

// Transact sends method on contract, waits for it to be mined and fails on a
// reverted receipt.
func (c *Client) Transact(ctx context.Context, signer *Signer, contract common.Address, parsed abi.ABI, method string, args ...interface{}) (*types.Receipt, error) {
	if signer == nil {
		return nil, fmt.Errorf("signer is nil")
	}
	opts := *signer.opts
	opts.Context = ctx

	bound := bind.NewBoundContract(contract, parsed, c.ethClient, c.ethClient, c.ethClient)
	tx, err := bound.Transact(&opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	receipt, err := bind.WaitMined(ctx, c.ethClient, tx)
	if err != nil {
		return nil, fmt.Errorf("wait %s %s: %w", method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s reverted in tx %s", method, tx.Hash().Hex())
	}
	return receipt, nil
}

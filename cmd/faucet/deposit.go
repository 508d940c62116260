package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityFaucet/internal/config"
)

func newDepositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit admin liquidity into the pool on the faucet's behalf",
		RunE:  runDeposit,
	}
	cmd.Flags().String("amount-a", "", "desired token A amount in base units")
	cmd.Flags().String("min-a", "0", "minimum token A accepted by the pool")
	cmd.Flags().String("amount-b", "", "desired token B amount in base units")
	cmd.Flags().String("min-b", "0", "minimum token B accepted by the pool")
	return cmd
}

func runDeposit(cmd *cobra.Command, _ []string) error {
	a, ctx, err := newApp(cmd, authKeys)
	if err != nil {
		return err
	}
	defer a.close()

	admin, err := a.requireAdmin()
	if err != nil {
		return err
	}

	amounts := make(map[string]*big.Int, 4)
	for _, name := range []string{"amount-a", "min-a", "amount-b", "min-b"} {
		raw, _ := cmd.Flags().GetString(name)
		v, err := config.ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		amounts[name] = v
	}

	if err := a.service.DepositLiquidity(ctx, admin.Address(), amounts["amount-a"], amounts["min-a"], amounts["amount-b"], amounts["min-b"]); err != nil {
		return err
	}
	a.logger.Info("deposit done", zap.String("admin", admin.Address().Hex()))
	return nil
}

package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityFaucet/internal/chain"
	"liquidityFaucet/internal/config"
	"liquidityFaucet/internal/model"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the faucet settings",
		RunE:  runInit,
	}
	cmd.Flags().String("admin", "", "admin address (defaults to the admin-key address)")
	cmd.Flags().String("amount", "", "per-claim amount in base units")
	cmd.Flags().Uint64("interval", 86400, "minimum seconds between claims per identity")
	cmd.Flags().String("asset", "a", "distributed asset (a or b)")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	a, ctx, err := newApp(cmd, authKeys)
	if err != nil {
		return err
	}
	defer a.close()

	adminFlag, _ := cmd.Flags().GetString("admin")
	amountFlag, _ := cmd.Flags().GetString("amount")
	interval, _ := cmd.Flags().GetUint64("interval")
	assetFlag, _ := cmd.Flags().GetString("asset")

	var admin common.Address
	switch {
	case adminFlag != "":
		if admin, err = chain.ParseAddress(adminFlag); err != nil {
			return fmt.Errorf("admin: %w", err)
		}
	case a.adminSigner != nil:
		admin = a.adminSigner.Address()
	default:
		return fmt.Errorf("admin or admin-key is required")
	}

	amount, err := config.ParseAmount(amountFlag)
	if err != nil {
		return err
	}
	asset, err := config.ParseAsset(assetFlag)
	if err != nil {
		return err
	}

	settings := model.Settings{
		Admin:         admin,
		Amount:        amount,
		ClaimInterval: interval,
		TargetAsset:   asset,
	}
	if err := a.service.Initialize(ctx, settings); err != nil {
		return err
	}
	a.logger.Info("init done", zap.String("admin", admin.Hex()), zap.Stringer("amount", amount))
	return nil
}

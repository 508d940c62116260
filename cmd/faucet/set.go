package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"liquidityFaucet/internal/config"
)

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update faucet settings (admin only)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "amount <base-units>",
			Short: "Set the per-claim amount",
			Args:  cobra.ExactArgs(1),
			RunE:  runSetAmount,
		},
		&cobra.Command{
			Use:   "interval <seconds>",
			Short: "Set the minimum seconds between claims",
			Args:  cobra.ExactArgs(1),
			RunE:  runSetInterval,
		},
		&cobra.Command{
			Use:   "asset <a|b>",
			Short: "Set the distributed asset",
			Args:  cobra.ExactArgs(1),
			RunE:  runSetAsset,
		},
	)
	return cmd
}

func runSetAmount(cmd *cobra.Command, args []string) error {
	amount, err := config.ParseAmount(args[0])
	if err != nil {
		return err
	}
	return withAdmin(cmd, func(ctx context.Context, a *app, admin common.Address) error {
		return a.service.SetFaucetAmount(ctx, admin, amount)
	})
}

func runSetInterval(cmd *cobra.Command, args []string) error {
	interval, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parse interval: %w", err)
	}
	return withAdmin(cmd, func(ctx context.Context, a *app, admin common.Address) error {
		return a.service.SetClaimInterval(ctx, admin, interval)
	})
}

func runSetAsset(cmd *cobra.Command, args []string) error {
	asset, err := config.ParseAsset(args[0])
	if err != nil {
		return err
	}
	return withAdmin(cmd, func(ctx context.Context, a *app, admin common.Address) error {
		return a.service.SetTargetAsset(ctx, admin, asset)
	})
}

func withAdmin(cmd *cobra.Command, fn func(context.Context, *app, common.Address) error) error {
	a, ctx, err := newApp(cmd, authKeys)
	if err != nil {
		return err
	}
	defer a.close()
	admin, err := a.requireAdmin()
	if err != nil {
		return err
	}
	if err := fn(ctx, a, admin.Address()); err != nil {
		return err
	}
	settings, err := a.service.Settings(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd, settings)
}

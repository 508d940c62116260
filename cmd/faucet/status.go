package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"liquidityFaucet/internal/model"
	"liquidityFaucet/internal/token"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show settings, pool reserves and available funding",
		RunE:  runStatus,
	}
}

type statusView struct {
	model.Status
	TokenAMeta       model.TokenMeta `json:"token_a_meta"`
	TokenBMeta       model.TokenMeta `json:"token_b_meta"`
	ReserveADisplay  string          `json:"reserve_a_display"`
	ReserveBDisplay  string          `json:"reserve_b_display"`
	AvailableDisplay string          `json:"available_for_claims_display"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, ctx, err := newApp(cmd, authKeys)
	if err != nil {
		return err
	}
	defer a.close()

	status, err := a.service.Status(ctx)
	if err != nil {
		return err
	}
	metaA := a.meta.Resolve(ctx, status.TokenA)
	metaB := a.meta.Resolve(ctx, status.TokenB)
	target := metaA
	if status.Settings.TargetAsset == model.AssetB {
		target = metaB
	}

	return printJSON(cmd, statusView{
		Status:           status,
		TokenAMeta:       metaA,
		TokenBMeta:       metaB,
		ReserveADisplay:  token.FormatUnits(status.ReserveA, metaA.Decimals),
		ReserveBDisplay:  token.FormatUnits(status.ReserveB, metaB.Decimals),
		AvailableDisplay: token.FormatUnits(status.AvailableForClaims, target.Decimals),
	})
}

func newEligibilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eligibility [address]",
		Short: "Show whether an identity can claim now",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEligibility,
	}
}

func runEligibility(cmd *cobra.Command, args []string) error {
	a, ctx, err := newApp(cmd, authKeys)
	if err != nil {
		return err
	}
	defer a.close()

	claimant, err := a.claimantAddress(args)
	if err != nil {
		return err
	}
	eligibility, err := a.service.Eligibility(ctx, claimant)
	if err != nil {
		return err
	}
	return printJSON(cmd, eligibility)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

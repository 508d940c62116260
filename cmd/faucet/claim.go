package main

import (
	"github.com/spf13/cobra"
)

func newClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim [address]",
		Short: "Claim for the claimant-key identity, or for a held key's address",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runClaim,
	}
}

func runClaim(cmd *cobra.Command, args []string) error {
	a, ctx, err := newApp(cmd, authKeys)
	if err != nil {
		return err
	}
	defer a.close()

	claimant, err := a.claimantAddress(args)
	if err != nil {
		return err
	}

	receipt, err := a.service.Claim(ctx, claimant)
	if err != nil {
		return err
	}
	return printJSON(cmd, receipt)
}

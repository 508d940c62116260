package main

import (
	"time"

	"github.com/spf13/cobra"

	"liquidityFaucet/internal/api"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the claim API; claimants authenticate with signed messages",
		RunE:  runServe,
	}
	cmd.Flags().String("listen", ":8080", "HTTP listen address")
	cmd.Flags().Duration("proof-max-age", 5*time.Minute, "maximum age of a claim signature")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, ctx, err := newApp(cmd, authSignatures)
	if err != nil {
		return err
	}
	defer a.close()

	server := api.NewServer(a.service, a.meta, a.registry, a.logger)
	return server.Run(ctx, a.cfg.Listen)
}

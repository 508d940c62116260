package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "faucet",
		Short:        "Rate-limited token faucet funded by pool shares",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("rpc", "", "EVM RPC URL")
	flags.String("pool", "", "pool contract address")
	flags.String("store", "file", "state backend (file, postgres, memory)")
	flags.String("state-file", "./data/faucet.json", "state file for the file store")
	flags.String("pg-dsn", "", "Postgres DSN for the postgres store")
	flags.String("journal", "./data/claims.jsonl", "claim receipt journal (empty disables)")
	flags.String("faucet", "", "faucet address for read-only use without faucet-key")
	flags.String("faucet-key", "", "private key of the faucet identity")
	flags.String("admin-key", "", "private key of the admin")
	flags.String("claimant-key", "", "private key of the claimant")
	flags.String("clock", "chain", "time source (chain, system)")
	flags.Int("max-retries", 5, "maximum retry attempts for RPC reads")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newInitCmd(),
		newClaimCmd(),
		newDepositCmd(),
		newSetCmd(),
		newStatusCmd(),
		newEligibilityCmd(),
		newServeCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

package config

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"liquidityFaucet/internal/model"
)

// Store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Clock sources.
const (
	ClockChain  = "chain"
	ClockSystem = "system"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL       string
	Pool         string
	Store        string
	StateFile    string
	PGDSN        string
	Journal      string
	Faucet       string
	FaucetKey    string
	AdminKey     string
	ClaimantKey  string
	Clock        string
	MaxRetries   int
	RetryBackoff time.Duration
	Listen       string
	ProofMaxAge  time.Duration
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FAUCET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store", StoreFile)
	v.SetDefault("state-file", "./data/faucet.json")
	v.SetDefault("journal", "./data/claims.jsonl")
	v.SetDefault("clock", ClockChain)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("listen", ":8080")
	v.SetDefault("proof-max-age", 5*time.Minute)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:       v.GetString("rpc"),
		Pool:         v.GetString("pool"),
		Store:        strings.ToLower(v.GetString("store")),
		StateFile:    v.GetString("state-file"),
		PGDSN:        v.GetString("pg-dsn"),
		Journal:      v.GetString("journal"),
		Faucet:       v.GetString("faucet"),
		FaucetKey:    v.GetString("faucet-key"),
		AdminKey:     v.GetString("admin-key"),
		ClaimantKey:  v.GetString("claimant-key"),
		Clock:        strings.ToLower(v.GetString("clock")),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Listen:       v.GetString("listen"),
		ProofMaxAge:  v.GetDuration("proof-max-age"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile:
		if c.StateFile == "" {
			return fmt.Errorf("state-file is required for the file store")
		}
	case StorePostgres:
		if c.PGDSN == "" {
			return fmt.Errorf("pg-dsn is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want file, postgres or memory)", c.Store)
	}

	switch c.Clock {
	case ClockChain, ClockSystem:
	default:
		return fmt.Errorf("unknown clock %q (want chain or system)", c.Clock)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max-retries must not be negative")
	}
	if c.ProofMaxAge < time.Second {
		return fmt.Errorf("proof-max-age must be at least 1s, got %s", c.ProofMaxAge)
	}
	return nil
}

// ParseAmount parses a base-unit integer amount. Exponent notation such as
// "5e18" is accepted as long as the result is whole.
func ParseAmount(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("amount is required")
	}
	value, err := decimal.NewFromString(input)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", input, err)
	}
	if !value.Equal(value.Truncate(0)) {
		return nil, fmt.Errorf("amount %q is not a whole number of base units", input)
	}
	return value.BigInt(), nil
}

// ParseAsset parses a target asset flag value.
func ParseAsset(input string) (model.Asset, error) {
	return model.ParseAsset(input)
}

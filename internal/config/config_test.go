package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"liquidityFaucet/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreFile || cfg.Clock != ClockChain || cfg.MaxRetries != 5 || cfg.RetryBackoff != 500*time.Millisecond {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
	if cfg.ProofMaxAge != 5*time.Minute || cfg.Listen != ":8080" {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faucet.yaml")
	content := "rpc: http://file:8545\nstore: memory\nmax-retries: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FAUCET_MAX_RETRIES", "7")
	t.Setenv("FAUCET_POOL", "0x00000000000000000000000000000000000000aa")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rpc", "", "")
	if err := flags.Parse([]string{"--rpc", "http://flag:8545"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURL != "http://flag:8545" {
		t.Fatalf("flag should win: %s", cfg.RPCURL)
	}
	if cfg.MaxRetries != 7 {
		t.Fatalf("env should beat file: %d", cfg.MaxRetries)
	}
	if cfg.Store != StoreMemory || cfg.Pool != "0x00000000000000000000000000000000000000aa" {
		t.Fatalf("config mismatch: %+v", cfg)
	}
}

func TestLoadRejectsNegativeProofMaxAge(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store", "", "")
	flags.Duration("proof-max-age", 0, "")
	if err := flags.Parse([]string{"--store", "memory", "--proof-max-age=-1m"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := Load("", flags); err == nil {
		t.Fatalf("expected negative proof-max-age to be rejected")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Store: StoreMemory, Clock: ClockSystem, ProofMaxAge: time.Minute}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cases := []Config{
		{Store: "redis", Clock: ClockSystem},
		{Store: StorePostgres, Clock: ClockSystem},
		{Store: StoreFile, Clock: ClockSystem},
		{Store: StoreMemory, Clock: "ntp"},
		{Store: StoreMemory, Clock: ClockChain, MaxRetries: -1, ProofMaxAge: time.Minute},
		{Store: StoreMemory, Clock: ClockSystem, ProofMaxAge: -time.Minute},
		{Store: StoreMemory, Clock: ClockSystem},
		{Store: StoreMemory, Clock: ClockSystem, ProofMaxAge: 500 * time.Millisecond},
	}
	for _, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"100":  "100",
		" 42 ": "42",
		"5e18": "5000000000000000000",
		"-100": "-100",
	}
	for input, want := range cases {
		got, err := ParseAmount(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got.String() != want {
			t.Fatalf("parse %q mismatch: got %s want %s", input, got, want)
		}
	}
	for _, bad := range []string{"", "1.5", "abc"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseAsset(t *testing.T) {
	got, err := ParseAsset("B")
	if err != nil || got != model.AssetB {
		t.Fatalf("parse asset mismatch: %v %v", got, err)
	}
}

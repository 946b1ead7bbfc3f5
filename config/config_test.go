package config

import (
	"os"
	"path/filepath"
	"testing"

	"aliaspay/crypto"
)

func testBech32(t *testing.T, last byte) string {
	t.Helper()
	raw := make([]byte, crypto.AddressLength)
	raw[len(raw)-1] = last
	return crypto.MustNewAddress(crypto.PayPrefix, raw).String()
}

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCAddress != ":8080" {
		t.Fatalf("unexpected rpc address: %q", cfg.RPCAddress)
	}
	if cfg.Genesis.Complete() {
		t.Fatalf("default genesis should be incomplete")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not persisted: %v", err)
	}

	// A second load reads the file written by the first.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.DataDir != cfg.DataDir {
		t.Fatalf("reload mismatch: %q vs %q", again.DataDir, cfg.DataDir)
	}
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	admin := testBech32(t, 1)
	token := testBech32(t, 2)
	content := `RPCAddress = ":9090"
DataDir = "/tmp/router"

[Genesis]
Admin = "` + admin + `"
FeeRate = "5"
FeeDecimals = 1
TokenAddress = "` + token + `"
TokenCredential = "hash"
Entropy = "seed material"
CallbackCredential = "own hash"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCAddress != ":9090" {
		t.Fatalf("unexpected rpc address: %q", cfg.RPCAddress)
	}
	if !cfg.Genesis.Complete() {
		t.Fatalf("genesis should be complete")
	}

	params, err := cfg.Genesis.InitParams()
	if err != nil {
		t.Fatalf("init params: %v", err)
	}
	if params.Admin != admin {
		t.Fatalf("unexpected admin: %q", params.Admin)
	}
	if params.FeeRate.Uint64() != 5 || params.FeeDecimals != 1 {
		t.Fatalf("unexpected fee: %s / %d", params.FeeRate, params.FeeDecimals)
	}
}

func TestInitParamsRejectsBadAddresses(t *testing.T) {
	genesis := Genesis{
		Admin:           "not-bech32",
		FeeRate:         "5",
		TokenAddress:    testBech32(t, 2),
		TokenCredential: "hash",
		Entropy:         "seed",
	}
	if _, err := genesis.InitParams(); err == nil {
		t.Fatalf("expected error for bad admin address")
	}

	genesis.Admin = testBech32(t, 1)
	genesis.FeeRate = "not-a-number"
	if _, err := genesis.InitParams(); err == nil {
		t.Fatalf("expected error for bad fee rate")
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/holiman/uint256"

	"aliaspay/crypto"
	"aliaspay/native/router"
)

// Config is the node configuration, persisted as TOML.
type Config struct {
	RPCAddress     string  `toml:"RPCAddress"`
	DataDir        string  `toml:"DataDir"`
	LogEnvironment string  `toml:"LogEnvironment"`
	Genesis        Genesis `toml:"Genesis"`
}

// Genesis holds the constructor parameters applied the first time the node
// starts over an empty database. Subsequent starts ignore this section.
type Genesis struct {
	Admin              string `toml:"Admin"`
	FeeRate            string `toml:"FeeRate"`
	FeeDecimals        uint8  `toml:"FeeDecimals"`
	TokenAddress       string `toml:"TokenAddress"`
	TokenCredential    string `toml:"TokenCredential"`
	Entropy            string `toml:"Entropy"`
	CallbackCredential string `toml:"CallbackCredential"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = ":8080"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./aliaspay-data"
	}

	return cfg, nil
}

// Complete reports whether the genesis section carries every field needed to
// construct the router.
func (g Genesis) Complete() bool {
	return strings.TrimSpace(g.Admin) != "" &&
		strings.TrimSpace(g.FeeRate) != "" &&
		strings.TrimSpace(g.TokenAddress) != "" &&
		strings.TrimSpace(g.TokenCredential) != "" &&
		strings.TrimSpace(g.Entropy) != ""
}

// InitParams validates the genesis section and converts it to constructor
// parameters.
func (g Genesis) InitParams() (router.InitParams, error) {
	if _, err := crypto.DecodeAddress(strings.TrimSpace(g.Admin)); err != nil {
		return router.InitParams{}, fmt.Errorf("genesis admin: %w", err)
	}
	if _, err := crypto.DecodeAddress(strings.TrimSpace(g.TokenAddress)); err != nil {
		return router.InitParams{}, fmt.Errorf("genesis token address: %w", err)
	}
	feeRate, err := uint256.FromDecimal(strings.TrimSpace(g.FeeRate))
	if err != nil {
		return router.InitParams{}, fmt.Errorf("genesis fee rate: %w", err)
	}
	return router.InitParams{
		Admin:           strings.TrimSpace(g.Admin),
		FeeRate:         feeRate,
		FeeDecimals:     g.FeeDecimals,
		TokenAddr:       strings.TrimSpace(g.TokenAddress),
		TokenCredential: g.TokenCredential,
		Entropy:         g.Entropy,
	}, nil
}

// createDefault creates and saves a default configuration file. The genesis
// section is left blank; the operator fills it in before first start.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress: ":8080",
		DataDir:    "./aliaspay-data",
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

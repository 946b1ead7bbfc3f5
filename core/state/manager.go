package state

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"aliaspay/crypto"
	"aliaspay/storage"
)

// Config is the router's singleton configuration record. FeeRate and
// FeeDecimals jointly encode a fixed-point percentage equal to
// FeeRate / 10^FeeDecimals percent.
type Config struct {
	Admin       []byte
	Active      bool
	FeeRate     *uint256.Int
	FeeDecimals uint8
}

// Clone returns a deep copy so callers cannot mutate persisted state through
// a shared FeeRate pointer.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := &Config{
		Admin:       append([]byte(nil), c.Admin...),
		Active:      c.Active,
		FeeDecimals: c.FeeDecimals,
	}
	if c.FeeRate != nil {
		clone.FeeRate = new(uint256.Int).Set(c.FeeRate)
	} else {
		clone.FeeRate = uint256.NewInt(0)
	}
	return clone
}

// SeedLength is the byte length of the persisted PRNG seed.
const SeedLength = 32

// Manager provides typed access to the router's persisted regions. It is the
// single store handle passed into every operation; each logical prefix is
// exposed as a small typed table and nothing reads the database directly.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) get(key []byte) ([]byte, bool, error) {
	data, err := m.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

// --- Config table ---

// SetConfig persists the configuration record.
func (m *Manager) SetConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("state: config must not be nil")
	}
	if len(cfg.Admin) != crypto.AddressLength {
		return fmt.Errorf("state: admin must be %d bytes", crypto.AddressLength)
	}
	stored := cfg.Clone()
	encoded, err := rlp.EncodeToBytes(stored)
	if err != nil {
		return err
	}
	return m.db.Put(configKey, encoded)
}

// Config loads the configuration record. The boolean reports whether the
// router has been initialised.
func (m *Manager) Config() (*Config, bool, error) {
	data, ok, err := m.get(configKey)
	if err != nil || !ok {
		return nil, false, err
	}
	cfg := new(Config)
	if err := rlp.DecodeBytes(data, cfg); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// --- PRNG seed ---

// SetSeed persists the 32-byte PRNG seed.
func (m *Manager) SetSeed(seed []byte) error {
	if len(seed) != SeedLength {
		return fmt.Errorf("state: seed must be %d bytes, got %d", SeedLength, len(seed))
	}
	encoded, err := rlp.EncodeToBytes(seed)
	if err != nil {
		return err
	}
	return m.db.Put(prngSeedKey, encoded)
}

// Seed loads the persisted PRNG seed.
func (m *Manager) Seed() ([]byte, bool, error) {
	data, ok, err := m.get(prngSeedKey)
	if err != nil || !ok {
		return nil, false, err
	}
	var seed []byte
	if err := rlp.DecodeBytes(data, &seed); err != nil {
		return nil, false, err
	}
	return seed, true, nil
}

// --- Token registry table ---

// SetTokenCredential records (or overwrites) the callback credential for a
// trusted token contract.
func (m *Manager) SetTokenCredential(tokenAddr []byte, credential string) error {
	if len(tokenAddr) != crypto.AddressLength {
		return fmt.Errorf("state: token address must be %d bytes", crypto.AddressLength)
	}
	encoded, err := rlp.EncodeToBytes(credential)
	if err != nil {
		return err
	}
	return m.db.Put(tokenInfoKey(tokenAddr), encoded)
}

// TokenCredential resolves the callback credential registered for a token
// contract. Absence means the caller is not a trusted token.
func (m *Manager) TokenCredential(tokenAddr []byte) (string, bool, error) {
	data, ok, err := m.get(tokenInfoKey(tokenAddr))
	if err != nil || !ok {
		return "", false, err
	}
	var credential string
	if err := rlp.DecodeBytes(data, &credential); err != nil {
		return "", false, err
	}
	return credential, true, nil
}

// --- Alias registry table ---

// SetAliasOwner maps an alias string to its owning account.
func (m *Manager) SetAliasOwner(alias string, owner []byte) error {
	if alias == "" {
		return fmt.Errorf("state: alias must not be empty")
	}
	if len(owner) != crypto.AddressLength {
		return fmt.Errorf("state: owner must be %d bytes", crypto.AddressLength)
	}
	encoded, err := rlp.EncodeToBytes(owner)
	if err != nil {
		return err
	}
	return m.db.Put(aliasKey(alias), encoded)
}

// AliasOwner resolves an alias to its owning account.
func (m *Manager) AliasOwner(alias string) ([]byte, bool, error) {
	if alias == "" {
		return nil, false, nil
	}
	data, ok, err := m.get(aliasKey(alias))
	if err != nil || !ok {
		return nil, false, err
	}
	var owner []byte
	if err := rlp.DecodeBytes(data, &owner); err != nil {
		return nil, false, err
	}
	return owner, true, nil
}

// DeleteAlias removes an alias mapping. Used when a custom alias is replaced.
func (m *Manager) DeleteAlias(alias string) error {
	if alias == "" {
		return nil
	}
	return m.db.Delete(aliasKey(alias))
}

// --- Custom alias pointer table ---

// SetCustomAlias records the account's current custom alias so a later
// reassignment can locate the stale registry entry.
func (m *Manager) SetCustomAlias(owner []byte, alias string) error {
	if len(owner) != crypto.AddressLength {
		return fmt.Errorf("state: owner must be %d bytes", crypto.AddressLength)
	}
	encoded, err := rlp.EncodeToBytes(alias)
	if err != nil {
		return err
	}
	return m.db.Put(customAliasKey(owner), encoded)
}

// CustomAlias returns the account's current custom alias, if any.
func (m *Manager) CustomAlias(owner []byte) (string, bool, error) {
	data, ok, err := m.get(customAliasKey(owner))
	if err != nil || !ok {
		return "", false, err
	}
	var alias string
	if err := rlp.DecodeBytes(data, &alias); err != nil {
		return "", false, err
	}
	return alias, true, nil
}

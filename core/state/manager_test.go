package state

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"

	"aliaspay/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() {
		db.Close()
	})
	return NewManager(db)
}

func testAddr(last byte) []byte {
	addr := make([]byte, 20)
	addr[19] = last
	return addr
}

func TestConfigRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	if _, ok, err := manager.Config(); err != nil || ok {
		t.Fatalf("expected missing config before initialisation, ok=%v err=%v", ok, err)
	}

	cfg := &Config{
		Admin:       testAddr(1),
		Active:      true,
		FeeRate:     uint256.NewInt(5),
		FeeDecimals: 2,
	}
	if err := manager.SetConfig(cfg); err != nil {
		t.Fatalf("set config: %v", err)
	}
	loaded, ok, err := manager.Config()
	if err != nil || !ok {
		t.Fatalf("load config: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(loaded.Admin, cfg.Admin) {
		t.Fatalf("admin mismatch: got %x want %x", loaded.Admin, cfg.Admin)
	}
	if !loaded.Active {
		t.Fatalf("expected active config")
	}
	if loaded.FeeRate.Uint64() != 5 || loaded.FeeDecimals != 2 {
		t.Fatalf("fee mismatch: rate=%s decimals=%d", loaded.FeeRate, loaded.FeeDecimals)
	}
}

func TestConfigCloneIsolation(t *testing.T) {
	manager := newTestManager(t)
	cfg := &Config{Admin: testAddr(9), Active: true, FeeRate: uint256.NewInt(7)}
	if err := manager.SetConfig(cfg); err != nil {
		t.Fatalf("set config: %v", err)
	}
	cfg.FeeRate.SetUint64(99)
	loaded, _, err := manager.Config()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.FeeRate.Uint64() != 7 {
		t.Fatalf("persisted config mutated through caller pointer: %s", loaded.FeeRate)
	}
}

func TestSeedRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	if err := manager.SetSeed(make([]byte, 16)); err == nil {
		t.Fatalf("expected short seed to be rejected")
	}

	seed := make([]byte, SeedLength)
	for i := range seed {
		seed[i] = byte(i)
	}
	if err := manager.SetSeed(seed); err != nil {
		t.Fatalf("set seed: %v", err)
	}
	loaded, ok, err := manager.Seed()
	if err != nil || !ok {
		t.Fatalf("load seed: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(loaded, seed) {
		t.Fatalf("seed mismatch: got %x want %x", loaded, seed)
	}
}

func TestTokenCredentialOverwrite(t *testing.T) {
	manager := newTestManager(t)
	token := testAddr(2)

	if _, ok, err := manager.TokenCredential(token); err != nil || ok {
		t.Fatalf("expected unregistered token, ok=%v err=%v", ok, err)
	}
	if err := manager.SetTokenCredential(token, "hash-one"); err != nil {
		t.Fatalf("register token: %v", err)
	}
	if err := manager.SetTokenCredential(token, "hash-two"); err != nil {
		t.Fatalf("re-register token: %v", err)
	}
	credential, ok, err := manager.TokenCredential(token)
	if err != nil || !ok {
		t.Fatalf("load credential: ok=%v err=%v", ok, err)
	}
	if credential != "hash-two" {
		t.Fatalf("expected re-registration to overwrite, got %q", credential)
	}
}

func TestAliasOwnerLifecycle(t *testing.T) {
	manager := newTestManager(t)
	owner := testAddr(3)

	if err := manager.SetAliasOwner("alice", owner); err != nil {
		t.Fatalf("set alias owner: %v", err)
	}
	resolved, ok, err := manager.AliasOwner("alice")
	if err != nil || !ok {
		t.Fatalf("resolve alias: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(resolved, owner) {
		t.Fatalf("owner mismatch: got %x want %x", resolved, owner)
	}
	if err := manager.DeleteAlias("alice"); err != nil {
		t.Fatalf("delete alias: %v", err)
	}
	if _, ok, err := manager.AliasOwner("alice"); err != nil || ok {
		t.Fatalf("expected alias to be gone, ok=%v err=%v", ok, err)
	}
}

func TestCustomAliasPointer(t *testing.T) {
	manager := newTestManager(t)
	owner := testAddr(4)

	if _, ok, err := manager.CustomAlias(owner); err != nil || ok {
		t.Fatalf("expected no pointer yet, ok=%v err=%v", ok, err)
	}
	if err := manager.SetCustomAlias(owner, "first"); err != nil {
		t.Fatalf("set pointer: %v", err)
	}
	if err := manager.SetCustomAlias(owner, "second"); err != nil {
		t.Fatalf("overwrite pointer: %v", err)
	}
	alias, ok, err := manager.CustomAlias(owner)
	if err != nil || !ok {
		t.Fatalf("load pointer: ok=%v err=%v", ok, err)
	}
	if alias != "second" {
		t.Fatalf("expected pointer to track the latest alias, got %q", alias)
	}
}

package state

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Logical key layout. Keys are assembled from these prefixes and hashed with
// keccak256 before hitting the database, so region ownership is enforced by
// construction: no other component can collide with a router key.
var (
	configKey   = ethcrypto.Keccak256([]byte("config"))
	prngSeedKey = ethcrypto.Keccak256([]byte("prng"))

	tokenInfoPrefix   = []byte("tokeninfo/")
	aliasToAddrPrefix = []byte("aliasaddr/")
	customAliasPrefix = []byte("custom/")
)

func tokenInfoKey(addr []byte) []byte {
	buf := make([]byte, len(tokenInfoPrefix)+len(addr))
	copy(buf, tokenInfoPrefix)
	copy(buf[len(tokenInfoPrefix):], addr)
	return ethcrypto.Keccak256(buf)
}

func aliasKey(alias string) []byte {
	buf := make([]byte, len(aliasToAddrPrefix)+len(alias))
	copy(buf, aliasToAddrPrefix)
	copy(buf[len(aliasToAddrPrefix):], alias)
	return ethcrypto.Keccak256(buf)
}

func customAliasKey(addr []byte) []byte {
	buf := make([]byte, len(customAliasPrefix)+len(addr))
	copy(buf, customAliasPrefix)
	copy(buf[len(customAliasPrefix):], addr)
	return ethcrypto.Keccak256(buf)
}

package router

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// randomAliasLength is the number of random bytes backing a derived alias.
const randomAliasLength = 32

// deriveSeed turns caller-supplied entropy into the persisted PRNG seed:
// SHA-256 over the base64 encoding of the entropy string.
func deriveSeed(entropy string) []byte {
	sum := sha256.Sum256([]byte(base64.StdEncoding.EncodeToString([]byte(entropy))))
	return sum[:]
}

// randomBytes produces 32 bytes from a deterministic stream keyed by the
// persisted seed and per-call freshness. The entropy composition is
//
//	height.be8 ‖ time.be8 ‖ caller ‖ extra
//
// with the seed itself passed as extra, so the stream key only repeats when
// height, time and caller all repeat. The stream is a ChaCha20 keystream:
// indistinguishable from random without the seed, which is never exposed.
func randomBytes(seed []byte, height, blockTime uint64, caller []byte) []byte {
	entropy := make([]byte, 0, 16+len(caller)+len(seed))
	entropy = binary.BigEndian.AppendUint64(entropy, height)
	entropy = binary.BigEndian.AppendUint64(entropy, blockTime)
	entropy = append(entropy, caller...)
	entropy = append(entropy, seed...)

	hasher := sha256.New()
	hasher.Write(seed)
	hasher.Write(entropy)
	key := hasher.Sum(nil)

	nonce := make([]byte, chacha20.NonceSize)
	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// Key and nonce sizes are fixed above; failure is a programming error.
		panic(err)
	}
	out := make([]byte, randomAliasLength)
	stream.XORKeyStream(out, out)
	return out
}

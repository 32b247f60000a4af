package wallet

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// FingerprintSize is the number of hash bytes kept in a fingerprint.
const FingerprintSize = 8

// Fingerprint identifies a public key without revealing it:
// hex(BLAKE3(pubkey)[:8]).
func Fingerprint(pub []byte) string {
	h := blake3.Sum256(pub)
	return hex.EncodeToString(h[:FingerprintSize])
}

package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// Derivation path constants.
// Full path: m/44'/CoinType'/account'
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeTON is the SLIP-0044 coin type registered for TON (hardened).
	CoinTypeTON = bip32.FirstHardenedChild + 607

	// AccountDefault is the first account (hardened).
	AccountDefault = bip32.FirstHardenedChild + 0
)

// DerivationPath is a sequence of child indices below the master key.
// Ed25519 only supports hardened children, so every component must be
// at or above bip32.FirstHardenedChild.
type DerivationPath []uint32

// DefaultPath is m/44'/607'/0', the only path keys are derived on.
var DefaultPath = DerivationPath{PurposeBIP44, CoinTypeTON, AccountDefault}

// Hardened returns i as a hardened index.
func Hardened(i uint32) uint32 {
	return i | bip32.FirstHardenedChild
}

// IsHardened reports whether i is a hardened index.
func IsHardened(i uint32) bool {
	return i >= bip32.FirstHardenedChild
}

// ParsePath parses a path such as m/44'/607'/0'. Hardened components are
// marked with ' or h. The result is not required to be all-hardened; call
// Validate for that.
func ParsePath(s string) (DerivationPath, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if parts[0] != "m" {
		return nil, fmt.Errorf("derivation path %q must start with m", s)
	}

	path := make(DerivationPath, 0, len(parts)-1)
	for _, part := range parts[1:] {
		num, hardened := strings.CutSuffix(part, "'")
		if !hardened {
			num, hardened = strings.CutSuffix(part, "h")
		}
		n, err := strconv.ParseUint(num, 10, 32)
		if err != nil || uint32(n) >= bip32.FirstHardenedChild {
			return nil, fmt.Errorf("derivation path %q: bad component %q", s, part)
		}
		if hardened {
			path = append(path, Hardened(uint32(n)))
		} else {
			path = append(path, uint32(n))
		}
	}
	return path, nil
}

// Numbers returns the path components with the hardened bit cleared,
// e.g. [44 607 0] for DefaultPath.
func (p DerivationPath) Numbers() []uint32 {
	out := make([]uint32, len(p))
	for i, c := range p {
		out[i] = c &^ bip32.FirstHardenedChild
	}
	return out
}

// String formats the path as m/44'/607'/0'.
func (p DerivationPath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, c := range p {
		b.WriteString("/")
		b.WriteString(strconv.FormatUint(uint64(c&^bip32.FirstHardenedChild), 10))
		if IsHardened(c) {
			b.WriteString("'")
		}
	}
	return b.String()
}

// Validate checks that every component is hardened.
func (p DerivationPath) Validate() error {
	for i, c := range p {
		if !IsHardened(c) {
			return fmt.Errorf("path component %d (%d) is not hardened", i, c)
		}
	}
	return nil
}

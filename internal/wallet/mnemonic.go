// Package wallet implements the TON HD wallet primitives: BIP-39
// mnemonics, SLIP-0010 Ed25519 key derivation and wallet contract
// addresses.
package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// MnemonicWords is the number of words in a generated mnemonic.
const MnemonicWords = 24

// ErrInvalidMnemonic is returned when a mnemonic fails the BIP-39
// word list or checksum check.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// Mnemonic is an ordered list of mnemonic words.
type Mnemonic []string

// String joins the words with single spaces.
func (m Mnemonic) String() string {
	return strings.Join(m, " ")
}

// Valid reports whether the mnemonic passes BIP-39 validation.
func (m Mnemonic) Valid() bool {
	return ValidateMnemonic(m)
}

// ParseMnemonic splits a phrase into words, ignoring extra whitespace.
// It does not validate the result.
func ParseMnemonic(phrase string) Mnemonic {
	return Mnemonic(strings.Fields(phrase))
}

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (Mnemonic, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return nil, fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}
	return ParseMnemonic(mnemonic), nil
}

// ValidateMnemonic checks if a word list is a valid BIP-39 mnemonic
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(words []string) bool {
	if len(words) == 0 {
		return false
	}
	return bip39.IsMnemonicValid(strings.Join(words, " "))
}

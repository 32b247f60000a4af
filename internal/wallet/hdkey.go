package wallet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/anyproto/go-slip10"
)

// MinSeedSize is the shortest seed accepted for master key generation.
const MinSeedSize = 16

// HDKey is a SLIP-0010 Ed25519 extended private key.
type HDKey struct {
	node  slip10.Node
	depth uint8
}

// NewMasterKey creates a master HD key from a seed (16 to 64 bytes).
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) < MinSeedSize || len(seed) > SeedSize {
		return nil, fmt.Errorf("seed must be %d-%d bytes, got %d", MinSeedSize, SeedSize, len(seed))
	}
	master, err := slip10.NewMasterNode(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{node: master}, nil
}

// DeriveChild derives the hardened child at index.
// Use Hardened(n) to build the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	if !IsHardened(index) {
		return nil, fmt.Errorf("derive child %d: ed25519 supports hardened derivation only", index)
	}
	child, err := k.node.Derive(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{node: child, depth: k.depth + 1}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(path DerivationPath) (*HDKey, error) {
	current := k
	for _, idx := range path {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// KeyPair returns the Ed25519 key pair for this node.
func (k *HDKey) KeyPair() *KeyPair {
	pub, priv := k.node.Keypair()
	return &KeyPair{PublicKey: pub, PrivateKey: priv}
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.depth
}

// KeyPair is an Ed25519 key pair derived from an HD seed.
type KeyPair struct {
	Path       DerivationPath
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// DeriveKeyPair derives the key pair at path from an HD seed.
func DeriveKeyPair(seed []byte, path DerivationPath) (*KeyPair, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	key, err := master.DerivePath(path)
	if err != nil {
		return nil, err
	}
	kp := key.KeyPair()
	kp.Path = append(DerivationPath(nil), path...)
	return kp, nil
}

// Seed returns the 32-byte derived seed the private key expands from.
func (kp *KeyPair) Seed() []byte {
	return kp.PrivateKey.Seed()
}

// Fingerprint returns the short public key fingerprint.
func (kp *KeyPair) Fingerprint() string {
	return Fingerprint(kp.PublicKey)
}

// Zero overwrites the private key in memory.
func (kp *KeyPair) Zero() {
	for i := range kp.PrivateKey {
		kp.PrivateKey[i] = 0
	}
}

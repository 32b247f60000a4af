package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	tonwallet "github.com/xssnick/tonutils-go/ton/wallet"
)

// DefaultSubwallet is the subwallet id used by standard v3/v4 wallets
// on workchain 0.
const DefaultSubwallet uint32 = 698983191

// ContractVersion names a TON wallet contract revision.
type ContractVersion string

// Supported wallet contract versions.
const (
	V3R2 ContractVersion = "v3r2"
	V4R2 ContractVersion = "v4r2"
)

// ContractVersions lists every supported version in display order.
var ContractVersions = []ContractVersion{V3R2, V4R2}

// ParseContractVersion accepts "v3r2"/"v3" and "v4r2"/"v4", case-insensitively.
func ParseContractVersion(s string) (ContractVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v3r2", "v3":
		return V3R2, nil
	case "v4r2", "v4":
		return V4R2, nil
	default:
		return "", fmt.Errorf("unknown wallet version %q", s)
	}
}

func (v ContractVersion) address(pub ed25519.PublicKey, subwallet uint32) (*address.Address, error) {
	switch v {
	case V3R2:
		return tonwallet.AddressFromPubKey(pub, tonwallet.V3R2, subwallet)
	case V4R2:
		return tonwallet.AddressFromPubKey(pub, tonwallet.V4R2, subwallet)
	default:
		return nil, fmt.Errorf("unknown wallet version %q", string(v))
	}
}

// ContractAddress is a wallet contract address in its common encodings.
type ContractAddress struct {
	Version       ContractVersion
	Workchain     int32
	Bounceable    string
	NonBounceable string
	Raw           string
	Testnet       bool
}

// ContractAddressFor computes the address of the given wallet contract
// version deployed with pub as its owner key.
func ContractAddressFor(pub ed25519.PublicKey, version ContractVersion, subwallet uint32, testnet bool) (*ContractAddress, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	addr, err := version.address(pub, subwallet)
	if err != nil {
		return nil, fmt.Errorf("%s address: %w", version, err)
	}

	bounce, err := encodeAddress(addr, true, testnet)
	if err != nil {
		return nil, err
	}
	nonBounce, err := encodeAddress(addr, false, testnet)
	if err != nil {
		return nil, err
	}

	return &ContractAddress{
		Version:       version,
		Workchain:     addr.Workchain(),
		Bounceable:    bounce,
		NonBounceable: nonBounce,
		Raw:           rawAddress(addr),
		Testnet:       testnet,
	}, nil
}

// ContractAddresses computes the address of every requested version.
func ContractAddresses(pub ed25519.PublicKey, versions []ContractVersion, subwallet uint32, testnet bool) ([]ContractAddress, error) {
	out := make([]ContractAddress, 0, len(versions))
	for _, v := range versions {
		ca, err := ContractAddressFor(pub, v, subwallet, testnet)
		if err != nil {
			return nil, err
		}
		out = append(out, *ca)
	}
	return out, nil
}

// AddressInfo describes a parsed address.
type AddressInfo struct {
	Input       string
	Workchain   int32
	Bounceable  bool
	TestnetOnly bool
	Raw         string
	// Encodings of the same account: bounceable / non-bounceable,
	// mainnet / testnet.
	MainnetBounceable    string
	MainnetNonBounceable string
	TestnetBounceable    string
	TestnetNonBounceable string
}

// InspectAddress parses a user-friendly (base64) or raw ("wc:hex") address.
func InspectAddress(s string) (*AddressInfo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty address")
	}

	var (
		addr *address.Address
		err  error
	)
	raw := strings.Contains(s, ":")
	if raw {
		addr, err = address.ParseRawAddr(s)
	} else {
		addr, err = address.ParseAddr(s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse address: %w", err)
	}

	info := &AddressInfo{
		Input:     s,
		Workchain: addr.Workchain(),
		Raw:       rawAddress(addr),
	}
	if !raw {
		info.Bounceable = addr.IsBounceable()
		info.TestnetOnly = addr.IsTestnetOnly()
	}

	forms := []struct {
		dst             *string
		bounce, testnet bool
	}{
		{&info.MainnetBounceable, true, false},
		{&info.MainnetNonBounceable, false, false},
		{&info.TestnetBounceable, true, true},
		{&info.TestnetNonBounceable, false, true},
	}
	for _, f := range forms {
		enc, err := encodeAddress(addr, f.bounce, f.testnet)
		if err != nil {
			return nil, err
		}
		*f.dst = enc
	}
	return info, nil
}

// encodeAddress renders addr with the given flags without touching addr.
func encodeAddress(addr *address.Address, bounce, testnet bool) (string, error) {
	c, err := address.ParseRawAddr(rawAddress(addr))
	if err != nil {
		return "", fmt.Errorf("copy address: %w", err)
	}
	c.SetBounce(bounce)
	c.SetTestnetOnly(testnet)
	return c.String(), nil
}

func rawAddress(addr *address.Address) string {
	return fmt.Sprintf("%d:%s", addr.Workchain(), hex.EncodeToString(addr.Data()))
}

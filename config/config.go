// Package config handles tonkeys configuration.
//
// Settings are layered: built-in defaults, then the .conf file, then
// environment variables, then command-line flags.
package config

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/Klingon-tech/tonkeys/internal/verify"
	"github.com/Klingon-tech/tonkeys/internal/wallet"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// ConfigFileName is the config file looked up inside the data directory.
const ConfigFileName = "tonkeys.conf"

// Config holds runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// BIP-39 passphrase mixed into the seed. Empty means none.
	Password string `conf:"password"`
	// Fallback mnemonic used by recovery runs.
	Mnemonic string `conf:"mnemonic"`

	Verify   VerifyConfig
	Wallet   WalletConfig
	Keystore KeystoreConfig
	Log      LogConfig
}

// VerifyConfig controls the mnemonic challenge.
type VerifyConfig struct {
	Mode   verify.Mode `conf:"verify.mode"`
	Random bool        `conf:"verify.random"` // challenge random positions instead of 1..8
}

// WalletConfig selects which wallet contracts get addresses.
type WalletConfig struct {
	Versions  []string `conf:"wallet.versions"`
	Subwallet uint32   `conf:"wallet.subwallet"`
}

// KeystoreConfig holds encrypted keystore settings.
type KeystoreConfig struct {
	Dir string `conf:"keystore.dir"`
	// Encryption password. Only read from the environment, never from
	// the config file.
	Password string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns ~/.tonkeys, or .tonkeys when the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".tonkeys"
	}
	return filepath.Join(home, ".tonkeys")
}

// NetworkDir returns the network-specific data directory.
func (c *Config) NetworkDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystoreDir returns the keystore directory, honoring keystore.dir.
func (c *Config) KeystoreDir() string {
	if c.Keystore.Dir != "" {
		return c.Keystore.Dir
	}
	return filepath.Join(c.NetworkDir(), "keystore")
}

// ConfigFile returns the default config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, ConfigFileName)
}

// Testnet reports whether addresses should carry the testnet flag.
func (c *Config) Testnet() bool {
	return c.Network == Testnet
}

// ContractVersions parses Wallet.Versions.
func (c *Config) ContractVersions() ([]wallet.ContractVersion, error) {
	out := make([]wallet.ContractVersion, 0, len(c.Wallet.Versions))
	for _, s := range c.Wallet.Versions {
		v, err := wallet.ParseContractVersion(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MnemonicWords splits the fallback mnemonic into words.
func (c *Config) MnemonicWords() []string {
	return wallet.ParseMnemonic(c.Mnemonic)
}

// expandPaths resolves a leading ~ in every path setting.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.DataDir, &c.Keystore.Dir, &c.Log.File} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

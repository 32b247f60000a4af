package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/tonkeys/internal/verify"
)

// Environment variables read by Load.
const (
	EnvPassword         = "TONKEYS_PASSWORD"
	EnvMnemonic         = "TONKEYS_MNEMONIC"
	EnvKeystorePassword = "TONKEYS_KEYSTORE_PASSWORD"
)

// Flags holds command-line overrides. Empty strings and nil pointers mean
// "not set on the command line".
type Flags struct {
	// Core
	Network string
	DataDir string
	Config  string

	Mnemonic string

	// Verification
	VerifyMode string
	Random     *bool

	// Wallet
	Versions string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  *bool
}

// ApplyEnv applies environment overrides. lookup is os.LookupEnv outside
// of tests.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPassword); ok {
		cfg.Password = v
	}
	if v, ok := lookup(EnvMnemonic); ok && strings.TrimSpace(v) != "" {
		cfg.Mnemonic = v
	}
	if v, ok := lookup(EnvKeystorePassword); ok {
		cfg.Keystore.Password = v
	}
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}

	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(strings.ToLower(f.Network))
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.Mnemonic != "" {
		cfg.Mnemonic = f.Mnemonic
	}

	// Verification
	if f.VerifyMode != "" {
		cfg.Verify.Mode = verify.Mode(strings.ToLower(f.VerifyMode))
	}
	if f.Random != nil {
		cfg.Verify.Random = *f.Random
	}

	// Wallet
	if f.Versions != "" {
		cfg.Wallet.Versions = parseStringList(f.Versions)
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.LogJSON != nil {
		cfg.Log.JSON = *f.LogJSON
	}
}

// Load builds the configuration with the following precedence:
// 1. Default values
// 2. Config file (--config, or <datadir>/tonkeys.conf if present)
// 3. Environment
// 4. Command-line flags
func Load(f *Flags) (*Config, error) {
	if f == nil {
		f = &Flags{}
	}

	// Network and datadir first, they locate the config file.
	network := Mainnet
	if strings.EqualFold(f.Network, string(Testnet)) {
		network = Testnet
	}
	cfg := Default(network)
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("expanding paths: %w", err)
	}

	configPath := f.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	ApplyEnv(cfg, os.LookupEnv)
	ApplyFlags(cfg, f)

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("expanding paths: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnsureDataDirs creates the data directory and a default config file if
// they don't already exist. Safe to call repeatedly.
func EnsureDataDirs(cfg *Config) error {
	for _, dir := range []string{cfg.DataDir, cfg.NetworkDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}

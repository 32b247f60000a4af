package config

import (
	"github.com/Klingon-tech/tonkeys/internal/verify"
	"github.com/Klingon-tech/tonkeys/internal/wallet"
)

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Verify: VerifyConfig{
			Mode:   verify.ModeSkip,
			Random: false,
		},
		Wallet: WalletConfig{
			Versions:  []string{string(wallet.V3R2), string(wallet.V4R2)},
			Subwallet: wallet.DefaultSubwallet,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}

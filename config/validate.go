package config

import (
	"fmt"

	klog "github.com/Klingon-tech/tonkeys/internal/log"
	"github.com/Klingon-tech/tonkeys/internal/verify"
)

// Validate checks config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}

	switch cfg.Verify.Mode {
	case verify.ModeSkip, verify.ModeInteractive:
	default:
		return fmt.Errorf("verify.mode must be %q or %q", verify.ModeSkip, verify.ModeInteractive)
	}

	if len(cfg.Wallet.Versions) == 0 {
		return fmt.Errorf("wallet.versions must list at least one version")
	}
	versions, err := cfg.ContractVersions()
	if err != nil {
		return fmt.Errorf("wallet.versions: %w", err)
	}
	seen := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		if _, dup := seen[string(v)]; dup {
			return fmt.Errorf("wallet.versions lists %s twice", v)
		}
		seen[string(v)] = struct{}{}
	}

	if !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error, disabled", cfg.Log.Level)
	}
	return nil
}

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/tonkeys/internal/verify"
)

// LoadFile loads configuration values from a .conf file.
// Format: key = value (one per line, # for comments). A missing file
// yields no values.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		values[key] = value
	}

	return values, scanner.Err()
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Unknown keys are ignored.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(strings.ToLower(value))
	case "datadir":
		cfg.DataDir = value
	case "password":
		cfg.Password = value
	case "mnemonic":
		cfg.Mnemonic = value

	// Verification
	case "verify.mode", "verify":
		cfg.Verify.Mode = verify.Mode(strings.ToLower(value))
	case "verify.random":
		cfg.Verify.Random = parseBool(value)

	// Wallet contracts
	case "wallet.versions":
		cfg.Wallet.Versions = parseStringList(value)
	case "wallet.subwallet":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.Subwallet = uint32(n)

	// Keystore
	case "keystore.dir":
		cfg.Keystore.Dir = value

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseStringList parses a comma-separated list.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// WriteDefaultConfig writes a commented default configuration file.
// The file may end up holding a passphrase, so it is created 0600.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# tonkeys configuration

# Network: mainnet or testnet. Testnet addresses carry the testnet flag.
network = ` + string(network) + `

# Data directory (default: ~/.tonkeys)
# datadir = ~/.tonkeys

# ============================================================================
# Mnemonic
# ============================================================================

# Optional BIP-39 passphrase. Prefer TONKEYS_PASSWORD or --password-prompt.
# password =

# Fallback mnemonic for "tonkeys recover". Prefer TONKEYS_MNEMONIC.
# mnemonic =

# ============================================================================
# Verification
# ============================================================================

# skip: only check the checksum. interactive: retype 8 words.
verify.mode = skip

# Ask for random word positions instead of the first eight.
verify.random = false

# ============================================================================
# Wallet contracts
# ============================================================================

wallet.versions = v3r2,v4r2
wallet.subwallet = 698983191

# ============================================================================
# Keystore
# ============================================================================

# keystore.dir = ~/.tonkeys/` + string(network) + `/keystore

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}

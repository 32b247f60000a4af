package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Klingon-tech/tonkeys/internal/verify"
	"github.com/Klingon-tech/tonkeys/internal/wallet"
)

func writeConf(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestDefaults(t *testing.T) {
	cfg := Default(Mainnet)
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Verify.Mode != verify.ModeSkip {
		t.Errorf("verify mode = %q, want skip", cfg.Verify.Mode)
	}
	if cfg.Wallet.Subwallet != wallet.DefaultSubwallet {
		t.Errorf("subwallet = %d", cfg.Wallet.Subwallet)
	}
	versions, err := cfg.ContractVersions()
	if err != nil {
		t.Fatalf("ContractVersions() error: %v", err)
	}
	if len(versions) != 2 || versions[0] != wallet.V3R2 || versions[1] != wallet.V4R2 {
		t.Errorf("versions = %v", versions)
	}
	if cfg.Testnet() {
		t.Error("mainnet config reports testnet")
	}
	if !Default(Testnet).Testnet() {
		t.Error("testnet config does not report testnet")
	}
}

func TestKeystoreDir(t *testing.T) {
	cfg := Default(Testnet)
	cfg.DataDir = "/data"
	if got := cfg.KeystoreDir(); got != filepath.Join("/data", "testnet", "keystore") {
		t.Errorf("KeystoreDir() = %s", got)
	}
	cfg.Keystore.Dir = "/elsewhere"
	if got := cfg.KeystoreDir(); got != "/elsewhere" {
		t.Errorf("KeystoreDir() override = %s", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConf(t, dir, `
# comment
network = testnet
password = "pass phrase"
verify.mode = interactive
wallet.versions = v4r2
unknown.key = ignored
`)

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if values["password"] != "pass phrase" {
		t.Errorf("password = %q, quotes should be stripped", values["password"])
	}
	if len(values) != 5 {
		t.Errorf("got %d values, want 5", len(values))
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("got %d values from missing file", len(values))
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := writeConf(t, t.TempDir(), "network testnet\n")
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected line error, got %v", err)
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := Default(Mainnet)
	err := ApplyFileConfig(cfg, map[string]string{
		"network":          "TESTNET",
		"verify.mode":      "interactive",
		"verify.random":    "yes",
		"wallet.versions":  "v4r2, v3r2",
		"wallet.subwallet": "42",
		"log.json":         "on",
	})
	if err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("network = %s", cfg.Network)
	}
	if cfg.Verify.Mode != verify.ModeInteractive || !cfg.Verify.Random {
		t.Errorf("verify = %+v", cfg.Verify)
	}
	if strings.Join(cfg.Wallet.Versions, ",") != "v4r2,v3r2" {
		t.Errorf("versions = %v", cfg.Wallet.Versions)
	}
	if cfg.Wallet.Subwallet != 42 {
		t.Errorf("subwallet = %d", cfg.Wallet.Subwallet)
	}
	if !cfg.Log.JSON {
		t.Error("log.json not applied")
	}

	if err := ApplyFileConfig(cfg, map[string]string{"wallet.subwallet": "-1"}); err == nil {
		t.Error("expected error for negative subwallet")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvPassword:         "secret",
		EnvMnemonic:         "abandon art",
		EnvKeystorePassword: "ks",
	}
	cfg := Default(Mainnet)
	ApplyEnv(cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Password != "secret" || cfg.Mnemonic != "abandon art" || cfg.Keystore.Password != "ks" {
		t.Errorf("env not applied: %+v", cfg)
	}

	cfg = Default(Mainnet)
	cfg.Mnemonic = "from file"
	ApplyEnv(cfg, noEnv)
	if cfg.Mnemonic != "from file" {
		t.Errorf("mnemonic = %q, absent env must not override", cfg.Mnemonic)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConf(t, dir, `
password = from-file
mnemonic = file words
verify.mode = interactive
log.level = warn
`)
	t.Setenv(EnvPassword, "from-env")

	random := true
	cfg, err := Load(&Flags{
		DataDir:  dir,
		Mnemonic: "flag words",
		Random:   &random,
		LogLevel: "debug",
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Password != "from-env" {
		t.Errorf("password = %q, env should beat file", cfg.Password)
	}
	if cfg.Mnemonic != "flag words" {
		t.Errorf("mnemonic = %q, flag should beat file", cfg.Mnemonic)
	}
	if cfg.Verify.Mode != verify.ModeInteractive {
		t.Errorf("verify mode = %q, file value lost", cfg.Verify.Mode)
	}
	if !cfg.Verify.Random {
		t.Error("random flag not applied")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	confDir := t.TempDir()
	path := writeConf(t, confDir, "network = testnet\n")

	cfg, err := Load(&Flags{DataDir: t.TempDir(), Config: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Network != Testnet {
		t.Errorf("network = %s", cfg.Network)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	cfg, err := Load(&Flags{DataDir: "~/tonkeys-test-nonexistent"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if strings.HasPrefix(cfg.DataDir, "~") {
		t.Errorf("datadir not expanded: %s", cfg.DataDir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(&Flags{DataDir: dir, Network: "devnet"}); err == nil {
		t.Error("expected error for unknown network")
	}
	if _, err := Load(&Flags{DataDir: dir, VerifyMode: "maybe"}); err == nil {
		t.Error("expected error for unknown verify mode")
	}
	if _, err := Load(&Flags{DataDir: dir, Versions: "v5r1"}); err == nil {
		t.Error("expected error for unknown wallet version")
	}
	if _, err := Load(&Flags{DataDir: dir, LogLevel: "loud"}); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"nil versions", func(c *Config) { c.Wallet.Versions = nil }, true},
		{"duplicate version", func(c *Config) { c.Wallet.Versions = []string{"v4r2", "v4"} }, true},
		{"empty datadir", func(c *Config) { c.DataDir = "" }, true},
		{"interactive", func(c *Config) { c.Verify.Mode = verify.ModeInteractive }, false},
		{"disabled logs", func(c *Config) { c.Log.Level = "disabled" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(Mainnet)
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestEnsureDataDirs(t *testing.T) {
	cfg := Default(Testnet)
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	for range 2 {
		if err := EnsureDataDirs(cfg); err != nil {
			t.Fatalf("EnsureDataDirs() error: %v", err)
		}
	}
	if _, err := os.Stat(cfg.NetworkDir()); err != nil {
		t.Errorf("network dir missing: %v", err)
	}

	values, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	loaded := Default(Mainnet)
	if err := ApplyFileConfig(loaded, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if loaded.Network != Testnet {
		t.Errorf("written network = %s", loaded.Network)
	}
	if err := Validate(loaded); err != nil {
		t.Errorf("written default config invalid: %v", err)
	}
}

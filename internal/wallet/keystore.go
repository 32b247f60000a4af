package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	keystoreVersion = 1
	keystoreExt     = ".tonkey"
)

var (
	// ErrKeystoreNotFound is returned when a named entry does not exist.
	ErrKeystoreNotFound = errors.New("keystore entry not found")
	// ErrKeystoreExists is returned by Create when the name is taken.
	ErrKeystoreExists = errors.New("keystore entry already exists")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// keystoreFile is the on-disk JSON format for an encrypted mnemonic.
type keystoreFile struct {
	Version           int               `json:"version"`
	CreatedAt         time.Time         `json:"created_at"`
	Path              string            `json:"path"`
	Fingerprint       string            `json:"fingerprint"`
	Addresses         map[string]string `json:"addresses,omitempty"`
	EncryptedMnemonic []byte            `json:"encrypted_mnemonic"`
}

// KeystoreEntry is the public metadata of a stored mnemonic. Nothing in it
// needs the password to read.
type KeystoreEntry struct {
	Name        string
	CreatedAt   time.Time
	Path        string
	Fingerprint string
	// Addresses maps contract version to its bounceable address.
	Addresses map[string]string
}

// Keystore keeps password-encrypted mnemonics on disk, one file per name.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Dir returns the keystore directory.
func (ks *Keystore) Dir() string {
	return ks.path
}

func (ks *Keystore) entryPath(name string) (string, error) {
	if !validName.MatchString(name) {
		return "", fmt.Errorf("invalid keystore name %q", name)
	}
	return filepath.Join(ks.path, name+keystoreExt), nil
}

// Create encrypts words under password and writes them as entry meta.Name.
// The fingerprint and addresses in meta are stored in the clear.
func (ks *Keystore) Create(meta KeystoreEntry, words Mnemonic, password []byte, params EncryptionParams) error {
	path, err := ks.entryPath(meta.Name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%q: %w", meta.Name, ErrKeystoreExists)
	}
	if !ValidateMnemonic(words) {
		return ErrInvalidMnemonic
	}
	if err := checkEntryPath(meta.Path); err != nil {
		return err
	}

	plain := []byte(words.String())
	encrypted, err := Encrypt(plain, password, []byte(meta.Name), params)
	zero(plain)
	if err != nil {
		return fmt.Errorf("encrypt mnemonic: %w", err)
	}

	kf := keystoreFile{
		Version:           keystoreVersion,
		CreatedAt:         time.Now().UTC(),
		Path:              meta.Path,
		Fingerprint:       meta.Fingerprint,
		Addresses:         meta.Addresses,
		EncryptedMnemonic: encrypted,
	}
	return writeKeystoreFile(path, &kf)
}

// Load decrypts the named entry and returns its mnemonic.
func (ks *Keystore) Load(name string, password []byte) (Mnemonic, error) {
	path, err := ks.entryPath(name)
	if err != nil {
		return nil, err
	}
	kf, err := readKeystoreFile(path)
	if err != nil {
		return nil, err
	}

	plain, err := Decrypt(kf.EncryptedMnemonic, password, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("decrypt %q: %w", name, err)
	}
	words := ParseMnemonic(string(plain))
	zero(plain)

	if !ValidateMnemonic(words) {
		return nil, fmt.Errorf("keystore entry %q: %w", name, ErrInvalidMnemonic)
	}
	return words, nil
}

// Entry returns the public metadata of the named entry.
func (ks *Keystore) Entry(name string) (*KeystoreEntry, error) {
	path, err := ks.entryPath(name)
	if err != nil {
		return nil, err
	}
	kf, err := readKeystoreFile(path)
	if err != nil {
		return nil, err
	}
	return &KeystoreEntry{
		Name:        name,
		CreatedAt:   kf.CreatedAt,
		Path:        kf.Path,
		Fingerprint: kf.Fingerprint,
		Addresses:   kf.Addresses,
	}, nil
}

// List returns the names of all entries, sorted.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), keystoreExt); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the named entry.
func (ks *Keystore) Delete(name string) error {
	path, err := ks.entryPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", name, ErrKeystoreNotFound)
		}
		return err
	}
	return nil
}

func writeKeystoreFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal keystore entry: %w", err)
	}

	// O_EXCL so a concurrent Create of the same name cannot be overwritten.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", filepath.Base(path), ErrKeystoreExists)
		}
		return fmt.Errorf("create keystore entry: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write keystore entry: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close keystore entry: %w", err)
	}
	return nil
}

func readKeystoreFile(path string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrKeystoreNotFound)
		}
		return nil, fmt.Errorf("read keystore entry: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keystore entry: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version: %d", kf.Version)
	}
	if err := checkEntryPath(kf.Path); err != nil {
		return nil, fmt.Errorf("keystore entry %s: %w", filepath.Base(path), err)
	}
	return &kf, nil
}

// checkEntryPath accepts an empty path or a fully hardened one.
func checkEntryPath(s string) error {
	if s == "" {
		return nil
	}
	p, err := ParsePath(s)
	if err != nil {
		return err
	}
	return p.Validate()
}

// Package pipeline sequences mnemonic generation, verification, key
// derivation and address construction for one run.
package pipeline

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/tonkeys/config"
	klog "github.com/Klingon-tech/tonkeys/internal/log"
	"github.com/Klingon-tech/tonkeys/internal/store"
	"github.com/Klingon-tech/tonkeys/internal/verify"
	"github.com/Klingon-tech/tonkeys/internal/wallet"
)

// ErrNoMnemonic is returned by Derive when the store holds no mnemonic.
var ErrNoMnemonic = errors.New("no mnemonic stored")

// Verifier checks the mnemonic held in the pipeline's store.
type Verifier interface {
	Verify(mode verify.Mode) (verify.Result, error)
}

// Pipeline runs the key derivation steps against a single store.
type Pipeline struct {
	cfg      *config.Config
	store    *store.Store
	verifier Verifier
	out      io.Writer
	log      zerolog.Logger

	generate    func() (wallet.Mnemonic, error)
	showSecrets bool
	encParams   wallet.EncryptionParams
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSecrets makes Derive print the HD seed, derived seed and private key.
func WithSecrets(show bool) Option {
	return func(p *Pipeline) { p.showSecrets = show }
}

// WithGenerator replaces mnemonic generation.
func WithGenerator(f func() (wallet.Mnemonic, error)) Option {
	return func(p *Pipeline) { p.generate = f }
}

// WithEncryptionParams sets the Argon2 parameters used by Save.
func WithEncryptionParams(params wallet.EncryptionParams) Option {
	return func(p *Pipeline) { p.encParams = params }
}

// New creates a pipeline. Operator-facing text (the mnemonic, verdicts,
// secrets) is written to out.
func New(cfg *config.Config, st *store.Store, v Verifier, out io.Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		store:     st,
		verifier:  v,
		out:       out,
		log:       klog.Pipeline,
		generate:  wallet.GenerateMnemonic,
		encParams: wallet.DefaultParams(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate creates a new 24-word mnemonic, validates it and stores it as
// the active mnemonic.
func (p *Pipeline) Generate() error {
	words, err := p.generate()
	if err != nil {
		return fmt.Errorf("generate mnemonic: %w", err)
	}
	if !wallet.ValidateMnemonic(words) {
		return fmt.Errorf("generated mnemonic: %w", wallet.ErrInvalidMnemonic)
	}

	p.store.Set(store.Entry{Key: store.KeyMnemonic, Value: store.Words(words)})
	p.log.Info().Int("words", len(words)).Msg("Generated mnemonic")

	fmt.Fprintln(p.out, "Mnemonic (write this down!):")
	fmt.Fprintf(p.out, "  %s\n\n", words.String())
	return nil
}

// Use validates words and stores them as the active mnemonic. The store
// keeps whatever was active before if validation fails.
func (p *Pipeline) Use(words []string) error {
	if len(words) == 0 {
		return fmt.Errorf("recovery mnemonic: %w", ErrNoMnemonic)
	}
	if !wallet.ValidateMnemonic(words) {
		return fmt.Errorf("recovery mnemonic: %w", wallet.ErrInvalidMnemonic)
	}

	p.store.Set(store.Entry{Key: store.KeyMnemonic, Value: store.Words(words)})
	p.log.Info().Int("words", len(words)).Msg("Using recovery mnemonic")
	return nil
}

// Verify runs the verifier and prints the verdict.
func (p *Pipeline) Verify(mode verify.Mode) (verify.Result, error) {
	if p.verifier == nil {
		return verify.MissingMnemonic, fmt.Errorf("no verifier configured")
	}

	res, err := p.verifier.Verify(mode)
	if res.OK() {
		fmt.Fprintln(p.out, "Mnemonic is valid")
	} else {
		fmt.Fprintf(p.out, "Mnemonic is not valid (%s)\n", res)
	}
	return res, err
}

// Mnemonic returns a copy of the active mnemonic.
func (p *Pipeline) Mnemonic() (wallet.Mnemonic, bool) {
	words, ok := p.store.GetWords(store.KeyMnemonic)
	if !ok || len(words) == 0 {
		return nil, false
	}
	return wallet.Mnemonic(words), true
}

// Derive derives the key pair at the default path from the active
// mnemonic and the configured passphrase.
func (p *Pipeline) Derive() (*wallet.KeyPair, error) {
	words, ok := p.Mnemonic()
	if !ok {
		return nil, ErrNoMnemonic
	}

	defer klog.Benchmark("derive")()

	seed, err := wallet.SeedFromMnemonic(words, p.cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("derive HD seed: %w", err)
	}
	defer clear(seed)

	kp, err := wallet.DeriveKeyPair(seed, wallet.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", wallet.DefaultPath, err)
	}

	p.log.Info().
		Str("path", kp.Path.String()).
		Str("fingerprint", kp.Fingerprint()).
		Msg("Derived key pair")

	if p.showSecrets {
		fmt.Fprintf(p.out, "HD seed:      %s\n", hex.EncodeToString(seed))
		fmt.Fprintf(p.out, "Derived seed: %s\n", hex.EncodeToString(kp.Seed()))
		fmt.Fprintf(p.out, "Public key:   %s\n", hex.EncodeToString(kp.PublicKey))
		fmt.Fprintf(p.out, "Secret key:   %s\n\n", hex.EncodeToString(kp.PrivateKey))
	}
	return kp, nil
}

// Addresses builds the configured wallet contract addresses for kp.
func (p *Pipeline) Addresses(kp *wallet.KeyPair) ([]wallet.ContractAddress, error) {
	if kp == nil {
		return nil, fmt.Errorf("no key pair")
	}
	versions, err := p.cfg.ContractVersions()
	if err != nil {
		return nil, err
	}
	addrs, err := wallet.ContractAddresses(kp.PublicKey, versions, p.cfg.Wallet.Subwallet, p.cfg.Testnet())
	if err != nil {
		return nil, fmt.Errorf("wallet addresses: %w", err)
	}
	for _, a := range addrs {
		p.log.Debug().
			Str("version", string(a.Version)).
			Str("address", a.Bounceable).
			Msg("Wallet address")
	}
	return addrs, nil
}

// Save encrypts the active mnemonic into ks under name. Metadata comes
// from kp and addrs so entries can be listed without the password.
func (p *Pipeline) Save(ks *wallet.Keystore, name string, password []byte, kp *wallet.KeyPair, addrs []wallet.ContractAddress) error {
	words, ok := p.Mnemonic()
	if !ok {
		return ErrNoMnemonic
	}
	meta := wallet.KeystoreEntry{Name: name}
	if kp != nil {
		meta.Path = kp.Path.String()
		meta.Fingerprint = kp.Fingerprint()
	}
	if len(addrs) > 0 {
		meta.Addresses = make(map[string]string, len(addrs))
		for _, a := range addrs {
			meta.Addresses[string(a.Version)] = a.Bounceable
		}
	}

	if err := ks.Create(meta, words, password, p.encParams); err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	klog.Keystore.Info().Str("name", name).Str("fingerprint", meta.Fingerprint).Msg("Saved mnemonic")
	return nil
}

// Run executes the full sequence and records every step. A failing step
// is logged and the run goes on where it can: verification always runs,
// addresses are only built when derivation succeeded.
func (p *Pipeline) Run(src Source, mode verify.Mode) *Report {
	rep := &Report{}

	if src.Recovery() {
		rep.record(p.log, StepRecover, p.Use(src.words))
	} else {
		rep.record(p.log, StepGenerate, p.Generate())
	}

	res, err := p.Verify(mode)
	rep.Verification = res
	rep.record(p.log, StepVerify, verificationError(res, err))

	kp, err := p.Derive()
	rep.record(p.log, StepDerive, err)
	if err == nil {
		rep.KeyPair = kp
		addrs, err := p.Addresses(kp)
		rep.record(p.log, StepAddresses, err)
		rep.Addresses = addrs
	}

	rep.Mnemonic, _ = p.Mnemonic()
	return rep
}

func verificationError(res verify.Result, err error) error {
	if res.OK() {
		return err
	}
	return errors.Join(fmt.Errorf("%w: %s", ErrVerificationFailed, res), err)
}

// Source selects where the active mnemonic of a run comes from.
type Source struct {
	words []string
}

// Fresh generates a new mnemonic.
func Fresh() Source {
	return Source{}
}

// Recover uses the given words. They are validated by the run.
func Recover(words []string) Source {
	if words == nil {
		words = []string{}
	}
	return Source{words: words}
}

// Recovery reports whether the source supplies its own words.
func (s Source) Recovery() bool {
	return s.words != nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	klog "github.com/Klingon-tech/tonkeys/internal/log"
	"github.com/Klingon-tech/tonkeys/internal/pipeline"
	"github.com/Klingon-tech/tonkeys/internal/store"
	"github.com/Klingon-tech/tonkeys/internal/verify"
	"github.com/Klingon-tech/tonkeys/internal/wallet"
)

type runOptions struct {
	showSecrets    bool
	passwordPrompt bool
	save           string
	fromKeystore   string
}

func (a *app) newCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "new",
		Short: "generate a new mnemonic and derive its keys",
		Long: "this command generates a fresh 24-word mnemonic, optionally asks you " +
			"to retype eight of its words, then derives the key pair and wallet addresses",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runPipeline(pipeline.Fresh(), opts)
		},
	}
	cmd.Flags().StringVar(&a.flags.VerifyMode, "verify", "", "verification mode: skip or interactive")
	cmd.Flags().BoolVar(&a.random, "random", false, "challenge random word positions")
	cmd.Flags().StringVar(&opts.save, "save", "", "encrypt the mnemonic into the keystore under this name")
	cmd.Flags().BoolVar(&opts.showSecrets, "show-secrets", false, "print HD seed, derived seed and secret key")
	cmd.Flags().BoolVar(&opts.passwordPrompt, "password-prompt", false, "read the BIP-39 passphrase from the terminal")
	return cmd
}

func (a *app) recoverCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "derive keys from an existing mnemonic",
		Long: "this command derives the key pair and wallet addresses from the mnemonic " +
			"given by --mnemonic, TONKEYS_MNEMONIC, the config file or a keystore entry",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			words, err := a.recoveryWords(opts.fromKeystore)
			if err != nil {
				return err
			}
			return a.runPipeline(pipeline.Recover(words), opts)
		},
	}
	cmd.Flags().StringVar(&a.flags.Mnemonic, "mnemonic", "", "space separated mnemonic words")
	cmd.Flags().StringVar(&opts.fromKeystore, "from-keystore", "", "decrypt the mnemonic from this keystore entry")
	cmd.Flags().BoolVar(&opts.showSecrets, "show-secrets", false, "print HD seed, derived seed and secret key")
	cmd.Flags().BoolVar(&opts.passwordPrompt, "password-prompt", false, "read the BIP-39 passphrase from the terminal")
	return cmd
}

func (a *app) recoveryWords(fromKeystore string) ([]string, error) {
	if fromKeystore != "" {
		ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
		if err != nil {
			return nil, err
		}
		pw, err := a.keystorePassword(false)
		if err != nil {
			return nil, err
		}
		words, err := ks.Load(fromKeystore, pw)
		clear(pw)
		if err != nil {
			return nil, err
		}
		klog.Keystore.Info().Str("name", fromKeystore).Msg("Loaded mnemonic")
		return words, nil
	}

	words := a.cfg.MnemonicWords()
	if len(words) == 0 {
		return nil, errors.New("no recovery mnemonic: use --mnemonic, TONKEYS_MNEMONIC or mnemonic in the config file")
	}
	return words, nil
}

// runPipeline runs one derivation and prints its report.
func (a *app) runPipeline(src pipeline.Source, opts runOptions) error {
	if opts.passwordPrompt {
		pw, err := a.prompt.password("BIP-39 passphrase: ")
		if err != nil {
			return err
		}
		a.cfg.Password = string(pw)
	}

	indices := verify.Sequential
	if a.cfg.Verify.Random {
		indices = verify.Random
	}

	st := store.New()
	v := verify.New(st, a.in, a.out, verify.WithIndices(indices))
	p := pipeline.New(a.cfg, st, v, a.out, pipeline.WithSecrets(opts.showSecrets))

	rep := p.Run(src, a.cfg.Verify.Mode)
	if rep.KeyPair != nil {
		defer rep.KeyPair.Zero()
	}
	renderReport(a.out, rep)
	a.exitCode = rep.ExitCode()

	if opts.save != "" {
		if err := a.save(p, rep, opts.save); err != nil {
			klog.CLI.Error().Err(err).Str("name", opts.save).Msg("Keystore save failed")
			fmt.Fprintf(a.errOut, "Error: %v\n", err)
			a.exitCode = pipeline.ExitFailure
		}
	}

	klog.Info().
		Str("network", string(a.cfg.Network)).
		Int("exit", a.exitCode).
		Msg("Run finished")
	return nil
}

func (a *app) save(p *pipeline.Pipeline, rep *pipeline.Report, name string) error {
	if code := rep.ExitCode(); code != pipeline.ExitOK {
		return fmt.Errorf("not saving %q: run did not succeed", name)
	}
	ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
	if err != nil {
		return err
	}
	pw, err := a.keystorePassword(true)
	if err != nil {
		return err
	}
	defer clear(pw)

	if err := p.Save(ks, name, pw, rep.KeyPair, rep.Addresses); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nSaved to keystore: %s\n", name)
	return nil
}

// keystorePassword uses TONKEYS_KEYSTORE_PASSWORD when set, else prompts.
func (a *app) keystorePassword(confirm bool) ([]byte, error) {
	if a.cfg.Keystore.Password != "" {
		return []byte(a.cfg.Keystore.Password), nil
	}
	if confirm {
		return a.prompt.newPassword("Keystore password: ")
	}
	return a.prompt.password("Keystore password: ")
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <address>",
		Short: "show the flags and encodings of a TON address",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			info, err := wallet.InspectAddress(args[0])
			if err != nil {
				return err
			}
			renderAddressInfo(a.out, info)
			return nil
		},
	}
}

func (a *app) keystoreCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "list keystore entries",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
			if err != nil {
				return err
			}
			names, err := ks.List()
			if err != nil {
				return fmt.Errorf("list keystore: %w", err)
			}
			if len(names) == 0 {
				fmt.Fprintln(a.out, "No keystore entries found.")
				return nil
			}

			entries := make([]*wallet.KeystoreEntry, 0, len(names))
			for _, name := range names {
				e, err := ks.Entry(name)
				if err != nil {
					return err
				}
				entries = append(entries, e)
			}
			renderKeystore(a.out, entries)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <name>",
		Short: "delete a keystore entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
			if err != nil {
				return err
			}
			if err := ks.Delete(args[0]); err != nil {
				return err
			}
			klog.Keystore.Info().Str("name", args[0]).Msg("Deleted entry")
			fmt.Fprintf(a.out, "Deleted keystore entry: %s\n", args[0])
			return nil
		},
	}

	cmd := &cobra.Command{
		Use:   "keystore",
		Short: "manage encrypted mnemonics",
	}
	cmd.AddCommand(list, remove)
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(a.out, "tonkeys version %s (%s)\n", version, commit)
			return nil
		},
	}
}

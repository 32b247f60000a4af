// tonkeys generates and recovers TON wallet keys from BIP-39 mnemonics.
//
// Usage:
//
//	tonkeys new [--verify interactive] [--random] [--save name]
//	tonkeys recover [--mnemonic "w1 w2 ..."] [--from-keystore name]
//	tonkeys inspect <address>
//	tonkeys keystore list | delete <name>
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Klingon-tech/tonkeys/config"
	klog "github.com/Klingon-tech/tonkeys/internal/log"
	"github.com/Klingon-tech/tonkeys/internal/pipeline"
)

var (
	version = "dev"
	commit  = "none"
)

// app carries the process streams and the loaded config through the
// command tree.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	prompt *prompter

	flags    config.Flags
	logJSON  bool
	random   bool
	cfg      *config.Config
	exitCode int
}

func newApp(in io.Reader, out, errOut io.Writer, terminal bool, fd int) *app {
	r := bufio.NewReader(in)
	return &app{
		in:     r,
		out:    out,
		errOut: errOut,
		prompt: &prompter{in: r, out: errOut, terminal: terminal, fd: fd},
	}
}

func main() {
	fd := int(os.Stdin.Fd())
	a := newApp(os.Stdin, os.Stdout, os.Stderr, term.IsTerminal(fd), fd)
	os.Exit(a.run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func (a *app) run(args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	defer klog.Close()

	if err := root.Execute(); err != nil {
		if a.cfg != nil {
			klog.Error().Err(err).Msg("Command failed")
		}
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return pipeline.ExitFailure
	}
	return a.exitCode
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tonkeys",
		Short: "TON HD key tool",
		Long: "tonkeys generates a 24-word BIP-39 mnemonic, derives the Ed25519 key " +
			"at m/44'/607'/0' and prints the matching TON wallet addresses",
		Version:           fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.Config, "config", "c", "", "config file path (default: <datadir>/tonkeys.conf)")
	pf.StringVar(&a.flags.DataDir, "datadir", "", "data directory (default: ~/.tonkeys)")
	pf.StringVar(&a.flags.Network, "network", "", "network: mainnet or testnet")
	pf.StringVar(&a.flags.Versions, "versions", "", "comma separated wallet contract versions, e.g. v3r2,v4r2")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	pf.StringVar(&a.flags.LogFile, "log-file", "", "also write JSON logs to this file")
	pf.BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(
		a.newCmd(),
		a.recoverCmd(),
		a.inspectCmd(),
		a.keystoreCmd(),
		a.versionCmd(),
	)
	return root
}

// loadConfig resolves the configuration and sets up logging before any
// subcommand runs.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("log-json") {
		a.flags.LogJSON = &a.logJSON
	}
	if f := cmd.Flags().Lookup("random"); f != nil && f.Changed {
		a.flags.Random = &a.random
	}

	cfg, err := config.Load(&a.flags)
	if err != nil {
		return err
	}
	if err := config.EnsureDataDirs(cfg); err != nil {
		return fmt.Errorf("ensuring data dirs: %w", err)
	}
	if err := klog.Init(a.errOut, cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	a.cfg = cfg

	klog.CLI.Debug().
		Str("network", string(cfg.Network)).
		Str("datadir", cfg.DataDir).
		Str("command", cmd.Name()).
		Msg("Config loaded")
	return nil
}

// Package verify asks the operator to retype words of the stored mnemonic
// to confirm it was written down.
package verify

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	klog "github.com/Klingon-tech/tonkeys/internal/log"
	"github.com/Klingon-tech/tonkeys/internal/store"
	"github.com/Klingon-tech/tonkeys/internal/wallet"
)

// Rounds is the number of words the operator must retype.
const Rounds = 8

// Mode selects whether the interactive challenge runs.
type Mode string

const (
	// ModeSkip only checks that a valid mnemonic is stored.
	ModeSkip Mode = "skip"
	// ModeInteractive runs the challenge. Any mode other than ModeSkip
	// behaves the same way.
	ModeInteractive Mode = "interactive"
)

// Result is the outcome of a verification.
type Result int

const (
	Success Result = iota
	MissingMnemonic
	InvalidMnemonic
	WordMismatch
)

// OK reports whether verification passed.
func (r Result) OK() bool {
	return r == Success
}

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case MissingMnemonic:
		return "missing mnemonic"
	case InvalidMnemonic:
		return "invalid mnemonic"
	case WordMismatch:
		return "word mismatch"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// ErrInputClosed is returned together with WordMismatch when input ends
// before every round has been answered.
var ErrInputClosed = errors.New("input closed before verification finished")

// IndexFunc picks the 0-based word positions challenged for a mnemonic of
// n words.
type IndexFunc func(n int) []int

// Sequential challenges the first Rounds positions in order. Mnemonics
// shorter than Rounds words get fewer positions, which Verify rejects.
func Sequential(n int) []int {
	k := min(Rounds, n)
	out := make([]int, k)
	for i := range out {
		out[i] = i
	}
	return out
}

// Random challenges Rounds distinct positions in random order.
func Random(n int) []int {
	perm := rand.Perm(n)
	return perm[:min(Rounds, n)]
}

// Verifier runs the challenge against the mnemonic in a store.
type Verifier struct {
	store    *store.Store
	in       *bufio.Reader
	out      io.Writer
	indices  IndexFunc
	validate func([]string) bool
	log      zerolog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithIndices sets the position picker. Default: Sequential.
func WithIndices(f IndexFunc) Option {
	return func(v *Verifier) { v.indices = f }
}

// WithValidator replaces the BIP-39 validity check.
func WithValidator(f func([]string) bool) Option {
	return func(v *Verifier) { v.validate = f }
}

// New creates a Verifier reading answers from in and writing prompts to out.
func New(st *store.Store, in io.Reader, out io.Writer, opts ...Option) *Verifier {
	v := &Verifier{
		store:    st,
		in:       bufio.NewReader(in),
		out:      out,
		indices:  Sequential,
		validate: wallet.ValidateMnemonic,
		log:      klog.Verify,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks the stored mnemonic. In ModeSkip it stops after the
// validity check; otherwise it asks for Rounds words and stops at the
// first wrong one. A wrong word is a WordMismatch result, not an error.
// Errors are only returned for input failures.
func (v *Verifier) Verify(mode Mode) (Result, error) {
	words, ok := v.store.GetWords(store.KeyMnemonic)
	if !ok || len(words) == 0 {
		v.log.Warn().Msg("No mnemonic stored")
		return MissingMnemonic, nil
	}
	if !v.validate(words) {
		v.log.Warn().Int("words", len(words)).Msg("Stored mnemonic failed validation")
		return InvalidMnemonic, nil
	}
	if mode == ModeSkip {
		v.log.Debug().Msg("Interactive verification skipped")
		return Success, nil
	}

	indices := v.indices(len(words))
	if err := checkIndices(indices, len(words)); err != nil {
		return InvalidMnemonic, err
	}

	fmt.Fprintln(v.out, "Let's verify your mnemonic.")
	for round, idx := range indices {
		fmt.Fprintf(v.out, "Enter the word at index #%d: ", idx+1)

		line, err := v.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(v.out)
			if errors.Is(err, io.EOF) {
				v.log.Warn().Int("round", round+1).Msg("Input closed during verification")
				return WordMismatch, ErrInputClosed
			}
			return WordMismatch, fmt.Errorf("read answer: %w", err)
		}

		if strings.TrimSpace(line) != words[idx] {
			v.log.Info().Int("round", round+1).Int("index", idx+1).Msg("Wrong word")
			return WordMismatch, nil
		}
	}

	v.log.Info().Int("rounds", len(indices)).Msg("Mnemonic verified")
	return Success, nil
}

func checkIndices(indices []int, n int) error {
	if len(indices) != Rounds {
		return fmt.Errorf("got %d challenge indices for %d words, want %d", len(indices), n, Rounds)
	}
	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return fmt.Errorf("challenge index %d out of range [0,%d)", idx, n)
		}
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("challenge index %d repeated", idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}

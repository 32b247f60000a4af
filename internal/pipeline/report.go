package pipeline

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/tonkeys/internal/verify"
	"github.com/Klingon-tech/tonkeys/internal/wallet"
)

// ErrVerificationFailed marks a verify step that did not pass.
var ErrVerificationFailed = errors.New("mnemonic verification failed")

// Step names a stage of a run.
type Step string

const (
	StepGenerate  Step = "generate"
	StepRecover   Step = "recover"
	StepVerify    Step = "verify"
	StepDerive    Step = "derive"
	StepAddresses Step = "addresses"
)

// Process exit codes for a run.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitVerifyFailed = 2
)

// StepResult is the outcome of one step. Err is nil on success.
type StepResult struct {
	Step Step
	Err  error
}

// OK reports whether the step succeeded.
func (s StepResult) OK() bool {
	return s.Err == nil
}

// Report collects the outcome of a run.
type Report struct {
	Steps        []StepResult
	Verification verify.Result
	Mnemonic     wallet.Mnemonic
	KeyPair      *wallet.KeyPair
	Addresses    []wallet.ContractAddress
}

func (r *Report) record(log zerolog.Logger, step Step, err error) {
	r.Steps = append(r.Steps, StepResult{Step: step, Err: err})
	if err != nil {
		log.Error().Err(err).Str("step", string(step)).Msg("Step failed")
		return
	}
	log.Debug().Str("step", string(step)).Msg("Step done")
}

// Step returns the result of the named step, if it ran.
func (r *Report) Step(step Step) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == step {
			return s, true
		}
	}
	return StepResult{}, false
}

// Err joins the errors of every failed step.
func (r *Report) Err() error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// ExitCode maps the run to a process exit code. Failures outside the
// verify step take precedence over a failed verification.
func (r *Report) ExitCode() int {
	verifyFailed := false
	for _, s := range r.Steps {
		if s.Err == nil {
			continue
		}
		if s.Step != StepVerify {
			return ExitFailure
		}
		verifyFailed = true
	}
	if verifyFailed {
		return ExitVerifyFailed
	}
	return ExitOK
}

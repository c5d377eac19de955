package run

import (
	"fmt"

	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/pipeline"
)

const (
	exitCodeSuccess      = 0
	exitCodeConfig       = 1
	exitCodeFatal        = 2
	exitCodeFileFailures = 3
)

type runExitError struct {
	code int
	msg  string
	err  error
}

func (e runExitError) Error() string { return e.msg }
func (e runExitError) ExitCode() int { return e.code }
func (e runExitError) Unwrap() error { return e.err }

func configError(err error) error {
	return runExitError{code: exitCodeConfig, msg: err.Error(), err: err}
}

func fatalError(err error) error {
	return runExitError{code: exitCodeFatal, msg: err.Error(), err: err}
}

// evaluateRunExit maps the outcome of a run to the process exit status. A run
// with per-file failures is clean unless failOnFileFailures is set.
func evaluateRunExit(rep pipeline.Report, runErr error, failOnFileFailures bool) error {
	if runErr != nil {
		return fatalError(runErr)
	}
	if failOnFileFailures && len(rep.Ledger) > 0 {
		return runExitError{
			code: exitCodeFileFailures,
			msg:  fmt.Sprintf("%d of %d files failed", len(rep.Ledger), len(rep.Initial)),
		}
	}
	return nil
}

// hintsOf lists the operator hints carried by err.
func hintsOf(err error) []string {
	var fault *pipeline.FatalFault
	if errors.As(err, &fault) {
		return fault.Hints()
	}
	return errors.GetAllHints(err)
}

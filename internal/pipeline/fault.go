package pipeline

import (
	"fmt"

	"github.com/flarebyte/diaflow/internal/errors"
)

// Precondition names reported for a fatal abort.
const (
	PreconditionMissingExecutable = "missing executable"
	PreconditionMissingParameter  = "missing parameter file"
	PreconditionMissingDirectory  = "missing directory"
	PreconditionInterrupted       = "interrupted"
	PreconditionInvariant         = "internal invariant"
	PreconditionOther             = "stage precondition"
)

// FatalFault aborts the whole run. It is never produced for a single file.
type FatalFault struct {
	Stage        string
	Index        int
	Precondition string
	Err          error
}

func (f *FatalFault) Error() string {
	return fmt.Sprintf("stage %s aborted the run (%s): %v", f.Stage, f.Precondition, f.Err)
}

func (f *FatalFault) Unwrap() error { return f.Err }

// Hints returns the operator hints attached to the cause.
func (f *FatalFault) Hints() []string {
	return errors.GetAllHints(f.Err)
}

func newFatalFault(stageName string, index int, err error) *FatalFault {
	return &FatalFault{Stage: stageName, Index: index, Precondition: preconditionOf(err), Err: err}
}

func preconditionOf(err error) string {
	switch {
	case errors.Is(err, errors.ErrMissingExecutable):
		return PreconditionMissingExecutable
	case errors.Is(err, errors.ErrMissingParameterFile):
		return PreconditionMissingParameter
	case errors.Is(err, errors.ErrMissingDirectory):
		return PreconditionMissingDirectory
	case errors.Is(err, errors.ErrInterrupted):
		return PreconditionInterrupted
	case errors.Is(err, errors.ErrLedgerConflict), errors.HasAssertionFailure(err):
		return PreconditionInvariant
	default:
		return PreconditionOther
	}
}

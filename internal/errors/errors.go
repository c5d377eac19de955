// Package errors provides error handling for diaflow.
//
// It re-exports github.com/cockroachdb/errors so every package wraps, hints
// and inspects errors the same way:
//
//	if err := layout.Prepare(); err != nil {
//	    return errors.Wrap(err, "prepare layout")
//	}
//
//	return errors.WithHint(err, "set tools.java in diaflow.cue")
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Assertions
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinels shared by the engine and the stage strategies.
var (
	// ErrMissingExecutable marks a stage whose tool cannot be found on disk.
	ErrMissingExecutable = New("missing executable")

	// ErrMissingParameterFile marks a stage whose parameter document is absent.
	ErrMissingParameterFile = New("missing parameter file")

	// ErrMissingDirectory marks a stage whose working directory is absent.
	ErrMissingDirectory = New("missing directory")

	// ErrInterrupted is returned when the run is cancelled between stages.
	ErrInterrupted = New("interrupted")

	// ErrLedgerConflict is an invariant violation: a file was failed twice.
	ErrLedgerConflict = New("failure ledger conflict")
)

package stage

import (
	"context"
	"fmt"

	"github.com/flarebyte/diaflow/internal/invoke"
)

// Strategy is the stage-specific half of a stage: it knows which tool to run
// for one file and what a systemic precondition looks like.
type Strategy interface {
	// Name identifies the stage in logs, the ledger and the report.
	Name() string
	// SuccessState is the state a file reaches when it survives the stage.
	SuccessState() FileState
	// Preflight checks stage-wide preconditions before any file is touched.
	// A non-nil error aborts the run.
	Preflight(ctx context.Context, candidates []FileRecord) error
	// Process handles one file. It must not panic for ordinary failures.
	Process(ctx context.Context, inv invoke.Invoker, rec FileRecord) FileOutcome
}

// Serial is implemented by strategies whose tool cannot run concurrently
// with itself, for example because every run writes the same log file.
type Serial interface {
	Serial() bool
}

// FileOutcome is the classification of one file by one stage.
type FileOutcome struct {
	Failed  bool
	Kind    FailureKind
	Message string
	// Artifact replaces FileRecord.Current on success when non-empty.
	Artifact string
}

// Ok returns a successful outcome.
func Ok(artifact string) FileOutcome {
	return FileOutcome{Artifact: artifact}
}

// Fail returns a failed outcome.
func Fail(kind FailureKind, format string, args ...any) FileOutcome {
	return FileOutcome{Failed: true, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FromInvocation classifies a tool outcome by exit status alone.
func FromInvocation(o invoke.Outcome, artifact string) FileOutcome {
	switch {
	case o.Success():
		return Ok(artifact)
	case o.Err != nil:
		return FileOutcome{Failed: true, Kind: KindSpawn, Message: o.Diagnostic()}
	case o.TimedOut:
		return FileOutcome{Failed: true, Kind: KindTimeout, Message: o.Diagnostic()}
	default:
		return FileOutcome{Failed: true, Kind: KindTool, Message: o.Diagnostic()}
	}
}

func isSerial(s Strategy) bool {
	sr, ok := s.(Serial)
	return ok && sr.Serial()
}

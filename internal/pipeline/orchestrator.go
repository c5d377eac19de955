// Package pipeline threads the live file set through an ordered list of
// stages and keeps the failure ledger for the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/stage"
)

// Phase is the orchestrator state.
type Phase int

const (
	Running Phase = iota
	Completed
	AbortedFatal
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case AbortedFatal:
		return "aborted"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is Running(Stage), Completed or AbortedFatal.
type State struct {
	Phase Phase
	Stage int
}

func (s State) String() string {
	if s.Phase == Running {
		return fmt.Sprintf("running(%d)", s.Stage)
	}
	return s.Phase.String()
}

// StageSummary is one row of the end-of-run table.
type StageSummary struct {
	Name       string
	Candidates int
	Succeeded  int
	Failed     int
	Elapsed    time.Duration
	Skipped    bool
	// Aborted marks the stage whose fatal fault stopped the run.
	Aborted bool
}

// Report is the outcome of one run.
type Report struct {
	RunID    string
	State    State
	Started  time.Time
	Finished time.Time
	Initial  []string
	// Succeeded holds the files that completed every stage, in discovery order.
	Succeeded []stage.FileRecord
	Ledger    []LedgerEntry
	Stages    []StageSummary
	// Unclassified holds files still live when a fatal fault stopped the run.
	Unclassified []stage.FileRecord
	Fatal        *FatalFault
}

// Elapsed is the wall time of the run.
func (r Report) Elapsed() time.Duration { return r.Finished.Sub(r.Started) }

// Orchestrator runs stages strictly in order over one live set.
type Orchestrator struct {
	Runner *stage.Runner
	// Transition, when set, is called on every state change.
	Transition func(State)
}

// Run drives initial through stages. The returned error is a *FatalFault for
// an aborted run, or a setup error when the initial set is unusable; per-file
// failures never surface here and are listed in Report.Ledger instead.
func (o *Orchestrator) Run(ctx context.Context, runID string, initial []stage.FileRecord, stages []stage.Strategy) (Report, error) {
	rep := Report{RunID: runID, Started: time.Now(), Initial: stage.Paths(initial)}
	live, err := NewLiveSet(initial)
	if err != nil {
		rep.Finished = time.Now()
		return rep, err
	}
	runner := o.Runner
	if runner == nil {
		runner = &stage.Runner{}
	}
	ledger := NewFailureLedger()
	rep.Stages = make([]StageSummary, len(stages))
	for i, s := range stages {
		rep.Stages[i] = StageSummary{Name: s.Name(), Skipped: true}
	}
	logger.Infow("pipeline started", "run_id", runID, "files", live.Len(), "stages", len(stages))

	abort := func(i int, cause error) (Report, error) {
		fault := newFatalFault(stages[i].Name(), i, cause)
		rep.Stages[i] = StageSummary{Name: stages[i].Name(), Candidates: live.Len(), Aborted: true}
		o.enter(&rep, State{Phase: AbortedFatal, Stage: i})
		rep.Fatal = fault
		rep.Unclassified = live.Snapshot()
		rep.Ledger = ledger.Entries()
		rep.Finished = time.Now()
		logger.Errorw("pipeline aborted",
			"run_id", runID,
			"stage", fault.Stage,
			"precondition", fault.Precondition,
			"error", fault.Err.Error(),
			"unclassified", len(rep.Unclassified),
		)
		return rep, fault
	}

	for i, s := range stages {
		if live.Len() == 0 {
			logger.Infow("no files left, skipping remaining stages", "run_id", runID, "next_stage", s.Name())
			break
		}
		o.enter(&rep, State{Phase: Running, Stage: i})
		if ctx.Err() != nil {
			return abort(i, errors.Wrapf(errors.ErrInterrupted, "before stage %s: %v", s.Name(), ctx.Err()))
		}
		candidates := live.Snapshot()
		if err := s.Preflight(ctx, candidates); err != nil {
			return abort(i, err)
		}
		res := runner.Run(ctx, s, candidates)
		if err := live.Narrow(res); err != nil {
			return abort(i, err)
		}
		if err := ledger.Merge(s.Name(), res.Failed); err != nil {
			return abort(i, err)
		}
		rep.Stages[i] = StageSummary{
			Name:       s.Name(),
			Candidates: len(candidates),
			Succeeded:  len(res.Succeeded),
			Failed:     len(res.Failed),
			Elapsed:    res.Elapsed,
		}
	}

	rep.Succeeded = live.Snapshot()
	for i := range rep.Succeeded {
		rep.Succeeded[i].State = stage.StateCompleted
	}
	rep.Ledger = ledger.Entries()
	o.enter(&rep, State{Phase: Completed})
	rep.Finished = time.Now()
	logger.Infow("pipeline completed",
		"run_id", runID,
		"succeeded", len(rep.Succeeded),
		"failed", len(rep.Ledger),
		"elapsed", stage.FormatHMS(rep.Elapsed()),
	)
	return rep, nil
}

func (o *Orchestrator) enter(rep *Report, s State) {
	rep.State = s
	if o.Transition != nil {
		o.Transition(s)
	}
}

package stage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/logger"
)

// Result is the partition one stage produces over its candidates.
type Result struct {
	Stage     string
	Succeeded []FileRecord
	Failed    []FileRecord
	Elapsed   time.Duration
}

// Observer receives per-file notifications while a stage runs.
// Calls are serialized by the Runner.
type Observer interface {
	StageStarted(stage string, candidates int)
	FileDone(stage string, rec FileRecord)
}

// Runner applies one strategy to every candidate file of a stage.
type Runner struct {
	Invoker  invoke.Invoker
	Workers  int
	Observer Observer
}

// Run classifies every candidate. It never returns an error: each file ends
// up in exactly one of Succeeded or Failed, and Succeeded keeps input order.
func (r *Runner) Run(ctx context.Context, s Strategy, candidates []FileRecord) Result {
	name := s.Name()
	start := time.Now()
	workers := workerCount(r.Workers)
	if isSerial(s) {
		workers = 1
	}
	logger.Infow("stage started", "stage", name, "candidates", len(candidates), "workers", workers)

	var obsMu sync.Mutex
	if r.Observer != nil {
		r.Observer.StageStarted(name, len(candidates))
	}

	classified := runIndexedParallel(len(candidates), workers, func(i int) FileRecord {
		rec := r.processOne(ctx, s, candidates[i])
		if r.Observer != nil {
			obsMu.Lock()
			r.Observer.FileDone(name, rec)
			obsMu.Unlock()
		}
		return rec
	})

	res := Result{Stage: name}
	for _, rec := range classified {
		if rec.State == StateFailed {
			res.Failed = append(res.Failed, rec)
		} else {
			res.Succeeded = append(res.Succeeded, rec)
		}
	}
	res.Elapsed = time.Since(start)
	logger.Infow("stage finished",
		"stage", name,
		"succeeded", len(res.Succeeded),
		"failed", len(res.Failed),
		"elapsed", FormatMinSec(res.Elapsed),
	)
	return res
}

func (r *Runner) processOne(ctx context.Context, s Strategy, rec FileRecord) FileRecord {
	start := time.Now()
	out := r.safeProcess(ctx, s, rec)
	elapsed := time.Since(start)
	if out.Failed {
		kind := out.Kind
		if kind == "" {
			kind = KindTool
		}
		msg := out.Message
		if msg == "" {
			msg = "failed"
		}
		rec.State = StateFailed
		rec.Failure = &Failure{Stage: s.Name(), Message: msg, Kind: kind}
		kv := []interface{}{"stage", s.Name(), "file", rec.Path, "kind", string(kind), "reason", msg, "elapsed", FormatMinSec(elapsed)}
		if kind == KindUnexpected {
			logger.Errorw("file failed", kv...)
		} else {
			logger.Warnw("file failed", kv...)
		}
		return rec
	}
	rec.State = s.SuccessState()
	if out.Artifact != "" {
		rec.Current = out.Artifact
	}
	logger.Infow("file processed", "stage", s.Name(), "file", rec.Path, "elapsed", FormatMinSec(elapsed))
	return rec
}

// safeProcess turns a panic inside a strategy into a failure of that file only.
func (r *Runner) safeProcess(ctx context.Context, s Strategy, rec FileRecord) (out FileOutcome) {
	defer func() {
		if p := recover(); p != nil {
			out = Fail(KindUnexpected, "unexpected fault: %s", fmt.Sprint(p))
		}
	}()
	return s.Process(ctx, r.Invoker, rec)
}

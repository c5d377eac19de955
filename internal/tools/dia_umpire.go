package tools

import (
	"context"
	"os"
	"path/filepath"

	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/layout"
	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/stage"
)

// diaUmpireLog is written by DIA-Umpire SE next to its input on every run.
const diaUmpireLog = "diaumpire_se.log"

// diaUmpireStrategy runs DIA-Umpire signal extraction on one mzML file,
// producing the _Q1/_Q2/_Q3 pseudo-MS/MS spectra next to it.
type diaUmpireStrategy struct {
	env *Env
}

func (s *diaUmpireStrategy) Name() string                  { return StageDiaUmpire }
func (s *diaUmpireStrategy) SuccessState() stage.FileState { return "dia-processed" }

// Serial is true: every run writes the same log name in the raw directory.
func (s *diaUmpireStrategy) Serial() bool { return true }

func (s *diaUmpireStrategy) Preflight(context.Context, []stage.FileRecord) error {
	l := s.env.Layout
	return requireAll(
		func() error { return layout.RequireExecutable("java", l.Java, "tools.java") },
		func() error { return layout.RequireExecutable("DIA-Umpire SE", l.DiaUmpire, "tools.diaUmpire") },
		func() error {
			return layout.RequireParameterFile("DIA-Umpire parameters", l.DiaUmpireParams, "params.diaUmpire")
		},
	)
}

func (s *diaUmpireStrategy) Process(ctx context.Context, inv invoke.Invoker, rec stage.FileRecord) stage.FileOutcome {
	l := s.env.Layout
	dir := filepath.Dir(rec.Current)
	res := inv.Invoke(ctx, invoke.Command{
		Path: l.Java,
		Args: []string{"-jar", "-Xmx" + s.env.JavaHeap, l.DiaUmpire, rec.Current, l.DiaUmpireParams},
		Dir:  dir,
	})
	logName := rec.Sample + "_diaumpire.log"
	kept := keepToolLog(filepath.Join(dir, diaUmpireLog), filepath.Join(dir, logName))
	out := stage.FromInvocation(res, "")
	if out.Failed && kept {
		out.Message += " (see " + logName + ")"
	}
	return out
}

// keepToolLog renames a tool's fixed-name log to a per-sample name.
func keepToolLog(from, to string) bool {
	if _, err := os.Stat(from); err != nil {
		return false
	}
	if err := os.Rename(from, to); err != nil {
		logger.Warnw("could not keep tool log", "from", from, "to", to, "error", err.Error())
		return false
	}
	return true
}

func init() {
	Register(StageDiaUmpire, func(env *Env) stage.Strategy { return &diaUmpireStrategy{env: env} })
}

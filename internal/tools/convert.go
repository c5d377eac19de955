package tools

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/layout"
	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/stage"
)

// convertStrategy turns Thermo .raw files into .mzML with ThermoRawFileParser.
// Files that are already .mzML pass through untouched.
type convertStrategy struct {
	env *Env
}

func (s *convertStrategy) Name() string                  { return StageConvert }
func (s *convertStrategy) SuccessState() stage.FileState { return "converted" }

func (s *convertStrategy) Preflight(_ context.Context, candidates []stage.FileRecord) error {
	needs := 0
	for _, r := range candidates {
		if isThermoRaw(r.Current) {
			needs++
		}
	}
	if needs == 0 {
		return nil
	}
	l := s.env.Layout
	if !l.HasThermoRawFileParser {
		logger.Warnw("no raw file converter configured, raw files will fail", "files", needs)
		return nil
	}
	return layout.RequireExecutable("ThermoRawFileParser", l.ThermoRawFileParser, "tools.thermoRawFileParser")
}

func (s *convertStrategy) Process(ctx context.Context, inv invoke.Invoker, rec stage.FileRecord) stage.FileOutcome {
	if !isThermoRaw(rec.Current) {
		return stage.Ok(rec.Current)
	}
	if !s.env.Layout.HasThermoRawFileParser {
		return stage.Fail(stage.KindInput, "no converter configured for %s (set tools.thermoRawFileParser)", filepath.Base(rec.Current))
	}
	out := strings.TrimSuffix(rec.Current, filepath.Ext(rec.Current)) + ".mzML"
	res := inv.Invoke(ctx, invoke.Command{
		Path: s.env.Layout.ThermoRawFileParser,
		Args: []string{"-i", rec.Current, "-b", out},
		Dir:  filepath.Dir(rec.Current),
	})
	return stage.FromInvocation(res, out)
}

func isThermoRaw(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".raw")
}

func init() {
	Register(StageConvert, func(env *Env) stage.Strategy { return &convertStrategy{env: env} })
}

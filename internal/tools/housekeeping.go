package tools

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/layout"
	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/stage"
)

// Intermediate DIA-Umpire files nothing downstream reads.
var cleanSuffixes = []string{
	".DIAWindowsFS",
	".RTidxFS",
	".ScanClusterMapping_Q1",
	".ScanClusterMapping_Q2",
	".ScanClusterMapping_Q3",
	".ScanidxFS",
	".ScanPosFS",
	".ScanRTFS",
	"_diasetting.ser",
	"_params.ser",
}

// DIA-Umpire outputs the search stage consumes from the processed directory.
var moveSuffixes = []string{
	"_Q1.mgf", "_Q2.mgf", "_Q3.mgf",
	"_Q1.mzML", "_Q2.mzML", "_Q3.mzML",
	"_PeakCluster.csv",
}

type cleanStrategy struct {
	env *Env
}

func (s *cleanStrategy) Name() string                  { return StageClean }
func (s *cleanStrategy) SuccessState() stage.FileState { return "cleaned" }

func (s *cleanStrategy) Preflight(context.Context, []stage.FileRecord) error {
	return layout.RequireDirectory("raw", s.env.Layout.Raw)
}

func (s *cleanStrategy) Process(_ context.Context, _ invoke.Invoker, rec stage.FileRecord) stage.FileOutcome {
	dir := filepath.Dir(rec.Current)
	removed := 0
	for _, suf := range cleanSuffixes {
		p := filepath.Join(dir, rec.Sample+suf)
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case !os.IsNotExist(err):
			return stage.Fail(stage.KindUnexpected, "remove %s: %v", filepath.Base(p), err)
		}
	}
	peak := filepath.Join(dir, rec.Sample+"_Peak")
	if st, err := os.Stat(peak); err == nil && st.IsDir() {
		if err := os.RemoveAll(peak); err != nil {
			return stage.Fail(stage.KindUnexpected, "remove %s: %v", filepath.Base(peak), err)
		}
		removed++
	}
	logger.Debugw("intermediate files removed", "file", rec.Path, "removed", removed)
	return stage.Ok("")
}

type moveStrategy struct {
	env *Env
}

func (s *moveStrategy) Name() string                  { return StageMove }
func (s *moveStrategy) SuccessState() stage.FileState { return "moved" }

func (s *moveStrategy) Preflight(context.Context, []stage.FileRecord) error {
	return layout.RequireDirectory("processed", s.env.Layout.Processed)
}

func (s *moveStrategy) Process(_ context.Context, _ invoke.Invoker, rec stage.FileRecord) stage.FileOutcome {
	dir := filepath.Dir(rec.Current)
	moved := 0
	for _, suf := range moveSuffixes {
		name := rec.Sample + suf
		from := filepath.Join(dir, name)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := moveFile(from, filepath.Join(s.env.Layout.Processed, name)); err != nil {
			return stage.Fail(stage.KindUnexpected, "move %s: %v", name, err)
		}
		moved++
	}
	if moved == 0 {
		return stage.Fail(stage.KindInput, "no DIA-Umpire outputs found for %s", rec.Sample)
	}
	return stage.Ok("")
}

// moveFile renames, falling back to copy and remove across filesystems.
func moveFile(from, to string) error {
	if err := os.Rename(from, to); err == nil {
		return nil
	}
	return copyAndRemove(from, to)
}

// copyAndRemove closes both files before removing the source, which Windows
// requires.
func copyAndRemove(from, to string) error {
	if err := copyFile(from, to); err != nil {
		return err
	}
	return errors.WithStack(os.Remove(from))
}

func copyFile(from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()
	out, err := os.Create(to)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(out.Close())
}

func init() {
	Register(StageClean, func(env *Env) stage.Strategy { return &cleanStrategy{env: env} })
	Register(StageMove, func(env *Env) stage.Strategy { return &moveStrategy{env: env} })
}

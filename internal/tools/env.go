// Package tools holds the stage strategies of the DIA proteomics pipeline:
// one per external tool or file housekeeping step.
package tools

import (
	"os"
	"path/filepath"

	"github.com/flarebyte/diaflow/internal/config"
	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/layout"
	"github.com/flarebyte/diaflow/internal/logger"
)

// Stage names in pipeline order.
const (
	StageConvert       = "convert"
	StageDiaUmpire     = "dia-umpire"
	StageClean         = "clean"
	StageMove          = "move"
	StageSearch        = "search"
	StagePrepareReport = "prepare-report"
	StageExportReport  = "export-report"
)

// Env carries the resolved layout and tool settings shared by every strategy.
type Env struct {
	Layout    layout.Layout
	JavaHeap  string
	Engine    string
	Tiers     []string
	ReportIDs []string
	XLSX      bool
}

// NewEnv builds an Env from a loaded config and its resolved layout.
func NewEnv(cfg config.Config, l layout.Layout) *Env {
	return &Env{
		Layout:    l,
		JavaHeap:  cfg.Execution.JavaHeap,
		Engine:    cfg.Search.Engine,
		Tiers:     append([]string(nil), cfg.Search.Tiers...),
		ReportIDs: append([]string(nil), cfg.Reports.IDs...),
		XLSX:      cfg.Reports.XLSX,
	}
}

// javaClass runs a main class from a jar on the classpath.
func (e *Env) javaClass(jar, class string, args ...string) invoke.Command {
	return invoke.Command{
		Path: e.Layout.Java,
		Args: append([]string{"-cp", jar, class}, args...),
	}
}

// outputName is the per-sample name handed to SearchGUI and PeptideShaker.
func (e *Env) outputName(sample string) string {
	return e.Layout.Reference + "_" + sample
}

// removeGlob deletes generated files nobody reads, such as SearchGUI's html
// summaries. Failures are logged only.
func removeGlob(dir, pattern string) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			logger.Warnw("could not remove generated file", "file", m, "error", err.Error())
		}
	}
}

func fileNonEmpty(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir() && st.Size() > 0
}

package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/diaflow/internal/config"
	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/layout"
	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/stage"
)

const searchCLIClass = "eu.isas.searchgui.cmd.SearchCLI"

// searchStrategy runs a SearchGUI database search over the selected quality
// tiers of one sample.
type searchStrategy struct {
	env *Env
}

func (s *searchStrategy) Name() string                  { return StageSearch }
func (s *searchStrategy) SuccessState() stage.FileState { return "searched" }

func (s *searchStrategy) Preflight(context.Context, []stage.FileRecord) error {
	return requireSearchInputs(s.env.Layout, "SearchGUI", s.env.Layout.SearchGUI, "tools.searchGui")
}

func requireSearchInputs(l layout.Layout, tool, jar, key string) error {
	return requireAll(
		func() error { return layout.RequireExecutable("java", l.Java, "tools.java") },
		func() error { return layout.RequireExecutable(tool, jar, key) },
		func() error { return layout.RequireParameterFile("FASTA database", l.Fasta, "params.fasta") },
		func() error { return layout.RequireParameterFile("SearchGUI parameters", l.SearchParams, "params.searchGui") },
		func() error { return layout.RequireDirectory("processed", l.Processed) },
	)
}

func (s *searchStrategy) Process(ctx context.Context, inv invoke.Invoker, rec stage.FileRecord) stage.FileOutcome {
	l := s.env.Layout
	spectra := s.env.tierFiles(rec.Sample)
	if len(spectra) == 0 {
		return stage.Fail(stage.KindInput, "no non-empty tier files for %s (tiers %s)", rec.Sample, strings.Join(s.env.Tiers, ","))
	}
	outDir := filepath.Join(l.Searched, rec.Sample)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return stage.Fail(stage.KindUnexpected, "create %s: %v", outDir, err)
	}
	name := s.env.outputName(rec.Sample)
	cmd := s.env.javaClass(l.SearchGUI, searchCLIClass,
		"-spectrum_files", strings.Join(spectra, ","),
		"-fasta_file", l.Fasta,
		"-output_folder", outDir,
		"-id_params", l.SearchParams,
		"-"+s.env.Engine, "1",
		"-output_default_name", name,
		"-output_data", "1",
	)
	cmd.Transcript = filepath.Join(outDir, "search_cli.log")
	res := inv.Invoke(ctx, cmd)
	removeGlob(outDir, "SearchGUI*.html")
	return stage.FromInvocation(res, filepath.Join(outDir, name+".zip"))
}

// tierFiles returns the existing, non-empty tier spectra of a sample in tier
// order. Skipped tiers are logged.
func (e *Env) tierFiles(sample string) []string {
	var out []string
	for _, t := range e.Tiers {
		p := filepath.Join(e.Layout.Processed, sample+config.SearchTiers[t])
		if fileNonEmpty(p) {
			out = append(out, p)
			continue
		}
		logger.Warnw("tier file will not be searched", "file", filepath.Base(p), "tier", t)
	}
	return out
}

func init() {
	Register(StageSearch, func(env *Env) stage.Strategy { return &searchStrategy{env: env} })
}

package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/layout"
	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/stage"
)

const (
	peptideShakerClass = "eu.isas.peptideshaker.cmd.PeptideShakerCLI"
	reportClass        = "eu.isas.peptideshaker.cmd.ReportCLI"
)

// prepareReportStrategy imports a sample's search results into a
// PeptideShaker project (.psdb).
type prepareReportStrategy struct {
	env *Env
}

func (s *prepareReportStrategy) Name() string                  { return StagePrepareReport }
func (s *prepareReportStrategy) SuccessState() stage.FileState { return "report-prepared" }

func (s *prepareReportStrategy) Preflight(context.Context, []stage.FileRecord) error {
	return requireSearchInputs(s.env.Layout, "PeptideShaker", s.env.Layout.PeptideShaker, "tools.peptideShaker")
}

func (s *prepareReportStrategy) Process(ctx context.Context, inv invoke.Invoker, rec stage.FileRecord) stage.FileOutcome {
	l := s.env.Layout
	if !fileNonEmpty(rec.Current) {
		return stage.Fail(stage.KindInput, "search results %s not found", filepath.Base(rec.Current))
	}
	spectra := s.env.tierFiles(rec.Sample)
	if len(spectra) == 0 {
		return stage.Fail(stage.KindInput, "no non-empty tier files for %s", rec.Sample)
	}
	outDir := filepath.Dir(rec.Current)
	name := s.env.outputName(rec.Sample)
	psdb := filepath.Join(outDir, name+".psdb")
	cmd := s.env.javaClass(l.PeptideShaker, peptideShakerClass,
		"-reference", name,
		"-identification_files", rec.Current,
		"-spectrum_files", strings.Join(spectra, ","),
		"-fasta_file", l.Fasta,
		"-id_params", l.SearchParams,
		"-out", psdb,
	)
	cmd.Transcript = filepath.Join(outDir, "shaker_cli.log")
	res := inv.Invoke(ctx, cmd)
	removeGlob(outDir, "PeptideShaker*.html")
	return stage.FromInvocation(res, psdb)
}

// exportReportStrategy exports the configured PeptideShaker reports of one
// sample and optionally converts them to Excel workbooks.
type exportReportStrategy struct {
	env *Env
}

func (s *exportReportStrategy) Name() string                  { return StageExportReport }
func (s *exportReportStrategy) SuccessState() stage.FileState { return "reported" }

func (s *exportReportStrategy) Preflight(context.Context, []stage.FileRecord) error {
	l := s.env.Layout
	return requireAll(
		func() error { return layout.RequireExecutable("java", l.Java, "tools.java") },
		func() error { return layout.RequireExecutable("PeptideShaker", l.PeptideShaker, "tools.peptideShaker") },
		func() error { return layout.RequireDirectory("reports", l.Reports) },
	)
}

func (s *exportReportStrategy) Process(ctx context.Context, inv invoke.Invoker, rec stage.FileRecord) stage.FileOutcome {
	l := s.env.Layout
	if !fileNonEmpty(rec.Current) {
		return stage.Fail(stage.KindInput, "PeptideShaker project %s not found", filepath.Base(rec.Current))
	}
	outDir := filepath.Join(l.Reports, rec.Sample)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return stage.Fail(stage.KindUnexpected, "create %s: %v", outDir, err)
	}
	cmd := s.env.javaClass(l.PeptideShaker, reportClass,
		"-in", rec.Current,
		"-out_reports", outDir,
		"-reports", strings.Join(s.env.ReportIDs, ", "),
	)
	cmd.Transcript = filepath.Join(outDir, "reports_cli.log")
	res := inv.Invoke(ctx, cmd)
	out := stage.FromInvocation(res, outDir)
	if !out.Failed && s.env.XLSX {
		s.convertReports(outDir)
	}
	return out
}

// convertReports writes an .xlsx next to every exported .txt report.
// A report that cannot be converted is logged and does not fail the file.
func (s *exportReportStrategy) convertReports(dir string) {
	txts, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return
	}
	for _, txt := range txts {
		xlsx := strings.TrimSuffix(txt, ".txt") + ".xlsx"
		if err := ConvertTSVToXLSX(txt, xlsx); err != nil {
			logger.Errorw("report not converted to xlsx", "report", filepath.Base(txt), "error", err.Error())
			continue
		}
		logger.Infow("report converted to xlsx", "report", filepath.Base(txt), "xlsx", xlsx)
	}
}

func init() {
	Register(StagePrepareReport, func(env *Env) stage.Strategy { return &prepareReportStrategy{env: env} })
	Register(StageExportReport, func(env *Env) stage.Strategy { return &exportReportStrategy{env: env} })
}

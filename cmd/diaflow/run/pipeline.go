package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/flarebyte/diaflow/internal/config"
	"github.com/flarebyte/diaflow/internal/discover"
	"github.com/flarebyte/diaflow/internal/invoke"
	"github.com/flarebyte/diaflow/internal/layout"
	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/pipeline"
	"github.com/flarebyte/diaflow/internal/stage"
	"github.com/flarebyte/diaflow/internal/summary"
	"github.com/flarebyte/diaflow/internal/tools"
)

// execute runs one pipeline and returns an error carrying the exit code.
func execute(ctx context.Context, opts options, stdout, stderr io.Writer) (err error) {
	defer func() { printHints(stderr, err) }()

	cfg, err := loadConfig(opts)
	if err != nil {
		return configError(err)
	}
	l, err := layout.Resolve(cfg)
	if err != nil {
		return configError(err)
	}
	if err := logger.Initialize(logger.Options{
		JSON:    cfg.Logging.JSON,
		Verbose: cfg.Logging.Verbose,
		File:    underTop(l.Top, cfg.Logging.File),
	}); err != nil {
		return configError(err)
	}
	defer logger.Cleanup()

	names, err := ActionStages(cfg.Action)
	if err != nil {
		return configError(err)
	}
	stages, err := tools.Build(names, tools.NewEnv(cfg, l))
	if err != nil {
		return configError(err)
	}

	runID := uuid.NewString()
	logger.Infow("diaflow run",
		"run_id", runID,
		"config", cfg.Path,
		"action", cfg.Action,
		"reference", l.Reference,
		"workers", cfg.Execution.Workers,
	)
	if err := l.Prepare(); err != nil {
		logger.Errorw("working directories not ready", "run_id", runID, "error", err.Error())
		return fatalError(err)
	}
	files, err := discover.Scan(discover.Options{
		Raw:           l.Raw,
		Exclude:       cfg.Discovery.Exclude,
		Filter:        cfg.Discovery.Filter,
		FilterTimeout: millis(cfg.Discovery.FilterTimeoutMs),
	})
	if err != nil {
		logger.Errorw("discovery failed", "run_id", runID, "error", err.Error())
		return fatalError(err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &stage.Runner{
		Invoker: invoke.New(invoke.Options{
			Timeout:         millis(cfg.Execution.TimeoutMs),
			TermGrace:       millis(cfg.Execution.TermGraceMs),
			CaptureMaxBytes: cfg.Execution.CaptureMaxBytes,
		}),
		Workers: cfg.Execution.Workers,
	}
	progress := newProgressReporter(cfg.UI, stderr)
	if progress != nil {
		runner.Observer = progress
		progress.start()
	}
	orch := &pipeline.Orchestrator{
		Runner: runner,
		Transition: func(s pipeline.State) {
			logger.Debugw("pipeline state", "run_id", runID, "state", s.String())
		},
	}
	rep, runErr := orch.Run(ctx, runID, files, stages)
	if progress != nil {
		progress.stop()
	}

	summary.Log(rep)
	reportPath := opts.reportPath
	if reportPath == "" {
		reportPath = filepath.Join(l.Reports, summary.DefaultName)
	}
	if err := summary.Write(reportPath, rep, l.Reference); err != nil {
		logger.Errorw("summary not written", "path", reportPath, "error", err.Error())
	} else {
		logger.Infow("summary written", "path", reportPath)
	}
	if !cfg.Logging.JSON {
		_ = summary.Render(stdout, rep)
	}
	return evaluateRunExit(rep, runErr, cfg.Errors.FailOnFileFailures)
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.workersSet {
		cfg.Execution.Workers = opts.workers
	}
	if opts.jsonLogs {
		cfg.Logging.JSON = true
	}
	if opts.reference != "" {
		cfg.ReferenceName = opts.reference
	}
	if opts.progress {
		cfg.UI.Progress = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func printHints(w io.Writer, err error) {
	if err == nil {
		return
	}
	for _, h := range hintsOf(err) {
		_, _ = fmt.Fprintf(w, "hint: %s\n", h)
	}
}

func underTop(top, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(top, p)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

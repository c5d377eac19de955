package summary

import (
	"time"

	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/pipeline"
	"github.com/flarebyte/diaflow/internal/stage"
)

// Log writes the closing lines of a run to the run log.
func Log(rep pipeline.Report) {
	for _, r := range rep.Succeeded {
		logger.Infow("file completed", "file", r.Path)
	}
	for _, e := range rep.Ledger {
		logger.Warnw("file not completed", "file", e.Path, "stage", e.Stage, "kind", string(e.Kind), "reason", e.Message)
	}
	for _, f := range rep.Unclassified {
		logger.Warnw("file not classified", "file", f.Path)
	}
	for _, s := range rep.Stages {
		if s.Aborted {
			logger.Errorw("stage aborted", "stage", s.Name, "candidates", s.Candidates)
			continue
		}
		if s.Skipped {
			logger.Infow("stage skipped", "stage", s.Name)
			continue
		}
		logger.Infow("stage summary",
			"stage", s.Name,
			"succeeded", s.Succeeded,
			"failed", s.Failed,
			"elapsed", stage.FormatMinSec(s.Elapsed),
		)
	}
	logger.Infow("run finished",
		"run_id", rep.RunID,
		"state", rep.State.Phase.String(),
		"succeeded", len(rep.Succeeded),
		"failed", len(rep.Ledger),
		"elapsed", stage.FormatHMS(rep.Elapsed()),
		"finished_at", rep.Finished.Format(time.DateTime),
	)
}

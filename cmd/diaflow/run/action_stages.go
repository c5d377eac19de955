package run

import (
	"github.com/flarebyte/diaflow/internal/config"
	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/tools"
)

// ActionStages returns the fixed stage order used for an action.
func ActionStages(action string) ([]string, error) {
	preprocess := []string{
		tools.StageConvert,
		tools.StageDiaUmpire,
		tools.StageClean,
		tools.StageMove,
	}
	switch action {
	case config.ActionPreprocess:
		return preprocess, nil
	case config.ActionPipeline, "":
		return append(preprocess,
			tools.StageSearch,
			tools.StagePrepareReport,
			tools.StageExportReport,
		), nil
	default:
		return nil, errors.Newf("invalid action: %q", action)
	}
}

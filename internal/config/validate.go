package config

import (
	"regexp"
	"strings"

	"github.com/flarebyte/diaflow/internal/errors"
)

// SearchTiers maps a tier selector to the DIA-Umpire output suffix it searches.
var SearchTiers = map[string]string{
	"1":   "_Q1.mgf",
	"2":   "_Q2.mgf",
	"3":   "_Q3.mgf",
	"12":  "_Q1Q2_combined.mgf",
	"13":  "_Q1Q3_combined.mgf",
	"23":  "_Q2Q3_combined.mgf",
	"123": "_Q1Q2Q3_combined.mgf",
}

// SearchEngines are the SearchGUI engine flags diaflow can enable.
var SearchEngines = []string{
	"xtandem", "myrimatch", "ms_amanda", "msgf", "omssa",
	"comet", "tide", "andromeda", "meta_morpheus", "sage",
}

var javaHeapRe = regexp.MustCompile(`^[1-9][0-9]*[kKmMgG]?$`)
var reportIDRe = regexp.MustCompile(`^(1[0-2]|[0-9])$`)

// Validate checks cross-field constraints after defaults are applied.
func (c Config) Validate() error {
	switch c.Action {
	case ActionPipeline, ActionPreprocess:
	default:
		return errors.Newf("invalid action: %q (expected %s or %s)", c.Action, ActionPipeline, ActionPreprocess)
	}
	if strings.ContainsAny(c.ReferenceName, `/\`) {
		return errors.Newf("invalid referenceName: %q (path separators are not allowed)", c.ReferenceName)
	}
	if c.Layout.Raw == "" || c.Layout.Processed == "" || c.Layout.Searched == "" || c.Layout.Reports == "" {
		return errors.New("invalid layout: directory names must not be empty")
	}
	if c.Execution.Workers < 1 {
		return errors.Newf("invalid execution.workers: %d (must be >= 1)", c.Execution.Workers)
	}
	if c.Execution.TimeoutMs < 0 || c.Execution.TermGraceMs < 0 {
		return errors.New("invalid execution timeouts: values must be >= 0")
	}
	if c.Execution.CaptureMaxBytes <= 0 {
		return errors.Newf("invalid execution.captureMaxBytes: %d (must be > 0)", c.Execution.CaptureMaxBytes)
	}
	if !javaHeapRe.MatchString(c.Execution.JavaHeap) {
		return errors.Newf("invalid execution.javaHeap: %q (expected e.g. 8G)", c.Execution.JavaHeap)
	}
	if !isSearchEngine(c.Search.Engine) {
		return errors.Newf("invalid search.engine: %q (supported: %s)", c.Search.Engine, strings.Join(SearchEngines, ", "))
	}
	if len(c.Search.Tiers) == 0 {
		return errors.New("invalid search.tiers: at least one tier is required")
	}
	for _, t := range c.Search.Tiers {
		if _, ok := SearchTiers[t]; !ok {
			return errors.Newf("invalid search tier: %q (allowed: 1, 2, 3, 12, 13, 23, 123)", t)
		}
	}
	if len(c.Reports.IDs) == 0 {
		return errors.New("invalid reports.ids: at least one report is required")
	}
	for _, id := range c.Reports.IDs {
		if !reportIDRe.MatchString(id) {
			return errors.Newf("invalid report id: %q (expected 0-12)", id)
		}
	}
	if c.Discovery.FilterTimeoutMs <= 0 {
		return errors.Newf("invalid discovery.filterTimeoutMs: %d (must be > 0)", c.Discovery.FilterTimeoutMs)
	}
	if c.UI.ProgressIntervalMs <= 0 {
		return errors.Newf("invalid ui.progressIntervalMs: %d (must be > 0)", c.UI.ProgressIntervalMs)
	}
	return nil
}

func isSearchEngine(name string) bool {
	for _, e := range SearchEngines {
		if e == name {
			return true
		}
	}
	return false
}

package config

import "cuelang.org/go/cue"

func parseExecutionSection(v cue.Value, cfg *Config) error {
	if err := assignInt(v, "execution.workers", &cfg.Execution.Workers); err != nil {
		return err
	}
	if err := assignInt(v, "execution.timeoutMs", &cfg.Execution.TimeoutMs); err != nil {
		return err
	}
	if err := assignInt(v, "execution.termGraceMs", &cfg.Execution.TermGraceMs); err != nil {
		return err
	}
	if err := assignInt(v, "execution.captureMaxBytes", &cfg.Execution.CaptureMaxBytes); err != nil {
		return err
	}
	return assignString(v, "execution.javaHeap", &cfg.Execution.JavaHeap)
}

func parseSearchSection(v cue.Value, cfg *Config) error {
	if err := assignString(v, "search.engine", &cfg.Search.Engine); err != nil {
		return err
	}
	return assignStrings(v, "search.tiers", &cfg.Search.Tiers)
}

func parseReportsSection(v cue.Value, cfg *Config) error {
	if err := assignStrings(v, "reports.ids", &cfg.Reports.IDs); err != nil {
		return err
	}
	return assignBool(v, "reports.xlsx", &cfg.Reports.XLSX)
}

package config

import "cuelang.org/go/cue"

// parseDiscoverySection extracts exclude patterns and the optional Lua filter.
func parseDiscoverySection(v cue.Value, cfg *Config) error {
	if err := assignStrings(v, "discovery.exclude", &cfg.Discovery.Exclude); err != nil {
		return err
	}
	if err := assignString(v, "discovery.filter", &cfg.Discovery.Filter); err != nil {
		return err
	}
	return assignInt(v, "discovery.filterTimeoutMs", &cfg.Discovery.FilterTimeoutMs)
}

func parseMiscSections(v cue.Value, cfg *Config) error {
	if err := assignBool(v, "errors.failOnFileFailures", &cfg.Errors.FailOnFileFailures); err != nil {
		return err
	}
	if err := assignBool(v, "ui.progress", &cfg.UI.Progress); err != nil {
		return err
	}
	if err := assignInt(v, "ui.progressIntervalMs", &cfg.UI.ProgressIntervalMs); err != nil {
		return err
	}
	if err := assignBool(v, "logging.json", &cfg.Logging.JSON); err != nil {
		return err
	}
	if err := assignString(v, "logging.file", &cfg.Logging.File); err != nil {
		return err
	}
	return assignBool(v, "logging.verbose", &cfg.Logging.Verbose)
}

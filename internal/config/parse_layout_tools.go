package config

import "cuelang.org/go/cue"

func parseLayoutSection(v cue.Value, cfg *Config) error {
	fields := []struct {
		path string
		dst  *string
	}{
		{"layout.top", &cfg.Layout.Top},
		{"layout.raw", &cfg.Layout.Raw},
		{"layout.processed", &cfg.Layout.Processed},
		{"layout.searched", &cfg.Layout.Searched},
		{"layout.reports", &cfg.Layout.Reports},
	}
	for _, f := range fields {
		if err := assignString(v, f.path, f.dst); err != nil {
			return err
		}
	}
	return nil
}

func parseToolsSection(v cue.Value, cfg *Config) error {
	fields := []struct {
		path string
		dst  *string
	}{
		{"tools.java", &cfg.Tools.Java},
		{"tools.diaUmpire", &cfg.Tools.DiaUmpire},
		{"tools.searchGui", &cfg.Tools.SearchGUI},
		{"tools.peptideShaker", &cfg.Tools.PeptideShaker},
	}
	for _, f := range fields {
		if err := assignString(v, f.path, f.dst); err != nil {
			return err
		}
	}
	s, ok, err := lookupString(v, "tools.thermoRawFileParser")
	if err != nil {
		return err
	}
	if ok && s != "" {
		cfg.Tools.ThermoRawFileParser = s
		cfg.Tools.HasThermoRawFileParser = true
	}
	return nil
}

func parseParamsSection(v cue.Value, cfg *Config) error {
	if err := assignString(v, "params.diaUmpire", &cfg.Params.DiaUmpire); err != nil {
		return err
	}
	if err := assignString(v, "params.searchGui", &cfg.Params.SearchGUI); err != nil {
		return err
	}
	return assignString(v, "params.fasta", &cfg.Params.Fasta)
}

package config

// Default returns a config holding every default value.
func Default() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Action:        ActionPipeline,
		Layout: Layout{
			Top:       ".",
			Raw:       "raw",
			Processed: "processed",
			Searched:  "searched",
			Reports:   "reports",
		},
		Tools: Tools{
			Java: "java",
		},
		Params: Params{
			DiaUmpire: "umpire-se.params",
			SearchGUI: "search.par",
			Fasta:     "database.fasta",
		},
		Execution: Execution{
			Workers:         1,
			TermGraceMs:     2000,
			CaptureMaxBytes: 1 << 20,
			JavaHeap:        "8G",
		},
		Search: Search{
			Engine: "xtandem",
			Tiers:  []string{"1"},
		},
		Reports: Reports{
			IDs:  []string{"3", "9"},
			XLSX: true,
		},
		Discovery: Discovery{
			FilterTimeoutMs: 1000,
		},
		UI: UI{
			ProgressIntervalMs: 500,
		},
		Logging: Logging{
			File: "diaflow.log",
		},
	}
}

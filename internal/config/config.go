package config

import (
	"cuelang.org/go/cue"

	"github.com/flarebyte/diaflow/internal/errors"
)

// Actions select the ordered stage list.
const (
	ActionPipeline   = "pipeline"
	ActionPreprocess = "preprocess"
)

// Config is the validated content of a diaflow.cue file with defaults applied.
type Config struct {
	Path          string
	ConfigVersion string
	ReferenceName string
	Action        string
	Layout        Layout
	Tools         Tools
	Params        Params
	Execution     Execution
	Search        Search
	Reports       Reports
	Discovery     Discovery
	Errors        ErrorPolicy
	UI            UI
	Logging       Logging
}

// Layout holds the working directories; relative paths resolve against Top.
type Layout struct {
	Top       string
	Raw       string
	Processed string
	Searched  string
	Reports   string
}

// Tools holds executable and jar paths.
type Tools struct {
	Java                   string
	DiaUmpire              string
	SearchGUI              string
	PeptideShaker          string
	ThermoRawFileParser    string
	HasThermoRawFileParser bool
}

// Params holds the opaque parameter documents handed to the tools.
type Params struct {
	DiaUmpire string
	SearchGUI string
	Fasta     string
}

// Execution tunes how tools are spawned.
type Execution struct {
	Workers         int
	TimeoutMs       int
	TermGraceMs     int
	CaptureMaxBytes int
	JavaHeap        string
}

// Search selects the engine and the DIA-Umpire quality tiers to search.
type Search struct {
	Engine string
	Tiers  []string
}

// Reports lists the PeptideShaker report ids to export.
type Reports struct {
	IDs []string
	// XLSX converts exported tab-separated reports to Excel workbooks.
	XLSX bool
}

// Discovery narrows the raw directory scan.
type Discovery struct {
	Exclude         []string
	Filter          string
	FilterTimeoutMs int
}

// ErrorPolicy decides how per-file failures map to the exit code.
type ErrorPolicy struct {
	FailOnFileFailures bool
}

// UI controls terminal progress output.
type UI struct {
	Progress           bool
	ProgressIntervalMs int
}

// Logging controls the log sinks.
type Logging struct {
	JSON    bool
	File    string
	Verbose bool
}

// Load compiles, parses and validates a CUE config file.
func Load(path string) (Config, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := parse(v)
	if err != nil {
		return Config{}, err
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(v cue.Value) (Config, error) {
	cfg := Default()
	ver, ok, err := lookupString(v, "configVersion")
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Config{}, errors.New("missing required field: configVersion")
	}
	if !IsSupportedConfigVersion(ver) {
		return Config{}, errors.Newf("unsupported configVersion: %q (supported: %s)", ver, SupportedConfigVersionsCSV())
	}
	cfg.ConfigVersion = ver

	if err := assignString(v, "referenceName", &cfg.ReferenceName); err != nil {
		return Config{}, err
	}
	if err := assignString(v, "action", &cfg.Action); err != nil {
		return Config{}, err
	}
	parsers := []func(cue.Value, *Config) error{
		parseLayoutSection,
		parseToolsSection,
		parseParamsSection,
		parseExecutionSection,
		parseSearchSection,
		parseReportsSection,
		parseDiscoverySection,
		parseMiscSections,
	}
	for _, p := range parsers {
		if err := p(v, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

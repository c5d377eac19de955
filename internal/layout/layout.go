// Package layout resolves the working directories, tool paths and parameter
// documents of a run and checks that they exist.
package layout

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/flarebyte/diaflow/internal/config"
	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/logger"
)

// Layout is the resolved, absolute view of a config.
type Layout struct {
	Top       string
	Raw       string
	Processed string
	Searched  string
	Reports   string

	Reference string

	Java                   string
	DiaUmpire              string
	SearchGUI              string
	PeptideShaker          string
	ThermoRawFileParser    string
	HasThermoRawFileParser bool

	DiaUmpireParams string
	SearchParams    string
	Fasta           string
}

// Resolve turns relative config paths into absolute ones.
func Resolve(cfg config.Config) (Layout, error) {
	top, err := filepath.Abs(cfg.Layout.Top)
	if err != nil {
		return Layout{}, errors.Wrapf(err, "resolve top directory %s", cfg.Layout.Top)
	}
	under := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(top, p)
	}
	ref := cfg.ReferenceName
	if ref == "" {
		ref = filepath.Base(top)
	}
	return Layout{
		Top:       top,
		Raw:       under(cfg.Layout.Raw),
		Processed: under(cfg.Layout.Processed),
		Searched:  under(cfg.Layout.Searched),
		Reports:   under(cfg.Layout.Reports),
		Reference: ref,

		Java:                   resolveProgram(top, cfg.Tools.Java),
		DiaUmpire:              under(cfg.Tools.DiaUmpire),
		SearchGUI:              under(cfg.Tools.SearchGUI),
		PeptideShaker:          under(cfg.Tools.PeptideShaker),
		ThermoRawFileParser:    resolveProgram(top, cfg.Tools.ThermoRawFileParser),
		HasThermoRawFileParser: cfg.Tools.HasThermoRawFileParser,

		DiaUmpireParams: under(cfg.Params.DiaUmpire),
		SearchParams:    under(cfg.Params.SearchGUI),
		Fasta:           under(cfg.Params.Fasta),
	}, nil
}

// resolveProgram keeps paths with a separator relative to top and looks bare
// names up on PATH. An unresolvable bare name is returned unchanged.
func resolveProgram(top, name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return filepath.Join(top, name)
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	return name
}

// Prepare checks that the raw directory exists and creates the output ones.
func (l Layout) Prepare() error {
	logger.Infow("setting up working directories", "top", l.Top)
	if err := RequireDirectory("raw", l.Raw); err != nil {
		return err
	}
	logger.Infow("directory already exists", "dir", l.Raw)
	for _, dir := range []string{l.Processed, l.Searched, l.Reports} {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			logger.Infow("directory already exists", "dir", dir)
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create directory %s", dir)
		}
		logger.Infow("directory created", "dir", dir)
	}
	return nil
}

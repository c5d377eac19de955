package layout

import "github.com/flarebyte/diaflow/internal/errors"

// Item is one line of `diaflow check` output.
type Item struct {
	Name     string
	Path     string
	Found    bool
	Optional bool
	Err      error
}

// Missing reports a required item that was not found.
func (i Item) Missing() bool { return !i.Found && !i.Optional }

// CheckTools lists every executable the full pipeline needs.
func (l Layout) CheckTools() []Item {
	items := []Item{
		toolItem("java", l.Java, "tools.java"),
		toolItem("DIA-Umpire SE", l.DiaUmpire, "tools.diaUmpire"),
		toolItem("SearchGUI", l.SearchGUI, "tools.searchGui"),
		toolItem("PeptideShaker", l.PeptideShaker, "tools.peptideShaker"),
	}
	thermo := toolItem("ThermoRawFileParser", l.ThermoRawFileParser, "tools.thermoRawFileParser")
	thermo.Optional = true
	items = append(items, thermo)
	return items
}

// CheckParams lists every parameter document.
func (l Layout) CheckParams() []Item {
	return []Item{
		paramItem("DIA-Umpire parameters", l.DiaUmpireParams, "params.diaUmpire"),
		paramItem("SearchGUI parameters", l.SearchParams, "params.searchGui"),
		paramItem("FASTA database", l.Fasta, "params.fasta"),
	}
}

// CheckDirs lists the input directory; output directories are created on demand.
func (l Layout) CheckDirs() []Item {
	err := RequireDirectory("raw", l.Raw)
	return []Item{{Name: "raw directory", Path: l.Raw, Found: err == nil, Err: err}}
}

// FirstMissing returns the error of the first required item not found.
func FirstMissing(items []Item) error {
	for _, it := range items {
		if it.Missing() {
			if it.Err != nil {
				return it.Err
			}
			return errors.Newf("%s not found", it.Name)
		}
	}
	return nil
}

func toolItem(name, path, key string) Item {
	err := RequireExecutable(name, path, key)
	return Item{Name: name, Path: path, Found: err == nil, Err: err}
}

func paramItem(name, path, key string) Item {
	err := RequireParameterFile(name, path, key)
	return Item{Name: name, Path: path, Found: err == nil, Err: err}
}

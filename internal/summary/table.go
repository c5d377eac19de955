package summary

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/flarebyte/diaflow/internal/pipeline"
	"github.com/flarebyte/diaflow/internal/stage"
)

// TableData returns the per-stage rows shown at the end of a run, header first.
func TableData(rep pipeline.Report) pterm.TableData {
	data := pterm.TableData{{"Stage", "Files", "Succeeded", "Failed", "Elapsed"}}
	for _, s := range rep.Stages {
		switch {
		case s.Aborted:
			data = append(data, []string{s.Name, fmt.Sprint(s.Candidates), "-", "-", "aborted"})
			continue
		case s.Skipped:
			data = append(data, []string{s.Name, "-", "-", "-", "skipped"})
			continue
		}
		data = append(data, []string{
			s.Name,
			fmt.Sprint(s.Candidates),
			fmt.Sprint(s.Succeeded),
			fmt.Sprint(s.Failed),
			stage.FormatMinSec(s.Elapsed),
		})
	}
	return data
}

// Render prints the stage table followed by the failed files and, for an
// aborted run, the stage and precondition that stopped it.
func Render(w io.Writer, rep pipeline.Report) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(TableData(rep)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)
	for _, e := range rep.Ledger {
		fmt.Fprintf(w, "%s %s failed at %s: %s\n", pterm.Red("✗"), e.Path, e.Stage, e.Message)
	}
	if f := rep.Fatal; f != nil {
		fmt.Fprintf(w, "%s run aborted at stage %s (%s): %v\n", pterm.Red("!"), f.Stage, f.Precondition, f.Err)
		for _, h := range f.Hints() {
			fmt.Fprintf(w, "  hint: %s\n", h)
		}
		return nil
	}
	fmt.Fprintf(w, "%s %d of %d files completed in %s\n",
		pterm.Green("✓"), len(rep.Succeeded), len(rep.Initial), stage.FormatHMS(rep.Elapsed()))
	return nil
}

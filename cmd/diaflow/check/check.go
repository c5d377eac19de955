package check

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/flarebyte/diaflow/internal/config"
	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/layout"
)

var flagConfig string

// Cmd implements `diaflow check`.
var Cmd = &cobra.Command{
	Use:           "check",
	Short:         "Check that every configured tool, parameter file and directory exists",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(flagConfig, cmd.OutOrStdout())
	},
}

type checkError struct{ missing int }

func (e checkError) Error() string { return fmt.Sprintf("%d required item(s) missing", e.missing) }
func (e checkError) ExitCode() int { return 1 }

func runCheck(cfgPath string, w io.Writer) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	l, err := layout.Resolve(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "config %s (reference %s)\n", cfg.Path, l.Reference)

	var items []layout.Item
	items = append(items, l.CheckDirs()...)
	items = append(items, l.CheckTools()...)
	items = append(items, l.CheckParams()...)
	missing := 0
	for _, it := range items {
		printItem(w, it)
		if it.Missing() {
			missing++
		}
	}
	if missing > 0 {
		return checkError{missing: missing}
	}
	return nil
}

func printItem(w io.Writer, it layout.Item) {
	switch {
	case it.Found:
		fmt.Fprintf(w, "%s %-22s %s\n", pterm.Green("ok     "), it.Name, it.Path)
	case it.Optional:
		fmt.Fprintf(w, "%s %-22s %s\n", pterm.Yellow("skipped"), it.Name, displayPath(it.Path))
	default:
		fmt.Fprintf(w, "%s %-22s %s\n", pterm.Red("missing"), it.Name, displayPath(it.Path))
		for _, h := range errors.GetAllHints(it.Err) {
			fmt.Fprintf(w, "        hint: %s\n", h)
		}
	}
}

func displayPath(p string) string {
	if p == "" {
		return "(not configured)"
	}
	return p
}

func init() {
	Cmd.Flags().StringVarP(&flagConfig, "config", "c", "diaflow.cue", "Path to config file (.cue)")
}

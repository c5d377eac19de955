package run

import (
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	workers    int
	workersSet bool
	jsonLogs   bool
	reportPath string
	reference  string
	progress   bool
}

var flags options

// Cmd represents the `diaflow run` command.
var Cmd = &cobra.Command{
	Use:           "run",
	Short:         "Run the configured pipeline over the raw directory",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := flags
		opts.workersSet = cmd.Flags().Changed("workers")
		return execute(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	Cmd.Flags().StringVarP(&flags.configPath, "config", "c", "diaflow.cue", "Path to config file (.cue)")
	Cmd.Flags().IntVar(&flags.workers, "workers", 0, "Files processed concurrently within a stage (overrides execution.workers)")
	Cmd.Flags().BoolVar(&flags.jsonLogs, "json-logs", false, "Emit JSON log lines instead of console output")
	Cmd.Flags().StringVar(&flags.reportPath, "report", "", "Where to write the run summary (default <reports>/summary.yaml)")
	Cmd.Flags().StringVar(&flags.reference, "reference", "", "Reference name used for search outputs (overrides referenceName)")
	Cmd.Flags().BoolVar(&flags.progress, "progress", false, "Print periodic progress lines on stderr")
}

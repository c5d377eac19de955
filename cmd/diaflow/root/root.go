package root

import (
	"github.com/spf13/cobra"

	"github.com/flarebyte/diaflow/cmd/diaflow/check"
	"github.com/flarebyte/diaflow/cmd/diaflow/run"
	"github.com/flarebyte/diaflow/cmd/diaflow/version"
)

// NewRootCmd creates the root command for diaflow.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diaflow",
		Short: "CLI: DIA proteomics pipeline from raw spectra to PeptideShaker reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(run.Cmd)
	cmd.AddCommand(check.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

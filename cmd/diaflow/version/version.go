package version

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/flarebyte/diaflow/internal/buildinfo"
)

var (
	flagShort bool
	flagJSON  bool
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func printVersion(stdout, stderr io.Writer) error {
	if flagShort || !flagJSON {
		_, err := fmt.Fprintf(stdout, "diaflow %s\n", buildinfo.Summary())
		return err
	}

	// JSON goes to stdout, a human friendly line to stderr.
	_, _ = fmt.Fprintf(stderr, "diaflow version: %s\n", buildinfo.Summary())
	out := map[string]any{
		"go":        runtime.Version(),
		"go_os":     runtime.GOOS,
		"go_arch":   runtime.GOARCH,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range buildinfo.Fields() {
		out[k] = v
	}
	return encodeJSON(stdout, out)
}

func init() {
	VersionCmd.Flags().BoolVar(&flagShort, "short", false, "Print only the version string")
	VersionCmd.Flags().BoolVar(&flagJSON, "json", false, "Print detailed JSON version info")
}

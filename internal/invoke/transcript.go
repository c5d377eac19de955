package invoke

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/flarebyte/diaflow/internal/errors"
)

func quoteLine(words []string) string {
	return shellquote.Join(words...)
}

// WriteTranscript records the command line and the captured output of one
// invocation, overwriting any previous transcript at path.
func WriteTranscript(path string, c Command, res Outcome) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create transcript dir for %s", path)
	}
	var b strings.Builder
	b.WriteString("Command line arguments\n")
	b.WriteString("----------------------\n")
	b.WriteString(c.Line())
	b.WriteString("\n\nRun Log\n-------\n")
	b.WriteString(res.Stdout)
	if res.StdoutTruncated {
		b.WriteString("\n[stdout truncated]\n")
	}
	b.WriteString(res.Stderr)
	if res.StderrTruncated {
		b.WriteString("\n[stderr truncated]\n")
	}
	if d := res.Diagnostic(); d != "" {
		fmt.Fprintf(&b, "\n[%s]\n", d)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrapf(err, "write transcript %s", path)
	}
	return nil
}

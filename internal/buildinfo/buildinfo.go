// Package buildinfo exposes version metadata for the diaflow CLI. Values are
// set at build time with -ldflags, for example:
//
//	-ldflags "-X 'github.com/flarebyte/diaflow/internal/buildinfo.Version=1.2.3'"
package buildinfo

import (
	"runtime/debug"
	"strings"
)

var (
	// Version is the semantic version or custom string.
	Version = ""
	// Commit is the VCS commit hash (optional).
	Commit = ""
	// Date is the build time (optional).
	Date = ""
	// BuiltBy is an optional builder identifier.
	BuiltBy = ""
)

// version falls back to the module version recorded by `go install`, then "dev".
func version() string {
	if Version != "" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}

// Summary returns a concise single-line version string.
func Summary() string {
	v := version()
	parts := make([]string, 0, 2)
	if Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if Date != "" {
		parts = append(parts, "date="+Date)
	}
	if len(parts) > 0 {
		v += " (" + strings.Join(parts, ", ") + ")"
	}
	return v
}

// Fields returns the build metadata as key/value pairs for JSON output.
func Fields() map[string]string {
	return map[string]string{
		"version":  version(),
		"commit":   Commit,
		"date":     Date,
		"built_by": BuiltBy,
	}
}

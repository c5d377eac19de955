package stage

import (
	"path/filepath"
	"strings"
)

// FileState is the lifecycle position of one input file.
type FileState string

const (
	StatePending   FileState = "pending"
	StateFailed    FileState = "failed"
	StateCompleted FileState = "completed"
)

// FailureKind classifies why a file left the live set.
type FailureKind string

const (
	// KindTool is a tool that ran and exited non-zero.
	KindTool FailureKind = "tool"
	// KindSpawn is a tool that could not be started.
	KindSpawn FailureKind = "spawn"
	// KindTimeout is a tool stopped after the configured timeout.
	KindTimeout FailureKind = "timeout"
	// KindInput is a missing or unusable per-file input.
	KindInput FailureKind = "input"
	// KindUnexpected is a fault inside the strategy itself, such as a panic.
	KindUnexpected FailureKind = "unexpected"
)

// Failure is the reason a file was removed from the live set.
type Failure struct {
	Stage   string      `yaml:"stage"`
	Message string      `yaml:"message"`
	Kind    FailureKind `yaml:"kind"`
}

// FileRecord tracks one discovered file through the stages.
// Path is the identity and never changes; Current is the artifact the next
// stage consumes (the converted mzML after conversion, for example).
type FileRecord struct {
	Path    string
	Sample  string
	Current string
	State   FileState
	Failure *Failure
}

// NewFileRecord returns a Pending record for a discovered path.
func NewFileRecord(path string) FileRecord {
	return FileRecord{
		Path:    path,
		Sample:  SampleName(path),
		Current: path,
		State:   StatePending,
	}
}

// SampleName strips the directory and the extension from a path.
func SampleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Paths returns the identities of records in order.
func Paths(recs []FileRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Path
	}
	return out
}

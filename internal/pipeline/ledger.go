package pipeline

import (
	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/stage"
)

// LedgerEntry records why one file left the live set.
type LedgerEntry struct {
	Path    string            `yaml:"file"`
	Sample  string            `yaml:"sample"`
	Stage   string            `yaml:"stage"`
	Kind    stage.FailureKind `yaml:"kind"`
	Message string            `yaml:"message"`
}

// FailureLedger is append-only: an entry, once written, is never replaced.
type FailureLedger struct {
	entries []LedgerEntry
	index   map[string]int
}

// NewFailureLedger returns an empty ledger.
func NewFailureLedger() *FailureLedger {
	return &FailureLedger{index: map[string]int{}}
}

// Record appends one entry. Recording a file twice is a conflict.
func (l *FailureLedger) Record(e LedgerEntry) error {
	if prev, ok := l.Lookup(e.Path); ok {
		return errors.Wrapf(errors.ErrLedgerConflict, "file %s already failed at stage %s", e.Path, prev.Stage)
	}
	l.index[e.Path] = len(l.entries)
	l.entries = append(l.entries, e)
	return nil
}

// Merge records every failed record of a stage, in order.
func (l *FailureLedger) Merge(stageName string, failed []stage.FileRecord) error {
	for _, r := range failed {
		e := LedgerEntry{Path: r.Path, Sample: r.Sample, Stage: stageName, Kind: stage.KindTool}
		if r.Failure != nil {
			e.Kind = r.Failure.Kind
			e.Message = r.Failure.Message
		}
		if err := l.Record(e); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of failed files.
func (l *FailureLedger) Len() int { return len(l.entries) }

// Entries returns a copy of all entries in the order they were recorded.
func (l *FailureLedger) Entries() []LedgerEntry {
	return append([]LedgerEntry(nil), l.entries...)
}

// Lookup returns the entry for a file.
func (l *FailureLedger) Lookup(path string) (LedgerEntry, bool) {
	i, ok := l.index[path]
	if !ok {
		return LedgerEntry{}, false
	}
	return l.entries[i], true
}

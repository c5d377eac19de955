package pipeline

import (
	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/stage"
)

// LiveSet is the ordered set of files still eligible for the next stage.
// It only ever shrinks.
type LiveSet struct {
	records []stage.FileRecord
}

// NewLiveSet seeds a live set in discovery order. Duplicate paths are rejected.
func NewLiveSet(initial []stage.FileRecord) (*LiveSet, error) {
	seen := make(map[string]struct{}, len(initial))
	recs := make([]stage.FileRecord, 0, len(initial))
	for _, r := range initial {
		if _, dup := seen[r.Path]; dup {
			return nil, errors.Newf("duplicate input file %s", r.Path)
		}
		seen[r.Path] = struct{}{}
		recs = append(recs, r)
	}
	return &LiveSet{records: recs}, nil
}

// Len returns the number of live files.
func (l *LiveSet) Len() int { return len(l.records) }

// Snapshot returns a copy the caller may hand to a stage.
func (l *LiveSet) Snapshot() []stage.FileRecord {
	return append([]stage.FileRecord(nil), l.records...)
}

// Narrow replaces the live set with res.Succeeded after checking that the
// result is an order-preserving partition of the current live set.
func (l *LiveSet) Narrow(res stage.Result) error {
	if len(res.Succeeded)+len(res.Failed) != len(l.records) {
		return errors.AssertionFailedf("stage %s classified %d of %d files",
			res.Stage, len(res.Succeeded)+len(res.Failed), len(l.records))
	}
	pos := make(map[string]int, len(l.records))
	for i, r := range l.records {
		pos[r.Path] = i
	}
	seen := make(map[string]struct{}, len(l.records))
	claim := func(path string) error {
		if _, ok := pos[path]; !ok {
			return errors.AssertionFailedf("stage %s returned unknown file %s", res.Stage, path)
		}
		if _, dup := seen[path]; dup {
			return errors.AssertionFailedf("stage %s classified %s twice", res.Stage, path)
		}
		seen[path] = struct{}{}
		return nil
	}
	last := -1
	for _, r := range res.Succeeded {
		if err := claim(r.Path); err != nil {
			return err
		}
		if pos[r.Path] < last {
			return errors.AssertionFailedf("stage %s reordered %s", res.Stage, r.Path)
		}
		last = pos[r.Path]
	}
	for _, r := range res.Failed {
		if err := claim(r.Path); err != nil {
			return err
		}
	}
	l.records = append([]stage.FileRecord(nil), res.Succeeded...)
	return nil
}

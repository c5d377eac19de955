// Package discover scans the raw directory for spectra files and seeds the
// pipeline's initial file set.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/flarebyte/diaflow/internal/errors"
	"github.com/flarebyte/diaflow/internal/logger"
	"github.com/flarebyte/diaflow/internal/stage"
)

const (
	extMzML = ".mzML"
	extRaw  = ".raw"

	// IgnoreFile holds gitignore-style patterns in the raw directory.
	IgnoreFile = ".diaflowignore"
)

// Options control a scan.
type Options struct {
	Raw           string
	Exclude       []string
	Filter        string
	FilterTimeout time.Duration
}

// Scan lists .mzML and Thermo .raw files directly inside opts.Raw, sorted by
// name. Extensions match case-insensitively. A .raw file whose sample already has an .mzML is dropped so it is
// never converted again.
func Scan(opts Options) ([]stage.FileRecord, error) {
	entries, err := os.ReadDir(opts.Raw)
	if err != nil {
		return nil, errors.Wrapf(err, "read raw directory %s", opts.Raw)
	}
	ignore, err := newIgnoreMatcher(opts.Raw, opts.Exclude)
	if err != nil {
		return nil, err
	}
	var pred *luaPredicate
	if strings.TrimSpace(opts.Filter) != "" {
		pred = newLuaPredicate(opts.Filter, opts.FilterTimeout)
	}

	bySample := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isSpectraFile(name) {
			continue
		}
		if ignore.Match(name) {
			logger.Debugw("file excluded", "file", name)
			continue
		}
		if pred != nil {
			info, err := e.Info()
			if err != nil {
				return nil, errors.Wrapf(err, "stat %s", name)
			}
			keep, err := pred.Keep(fileFacts(name, info.Size()))
			if err != nil {
				return nil, errors.Wrapf(err, "discovery filter on %s", name)
			}
			if !keep {
				logger.Debugw("file filtered out", "file", name)
				continue
			}
		}
		sample := stage.SampleName(name)
		if prev, ok := bySample[sample]; ok && strings.EqualFold(filepath.Ext(prev), extMzML) {
			logger.Infow("already converted, skipping raw file", "file", name, "mzml", prev)
			continue
		}
		if prev, ok := bySample[sample]; ok {
			logger.Infow("already converted, skipping raw file", "file", prev, "mzml", name)
		}
		bySample[sample] = name
	}

	names := make([]string, 0, len(bySample))
	for _, n := range bySample {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]stage.FileRecord, len(names))
	for i, n := range names {
		out[i] = stage.NewFileRecord(filepath.Join(opts.Raw, n))
	}
	logger.Infow("files discovered", "raw", opts.Raw, "files", len(out))
	return out, nil
}

// isSpectraFile accepts pipeline inputs and rejects DIA-Umpire tier outputs
// left behind in the raw directory by an interrupted run.
func isSpectraFile(name string) bool {
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, extMzML) && !strings.EqualFold(ext, extRaw) {
		return false
	}
	base := strings.TrimSuffix(name, ext)
	for _, q := range []string{"_Q1", "_Q2", "_Q3"} {
		if strings.HasSuffix(base, q) {
			return false
		}
	}
	return true
}

func fileFacts(name string, size int64) map[string]any {
	return map[string]any{
		"name":   name,
		"sample": stage.SampleName(name),
		"ext":    strings.TrimPrefix(filepath.Ext(name), "."),
		"size":   size,
	}
}

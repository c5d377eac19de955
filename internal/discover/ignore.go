package discover

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/flarebyte/diaflow/internal/errors"
)

type ignoreMatcher struct {
	m gitignore.Matcher
}

// newIgnoreMatcher combines configured patterns with the raw directory's
// ignore file; later patterns win, so the file can re-include with "!".
func newIgnoreMatcher(raw string, exclude []string) (*ignoreMatcher, error) {
	var patterns []gitignore.Pattern
	add := func(line string) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			return
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	for _, p := range exclude {
		add(p)
	}
	b, err := os.ReadFile(filepath.Join(raw, IgnoreFile))
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "read %s", IgnoreFile)
	}
	for _, line := range strings.Split(string(b), "\n") {
		add(line)
	}
	if len(patterns) == 0 {
		return &ignoreMatcher{}, nil
	}
	return &ignoreMatcher{m: gitignore.NewMatcher(patterns)}, nil
}

// Match reports whether a file directly under raw is excluded.
func (i *ignoreMatcher) Match(name string) bool {
	if i == nil || i.m == nil {
		return false
	}
	return i.m.Match([]string{name}, false)
}

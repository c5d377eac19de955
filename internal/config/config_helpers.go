package config

import (
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/flarebyte/diaflow/internal/errors"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, errors.Wrap(err, "failed to read config")
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, errors.Newf("invalid config: %v", err)
	}
	return v, nil
}

func lookupString(v cue.Value, path string) (string, bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return "", false, nil
	}
	if f.Kind() != cue.StringKind {
		return "", false, errors.Newf("invalid type for field: %s (expected string)", path)
	}
	var s string
	if err := f.Decode(&s); err != nil {
		return "", false, errors.Newf("invalid value for %s: %v", path, err)
	}
	return s, true, nil
}

func lookupInt(v cue.Value, path string) (int, bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return 0, false, nil
	}
	if f.Kind() != cue.IntKind {
		return 0, false, errors.Newf("invalid type for field: %s (expected int)", path)
	}
	var n int
	if err := f.Decode(&n); err != nil {
		return 0, false, errors.Newf("invalid value for %s: %v", path, err)
	}
	return n, true, nil
}

func lookupBool(v cue.Value, path string) (bool, bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return false, false, nil
	}
	if f.Kind() != cue.BoolKind {
		return false, false, errors.Newf("invalid type for field: %s (expected bool)", path)
	}
	var b bool
	if err := f.Decode(&b); err != nil {
		return false, false, errors.Newf("invalid value for %s: %v", path, err)
	}
	return b, true, nil
}

func lookupStrings(v cue.Value, path string) ([]string, bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return nil, false, nil
	}
	if f.Kind() != cue.ListKind {
		return nil, false, errors.Newf("invalid type for field: %s (expected list of strings)", path)
	}
	var out []string
	if err := f.Decode(&out); err != nil {
		return nil, false, errors.Newf("invalid value for %s: %v", path, err)
	}
	return out, true, nil
}

func assignString(v cue.Value, path string, dst *string) error {
	s, ok, err := lookupString(v, path)
	if err != nil || !ok {
		return err
	}
	*dst = s
	return nil
}

func assignInt(v cue.Value, path string, dst *int) error {
	n, ok, err := lookupInt(v, path)
	if err != nil || !ok {
		return err
	}
	*dst = n
	return nil
}

func assignBool(v cue.Value, path string, dst *bool) error {
	b, ok, err := lookupBool(v, path)
	if err != nil || !ok {
		return err
	}
	*dst = b
	return nil
}

func assignStrings(v cue.Value, path string, dst *[]string) error {
	s, ok, err := lookupStrings(v, path)
	if err != nil || !ok {
		return err
	}
	*dst = s
	return nil
}

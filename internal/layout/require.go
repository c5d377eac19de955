package layout

import (
	"os"

	"github.com/flarebyte/diaflow/internal/errors"
)

// RequireExecutable fails with ErrMissingExecutable when path is not a file.
// configKey names the setting an operator has to fix.
func RequireExecutable(name, path, configKey string) error {
	if path == "" {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrMissingExecutable, "%s is not configured", name),
			"set %s in diaflow.cue", configKey)
	}
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrMissingExecutable, "%s not found at %s", name, path),
			"check %s in diaflow.cue", configKey)
	}
	return nil
}

// RequireParameterFile fails with ErrMissingParameterFile when path is not a file.
func RequireParameterFile(name, path, configKey string) error {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrMissingParameterFile, "%s not found at %s", name, path),
			"place the file there or set %s in diaflow.cue", configKey)
	}
	return nil
}

// RequireDirectory fails with ErrMissingDirectory when path is not a directory.
func RequireDirectory(name, path string) error {
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrMissingDirectory, "%s directory %s does not exist", name, path),
			"create %s and place the spectra files in it", path)
	}
	return nil
}

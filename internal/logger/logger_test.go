package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestUseInstallsObserver(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Use(zap.New(core).Sugar())
	t.Cleanup(func() { Use(nil) })

	Infow("stage started", "stage", "convert", "candidates", 3)
	Warnw("file failed", "stage", "convert", "file", "b.mzML")
	Debugw("hidden")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "stage started", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "b.mzML", entries[1].ContextMap()["file"])
}

func TestInitializeWritesFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "diaflow.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	require.NoError(t, Initialize(Options{File: path}))
	Infow("hello", "run_id", "r1")
	Cleanup()
	Use(nil)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "previous run")
	assert.Contains(t, string(b), "hello")
	assert.Contains(t, string(b), "INFO")
}

func TestUseNilFallsBackToNop(t *testing.T) {
	Use(nil)
	assert.NotPanics(t, func() { Infow("nothing") })
}

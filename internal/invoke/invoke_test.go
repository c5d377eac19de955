package invoke

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flarebyte/diaflow/internal/testutil"
)

func TestInvokeSuccessCapturesStreams(t *testing.T) {
	testutil.RequirePOSIXShell(t)
	inv := New(Options{})
	res := inv.Invoke(context.Background(), Command{
		Path: "sh",
		Args: []string{"-c", "printf 'out'; printf 'err' 1>&2"},
	})
	if !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Stdout != "out" || res.Stderr != "err" {
		t.Fatalf("unexpected capture: stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if res.Diagnostic() != "" {
		t.Fatalf("unexpected diagnostic: %q", res.Diagnostic())
	}
}

func TestInvokeNonZeroExit(t *testing.T) {
	testutil.RequirePOSIXShell(t)
	inv := New(Options{})
	res := inv.Invoke(context.Background(), Command{
		Path: "sh",
		Args: []string{"-c", "echo 'bad spectrum header' 1>&2; exit 3"},
	})
	if res.Success() {
		t.Fatalf("expected failure")
	}
	if res.ExitStatus != 3 {
		t.Fatalf("exit status: %d", res.ExitStatus)
	}
	if got := res.Diagnostic(); got != "exit status 3: bad spectrum header" {
		t.Fatalf("diagnostic: %q", got)
	}
}

func TestInvokeMissingProgramIsOutcome(t *testing.T) {
	inv := New(Options{})
	res := inv.Invoke(context.Background(), Command{Path: "/nonexistent/diaflow-tool"})
	if res.Success() || res.Err == nil {
		t.Fatalf("expected spawn failure, got %+v", res)
	}
	if res.ExitStatus != -1 {
		t.Fatalf("exit status: %d", res.ExitStatus)
	}
	if got := res.Diagnostic(); got != "program /nonexistent/diaflow-tool not found" {
		t.Fatalf("diagnostic: %q", res.Diagnostic())
	}
}

func TestInvokeTimeoutTerminates(t *testing.T) {
	testutil.RequirePOSIXShell(t)
	inv := New(Options{Timeout: 100 * time.Millisecond, TermGrace: 100 * time.Millisecond})
	start := time.Now()
	res := inv.Invoke(context.Background(), Command{Path: "sh", Args: []string{"-c", "sleep 5"}})
	if !res.TimedOut || res.Success() {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("timeout not enforced")
	}
	if !strings.HasPrefix(res.Diagnostic(), "timed out after") {
		t.Fatalf("diagnostic: %q", res.Diagnostic())
	}
}

func TestInvokeCaptureIsBounded(t *testing.T) {
	testutil.RequirePOSIXShell(t)
	inv := New(Options{CaptureMaxBytes: 4})
	res := inv.Invoke(context.Background(), Command{Path: "sh", Args: []string{"-c", "printf 'abcdefgh'"}})
	if !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Stdout != "abcd" || !res.StdoutTruncated {
		t.Fatalf("unexpected capture: %q truncated=%v", res.Stdout, res.StdoutTruncated)
	}
}

func TestInvokeDirAndEnv(t *testing.T) {
	testutil.RequirePOSIXShell(t)
	dir := t.TempDir()
	inv := New(Options{})
	res := inv.Invoke(context.Background(), Command{
		Path: "sh",
		Args: []string{"-c", "printf '%s' \"$DIAFLOW_SAMPLE\" > marker.txt"},
		Dir:  dir,
		Env:  map[string]string{"DIAFLOW_SAMPLE": "s1"},
	})
	if !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}
	b, err := os.ReadFile(filepath.Join(dir, "marker.txt"))
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if string(b) != "s1" {
		t.Fatalf("env overlay not applied: %q", b)
	}
}

func TestInvokeWritesTranscript(t *testing.T) {
	testutil.RequirePOSIXShell(t)
	path := filepath.Join(t.TempDir(), "logs", "search_cli.log")
	inv := New(Options{})
	res := inv.Invoke(context.Background(), Command{
		Path:       "sh",
		Args:       []string{"-c", "echo searching"},
		Transcript: path,
	})
	if !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	s := string(b)
	if !strings.HasPrefix(s, "Command line arguments\n----------------------\nsh -c 'echo searching'\n") {
		t.Fatalf("unexpected header: %q", s)
	}
	if !strings.Contains(s, "Run Log\n-------\nsearching\n") {
		t.Fatalf("unexpected body: %q", s)
	}
}

func TestApplyEnvOverlayReplacesKeys(t *testing.T) {
	got := applyEnvOverlay([]string{"A=1", "B=2"}, map[string]string{"B": "3", "C": "4"})
	want := []string{"A=1", "B=3", "C=4"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v want %v", got, want)
	}
}

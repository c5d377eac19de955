package invoke

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/flarebyte/diaflow/internal/errors"
)

const (
	defaultCaptureMaxBytes = 1 << 20
	defaultTermGrace       = 2 * time.Second
)

// Options configure an ExecInvoker.
type Options struct {
	// Timeout bounds each invocation; zero waits indefinitely.
	Timeout time.Duration
	// TermGrace is how long a timed-out tool gets between SIGTERM and SIGKILL.
	TermGrace time.Duration
	// CaptureMaxBytes bounds each captured stream; the rest is counted and dropped.
	CaptureMaxBytes int
}

// ExecInvoker runs commands with os/exec.
type ExecInvoker struct {
	opts Options
}

// New returns an ExecInvoker with defaults filled in.
func New(opts Options) *ExecInvoker {
	if opts.TermGrace <= 0 {
		opts.TermGrace = defaultTermGrace
	}
	if opts.CaptureMaxBytes <= 0 {
		opts.CaptureMaxBytes = defaultCaptureMaxBytes
	}
	return &ExecInvoker{opts: opts}
}

// limitedBuffer keeps the first max bytes written and reports truncation.
// It never returns a short write, so the child is never blocked on a full pipe.
type limitedBuffer struct {
	max       int
	buf       bytes.Buffer
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if b.max <= 0 {
		return n, nil
	}
	remain := b.max - b.buf.Len()
	if remain > 0 {
		if remain > len(p) {
			remain = len(p)
		}
		_, _ = b.buf.Write(p[:remain])
	}
	if len(p) > remain {
		b.truncated = true
	}
	return n, nil
}

func (b *limitedBuffer) String() string { return b.buf.String() }

// Invoke starts the tool, streams both outputs into bounded buffers and waits.
// The context is not used to stop a running tool: a stage always finishes
// classifying the file it started.
func (e *ExecInvoker) Invoke(_ context.Context, c Command) Outcome {
	start := time.Now()
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = applyEnvOverlay(os.Environ(), c.Env)
	setProcessGroup(cmd)

	outBuf := &limitedBuffer{max: e.opts.CaptureMaxBytes}
	errBuf := &limitedBuffer{max: e.opts.CaptureMaxBytes}
	cmd.Stdout = outBuf
	cmd.Stderr = errBuf

	if err := cmd.Start(); err != nil {
		res := Outcome{ExitStatus: -1, Duration: time.Since(start), Err: startError(c.Path, err)}
		e.writeTranscript(c, res)
		return res
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var runErr error
	timedOut := false
	if e.opts.Timeout > 0 {
		timer := time.NewTimer(e.opts.Timeout)
		select {
		case runErr = <-done:
			timer.Stop()
		case <-timer.C:
			timedOut = true
			signalProcess(cmd, sigTerm)
			grace := time.NewTimer(e.opts.TermGrace)
			select {
			case runErr = <-done:
				grace.Stop()
			case <-grace.C:
				signalProcess(cmd, sigKill)
				runErr = <-done
			}
		}
	} else {
		runErr = <-done
	}

	res := Outcome{
		Stdout:          outBuf.String(),
		Stderr:          errBuf.String(),
		StdoutTruncated: outBuf.truncated,
		StderrTruncated: errBuf.truncated,
		TimedOut:        timedOut,
		Duration:        time.Since(start),
	}
	switch {
	case timedOut:
		res.ExitStatus = -2
	case runErr != nil:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitStatus = exitErr.ExitCode()
		} else {
			res.ExitStatus = -1
			res.Err = errors.Wrapf(runErr, "program %s execution failed", c.Path)
		}
	}
	e.writeTranscript(c, res)
	return res
}

func startError(path string, err error) error {
	var ee *exec.Error
	if errors.As(err, &ee) || os.IsNotExist(err) {
		return errors.Newf("program %s not found", path)
	}
	if os.IsPermission(err) {
		return errors.Newf("program %s is not executable", path)
	}
	return errors.Wrapf(err, "program %s start failed", path)
}

func (e *ExecInvoker) writeTranscript(c Command, res Outcome) {
	if c.Transcript == "" {
		return
	}
	// A transcript that cannot be written does not change the classification.
	_ = WriteTranscript(c.Transcript, c, res)
}

func applyEnvOverlay(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return append([]string(nil), base...)
	}
	out := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		i := 0
		for i < len(kv) && kv[i] != '=' {
			i++
		}
		if _, ok := overlay[kv[:i]]; ok {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, overlay[k]))
	}
	return out
}

// Package invoke spawns external tools and reports how they exited.
//
// An Invoker never fails the caller: a tool that cannot be started, exits
// non-zero or runs past its timeout is described by the returned Outcome.
package invoke

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Command is one external tool invocation.
type Command struct {
	// Path is the executable.
	Path string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env entries overlay the parent environment.
	Env map[string]string
	// Transcript, when set, receives the command line and captured output
	// after the tool exits.
	Transcript string
}

// Line renders the command line for logs.
func (c Command) Line() string {
	return quoteLine(append([]string{c.Path}, c.Args...))
}

// Outcome describes how an invocation ended.
type Outcome struct {
	ExitStatus      int
	Stdout          string
	Stderr          string
	StdoutTruncated bool
	StderrTruncated bool
	TimedOut        bool
	Duration        time.Duration
	// Err is set when the process could not be started or waited on.
	Err error
}

// Success reports a zero exit status from a process that ran to completion.
func (o Outcome) Success() bool {
	return o.Err == nil && !o.TimedOut && o.ExitStatus == 0
}

// Diagnostic returns a single-line reason for a failed outcome.
func (o Outcome) Diagnostic() string {
	switch {
	case o.Err != nil:
		return singleLine(o.Err.Error())
	case o.TimedOut:
		return fmt.Sprintf("timed out after %s", o.Duration.Round(time.Millisecond))
	case o.ExitStatus != 0:
		msg := fmt.Sprintf("exit status %d", o.ExitStatus)
		if tail := lastLine(o.Stderr); tail != "" {
			msg += ": " + tail
		} else if tail := lastLine(o.Stdout); tail != "" {
			msg += ": " + tail
		}
		return msg
	}
	return ""
}

// Invoker runs one command to completion.
type Invoker interface {
	Invoke(ctx context.Context, cmd Command) Outcome
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, cmd Command) Outcome

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, cmd Command) Outcome { return f(ctx, cmd) }

func singleLine(msg string) string {
	s := strings.Join(strings.Fields(msg), " ")
	if s == "" {
		return "error"
	}
	return s
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return singleLine(l)
		}
	}
	return ""
}

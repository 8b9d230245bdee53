// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"

	"mythicrealms-cli/pkg/types"
)

var (
	// ErrToolFailed is the sentinel wrapped by every ToolError.
	ErrToolFailed = errors.New("external tool failed")

	// ErrEmptyCommand is returned by ParseCommand for a blank command string.
	ErrEmptyCommand = errors.New("empty command")
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// Tests inject a helper-process implementation.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures a Runner.
	Option func(*Runner)

	// Command is one external tool invocation.
	Command struct {
		Name string
		Args []string
		// Dir is the working directory; empty means the current one.
		Dir string
	}

	// Runner runs commands sequentially with stdio passed through.
	Runner struct {
		execCommand ExecCommandFunc
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer
		logger      *log.Logger
	}

	// ToolError reports a tool that exited non-zero or could not be started.
	ToolError struct {
		Tool     string
		Args     []string
		ExitCode types.ExitCode
		// Err is the spawn failure, or the *exec.ExitError for a non-zero exit.
		Err error
	}
)

// New creates a Runner writing to the process stdio.
func New(opts ...Option) *Runner {
	r := &Runner{
		execCommand: exec.CommandContext,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithExecCommand replaces exec.CommandContext.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(r *Runner) {
		if fn != nil {
			r.execCommand = fn
		}
	}
}

// WithStdio sets the streams handed to child processes.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLogger sets the logger used for per-command debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Run starts c and waits for it to exit.
func (r *Runner) Run(ctx context.Context, c Command) error {
	r.logger.Debug("running", "cmd", c.String(), "dir", c.Dir)

	cmd := r.execCommand(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	toolErr := &ToolError{Tool: c.Name, Args: c.Args, ExitCode: 1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = types.ExitCode(exitErr.ExitCode()).Failure()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		toolErr.Err = errors.Join(ctxErr, err)
	}
	return toolErr
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ParseCommand splits a configured command line such as "npm ci --ignore-scripts"
// using POSIX shell word rules. Environment variables are expanded.
func ParseCommand(s string) (Command, error) {
	fields, err := shell.Fields(s, nil)
	if err != nil {
		return Command{}, fmt.Errorf("failed to parse command %q: %w", s, err)
	}
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}
	return Command{Name: fields[0], Args: fields[1:]}, nil
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	cmd := Command{Name: e.Tool, Args: e.Args}.String()
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return fmt.Sprintf("%s: exited with status %d", cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s: failed to start: %v", cmd, e.Err)
}

// Unwrap exposes ErrToolFailed and the underlying cause.
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrToolFailed}
	}
	return []error{ErrToolFailed, e.Err}
}

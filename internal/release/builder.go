// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"mythicrealms-cli/internal/runner"
	"mythicrealms-cli/pkg/fspath"
	"mythicrealms-cli/pkg/types"
)

type (
	// Step is one named stage of a release build.
	Step struct {
		Name string
		Fn   func(ctx context.Context) error
	}

	// StepError reports the step a build failed in.
	StepError struct {
		Step string
		Err  error
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)

	// Builder runs the release steps for one set of Options.
	Builder struct {
		opts   Options
		out    string
		runner *runner.Runner
		logger *log.Logger
		steps  []Step
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %q: %v", e.Step, e.Err)
}

// Unwrap returns the step's error.
func (e *StepError) Unwrap() error { return e.Err }

// WithRunner sets the external command runner.
func WithRunner(r *runner.Runner) BuilderOption {
	return func(b *Builder) {
		if r != nil {
			b.runner = r
		}
	}
}

// WithLogger sets the logger steps report progress to.
func WithLogger(l *log.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New validates opts and prepares a Builder.
func New(opts Options, bopts ...BuilderOption) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out, err := safeOutput(opts.Out)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		opts:   opts,
		out:    out,
		runner: runner.New(),
		logger: log.New(io.Discard),
	}
	for _, opt := range bopts {
		opt(b)
	}

	b.steps = []Step{
		{Name: "prepare", Fn: b.prepare},
		{Name: "checkout", Fn: b.checkout},
		{Name: "install", Fn: b.install},
		{Name: "manifest", Fn: b.compileManifest},
		{Name: "icons", Fn: b.copyIcons},
		{Name: "content", Fn: b.copyContent},
		{Name: "build", Fn: b.build},
		{Name: "archive", Fn: b.archive},
	}
	return b, nil
}

// Steps returns the step names in execution order.
func (b *Builder) Steps() []string {
	names := make([]string, len(b.steps))
	for i, s := range b.steps {
		names[i] = s.Name
	}
	return names
}

// Out returns the absolute output directory.
func (b *Builder) Out() string { return b.out }

// Artifact returns the absolute path of the archive Run produces.
func (b *Builder) Artifact() string {
	return filepath.Join(b.out, archiveName(b.opts))
}

// Run executes every step in order, stopping at the first failure.
func (b *Builder) Run(ctx context.Context) error {
	for _, s := range b.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: s.Name, Err: err}
		}
		if err := s.Fn(ctx); err != nil {
			return &StepError{Step: s.Name, Err: err}
		}
	}
	b.logger.Info("Release ready", "artifact", b.Artifact())
	return nil
}

// safeOutput resolves out and rejects directories whose removal would
// destroy the filesystem root or the working directory.
func safeOutput(out string) (string, error) {
	abs, err := fspath.Abs(types.FilesystemPath(out))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if fspath.Dir(abs) == abs {
		return "", fmt.Errorf("%w: %s is the filesystem root", ErrUnsafeOutput, abs)
	}
	if wd, err := os.Getwd(); err == nil && abs.Contains(types.FilesystemPath(wd)) {
		return "", fmt.Errorf("%w: %s contains the working directory", ErrUnsafeOutput, abs)
	}
	return abs.String(), nil
}

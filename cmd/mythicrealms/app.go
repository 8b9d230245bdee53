// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"mythicrealms-cli/internal/config"
	"mythicrealms-cli/internal/runner"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches configuration, stdio and external tools
	// through it.
	App struct {
		Config      config.Provider
		execCommand runner.ExecCommandFunc
		environment map[string]string
		configDir   string
		workDir     string
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer

		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// ExecCommand replaces exec.CommandContext for external tools.
		ExecCommand runner.ExecCommandFunc
		// Environment replaces the process environment for config overrides.
		Environment map[string]string
		// ConfigDir replaces the platform config directory.
		ConfigDir string
		// WorkDir is the directory pack paths and ./config.cue resolve against.
		// Empty means the current directory.
		WorkDir string
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	return &App{
		Config:      deps.Config,
		execCommand: deps.ExecCommand,
		environment: deps.Environment,
		configDir:   deps.ConfigDir,
		workDir:     deps.WorkDir,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
}

// loadConfig resolves the effective configuration. --verbose wins over the
// file and environment.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, path, err := a.Config.Resolve(ctx, config.LoadOptions{
		ConfigFilePath: a.configPath,
		ConfigDirPath:  a.configDir,
		WorkDir:        a.workDir,
		Environment:    a.environment,
	})
	if err != nil {
		return nil, "", err
	}
	if a.verbose {
		cfg.UI.Verbose = true
	}
	return cfg, path, nil
}

// logger creates a component logger writing to stderr.
func (a *App) logger(prefix string, cfg *config.Config) *log.Logger {
	level := log.InfoLevel
	if cfg != nil && cfg.UI.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: prefix,
		Level:  level,
	})
}

// runner creates the external tool runner with stdio passed through.
func (a *App) runner(logger *log.Logger) *runner.Runner {
	return runner.New(
		runner.WithExecCommand(a.execCommand),
		runner.WithStdio(a.stdin, a.stdout, a.stderr),
		runner.WithLogger(logger),
	)
}

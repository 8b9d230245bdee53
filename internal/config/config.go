// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"mythicrealms-cli/internal/issue"
	"mythicrealms-cli/pkg/cueutil"
	"mythicrealms-cli/pkg/platform"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "mythicrealms"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

// ErrConfigExists is returned by Init when the file exists and force is not set.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if runtime.GOOS == platform.Darwin {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", AppName), nil
	}

	configDir := os.Getenv(platform.ConfigHomeEnv(runtime.GOOS))
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
		if runtime.GOOS == platform.Windows {
			configDir = filepath.Join(home, "AppData", "Roaming")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions resolves the config file, merges it over the defaults and
// applies environment overrides. It returns the path of the file that was
// loaded, or "" when only defaults and environment apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	resolvedPath, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'mythicrealms config show' to see the effective configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyEnv(&cfg, opts.Environment); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("read environment overrides").
			WithSuggestion("MYTHICREALMS_VERBOSE must be true or false").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// resolvePath picks the config file: an explicit path must exist, otherwise
// the config directory is tried, then the working directory.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'mythicrealms config init' to create one").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	userFile, err := DefaultPath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}

	for _, candidate := range []string{
		userFile,
		filepath.Join(opts.WorkDir, ConfigFileName+"."+ConfigFileExt),
	} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("system.name", defaults.System.Name)
	v.SetDefault("system.manifest", defaults.System.Manifest)
	v.SetDefault("system.platform_config", defaults.System.PlatformConfig)
	v.SetDefault("system.flag_scope", defaults.System.FlagScope)
	v.SetDefault("dist.out", defaults.Dist.Out)
	v.SetDefault("dist.repo", defaults.Dist.Repo)
	v.SetDefault("dist.url", defaults.Dist.URL)
	v.SetDefault("dist.install_command", defaults.Dist.InstallCommand)
	v.SetDefault("dist.build_command", defaults.Dist.BuildCommand)
	v.SetDefault("dist.compiled_entry", defaults.Dist.CompiledEntry)
	v.SetDefault("dist.entry", defaults.Dist.Entry)
	v.SetDefault("dist.archiver", defaults.Dist.Archiver)
	v.SetDefault("dist.content_copy", defaults.Dist.ContentCopy)
	v.SetDefault("dist.icon_path_from", defaults.Dist.IconPathFrom)
	v.SetDefault("dist.icon_path_to", defaults.Dist.IconPathTo)
	v.SetDefault("packs.source", defaults.Packs.Source)
	v.SetDefault("packs.dest", defaults.Packs.Dest)
	v.SetDefault("packs.format", defaults.Packs.Format)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into Viper.
// Config fields are optional, so the document is decoded to a map with
// concreteness relaxed and merged over the defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// applyEnv overlays MYTHICREALMS_* variables. A nil environment reads the
// process environment.
func applyEnv(cfg *Config, environ map[string]string) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: environ}); err != nil {
		return err
	}
	if o.Repo != "" {
		cfg.Dist.Repo = o.Repo
	}
	if o.ReleaseURL != "" {
		cfg.Dist.URL = o.ReleaseURL
	}
	if o.PackFormat != "" {
		cfg.Packs.Format = o.PackFormat
	}
	if o.Verbose != nil {
		cfg.UI.Verbose = *o.Verbose
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Init writes the default configuration to path, creating parent directories.
// An existing file is only replaced when force is set.
func Init(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultPath returns the config file inside configDir, or inside
// ConfigDir() when configDir is empty.
func DefaultPath(configDir string) (string, error) {
	dir := configDir
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// MythicRealms tooling configuration\n")
	sb.WriteString("// Unset fields fall back to built-in defaults.\n\n")

	sb.WriteString("system: {\n")
	fmt.Fprintf(&sb, "\tname:            %q\n", cfg.System.Name)
	fmt.Fprintf(&sb, "\tmanifest:        %q\n", cfg.System.Manifest)
	fmt.Fprintf(&sb, "\tplatform_config: %q\n", cfg.System.PlatformConfig)
	fmt.Fprintf(&sb, "\tflag_scope:      %q\n", cfg.System.FlagScope)
	sb.WriteString("}\n")

	sb.WriteString("\ndist: {\n")
	fmt.Fprintf(&sb, "\tout:             %q\n", cfg.Dist.Out)
	fmt.Fprintf(&sb, "\trepo:            %q\n", cfg.Dist.Repo)
	fmt.Fprintf(&sb, "\turl:             %q\n", cfg.Dist.URL)
	fmt.Fprintf(&sb, "\tinstall_command: %q\n", cfg.Dist.InstallCommand)
	fmt.Fprintf(&sb, "\tbuild_command:   %q\n", cfg.Dist.BuildCommand)
	fmt.Fprintf(&sb, "\tcompiled_entry:  %q\n", cfg.Dist.CompiledEntry)
	fmt.Fprintf(&sb, "\tentry:           %q\n", cfg.Dist.Entry)
	fmt.Fprintf(&sb, "\tarchiver:        %q\n", cfg.Dist.Archiver)
	fmt.Fprintf(&sb, "\tcontent_copy:    %q\n", cfg.Dist.ContentCopy)
	fmt.Fprintf(&sb, "\ticon_path_from:  %q\n", cfg.Dist.IconPathFrom)
	fmt.Fprintf(&sb, "\ticon_path_to:    %q\n", cfg.Dist.IconPathTo)
	sb.WriteString("}\n")

	sb.WriteString("\npacks: {\n")
	fmt.Fprintf(&sb, "\tsource: %q\n", cfg.Packs.Source)
	fmt.Fprintf(&sb, "\tdest:   %q\n", cfg.Packs.Dest)
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Packs.Format)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

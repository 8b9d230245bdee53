// SPDX-License-Identifier: MPL-2.0

package config

import (
	"mythicrealms-cli/internal/release"
	"mythicrealms-cli/pkg/compendium"
	"mythicrealms-cli/pkg/manifest"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// Config is the effective configuration after defaults, file and environment.
	Config struct {
		System SystemConfig `json:"system" mapstructure:"system"`
		Dist   DistConfig   `json:"dist" mapstructure:"dist"`
		Packs  PacksConfig  `json:"packs" mapstructure:"packs"`
		UI     UIConfig     `json:"ui" mapstructure:"ui"`
	}

	// SystemConfig names the system and its manifest files.
	SystemConfig struct {
		Name           string `json:"name" mapstructure:"name"`
		Manifest       string `json:"manifest" mapstructure:"manifest"`
		PlatformConfig string `json:"platform_config" mapstructure:"platform_config"`
		// FlagScope is the manifest flags namespace holding sourceBooks.
		FlagScope string `json:"flag_scope" mapstructure:"flag_scope"`
	}

	// DistConfig configures release builds.
	DistConfig struct {
		Out            string `json:"out" mapstructure:"out"`
		Repo           string `json:"repo" mapstructure:"repo"`
		URL            string `json:"url" mapstructure:"url"`
		InstallCommand string `json:"install_command" mapstructure:"install_command"`
		BuildCommand   string `json:"build_command" mapstructure:"build_command"`
		CompiledEntry  string `json:"compiled_entry" mapstructure:"compiled_entry"`
		Entry          string `json:"entry" mapstructure:"entry"`
		Archiver       string `json:"archiver" mapstructure:"archiver"`
		ContentCopy    string `json:"content_copy" mapstructure:"content_copy"`
		IconPathFrom   string `json:"icon_path_from" mapstructure:"icon_path_from"`
		IconPathTo     string `json:"icon_path_to" mapstructure:"icon_path_to"`
	}

	// PacksConfig configures the compendium pack tooling.
	PacksConfig struct {
		Source string `json:"source" mapstructure:"source"`
		Dest   string `json:"dest" mapstructure:"dest"`
		Format string `json:"format" mapstructure:"format"`
	}

	// UIConfig holds user interface settings.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// envOverrides are read from the process environment after the file.
	// Unset variables leave the field nil or empty.
	envOverrides struct {
		Repo       string `env:"MYTHICREALMS_REPO"`
		ReleaseURL string `env:"MYTHICREALMS_RELEASE_URL"`
		PackFormat string `env:"MYTHICREALMS_PACK_FORMAT"`
		Verbose    *bool  `env:"MYTHICREALMS_VERBOSE"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dist := release.DefaultOptions()
	return &Config{
		System: SystemConfig{
			Name:           dist.SystemName,
			Manifest:       manifest.FileName,
			PlatformConfig: dist.PlatformConfig,
			FlagScope:      dist.FlagScope,
		},
		Dist: DistConfig{
			Out:            dist.Out,
			Repo:           dist.Repo,
			URL:            dist.URL,
			InstallCommand: dist.InstallCommand,
			BuildCommand:   dist.BuildCommand,
			CompiledEntry:  dist.CompiledEntry,
			Entry:          dist.Entry,
			Archiver:       string(dist.Archiver),
			ContentCopy:    string(dist.ContentCopy),
			IconPathFrom:   dist.IconPathFrom,
			IconPathTo:     dist.IconPathTo,
		},
		Packs: PacksConfig{
			Source: compendium.DefaultSource,
			Dest:   compendium.DefaultDest,
			Format: string(compendium.FormatLevelDB),
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// ReleaseOptions maps the dist and system settings onto release options.
// Tag and FreeRules come from the command line.
func (c *Config) ReleaseOptions(tag, freeRules string) release.Options {
	return release.Options{
		Tag:            tag,
		FreeRules:      freeRules,
		Out:            c.Dist.Out,
		Repo:           c.Dist.Repo,
		URL:            c.Dist.URL,
		SystemName:     c.System.Name,
		FlagScope:      c.System.FlagScope,
		Manifest:       c.System.Manifest,
		PlatformConfig: c.System.PlatformConfig,
		InstallCommand: c.Dist.InstallCommand,
		BuildCommand:   c.Dist.BuildCommand,
		CompiledEntry:  c.Dist.CompiledEntry,
		Entry:          c.Dist.Entry,
		Archiver:       release.Archiver(c.Dist.Archiver),
		ContentCopy:    release.CopyPolicy(c.Dist.ContentCopy),
		IconPathFrom:   c.Dist.IconPathFrom,
		IconPathTo:     c.Dist.IconPathTo,
	}
}

// CompendiumOptions maps the packs and system settings onto pack tool options.
func (c *Config) CompendiumOptions() ([]compendium.Option, error) {
	format, err := compendium.ParseFormat(c.Packs.Format)
	if err != nil {
		return nil, err
	}
	return []compendium.Option{
		compendium.WithSource(c.Packs.Source),
		compendium.WithDest(c.Packs.Dest),
		compendium.WithFormat(format),
		compendium.WithManifest(c.System.Manifest),
	}, nil
}

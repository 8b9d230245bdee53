// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mythicrealms",
		Short: "Release and compendium tooling for the MythicRealms system",
		Long: TitleStyle.Render("mythicrealms") + SubtitleStyle.Render(" - release and compendium tooling") + `

mythicrealms builds distributable releases of the MythicRealms game system
and keeps its compendium packs editable as YAML.

` + SubtitleStyle.Render("Examples:") + `
  mythicrealms dist v1-2.3.0 ../mythicrealms-free     Build a release archive
  mythicrealms package unpack                          Extract compiled packs to YAML
  mythicrealms package clean spells "Magic Missile"    Normalize one source entry
  mythicrealms package pack                            Compile every pack
  mythicrealms config show                             Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/mythicrealms/config.cue)")

	rootCmd.AddCommand(newDistCommand(app))
	rootCmd.AddCommand(newPackageCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the failing tool's status, or 1 for any
// other failure. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitStatus(err))
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mythicrealms-cli/internal/config"
)

// newConfigCommand creates the `mythicrealms config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mythicrealms configuration",
		Long: `Manage mythicrealms configuration.

Configuration is read from the first file found of:
  - the --config flag
  - Linux: ~/.config/mythicrealms/config.cue
  - macOS: ~/Library/Application Support/mythicrealms/config.cue
  - Windows: %APPDATA%\mythicrealms\config.cue
  - ./config.cue

MYTHICREALMS_REPO, MYTHICREALMS_RELEASE_URL, MYTHICREALMS_PACK_FORMAT and
MYTHICREALMS_VERBOSE override the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with every default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, path, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, nil, err)
	}

	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	if path != "" {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	for _, section := range configSections(cfg) {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s:\n", CmdStyle.Render(section.name))
		for _, kv := range section.values {
			fmt.Fprintf(out, "  %s: %s\n", kv[0], SuccessStyle.Render(kv[1]))
		}
	}
	return nil
}

type configSection struct {
	name   string
	values [][2]string
}

func configSections(cfg *config.Config) []configSection {
	return []configSection{
		{"system", [][2]string{
			{"name", cfg.System.Name},
			{"manifest", cfg.System.Manifest},
			{"platform_config", cfg.System.PlatformConfig},
			{"flag_scope", cfg.System.FlagScope},
		}},
		{"dist", [][2]string{
			{"out", cfg.Dist.Out},
			{"repo", cfg.Dist.Repo},
			{"url", cfg.Dist.URL},
			{"install_command", cfg.Dist.InstallCommand},
			{"build_command", cfg.Dist.BuildCommand},
			{"compiled_entry", cfg.Dist.CompiledEntry},
			{"entry", cfg.Dist.Entry},
			{"archiver", cfg.Dist.Archiver},
			{"content_copy", cfg.Dist.ContentCopy},
			{"icon_path_from", cfg.Dist.IconPathFrom},
			{"icon_path_to", cfg.Dist.IconPathTo},
		}},
		{"packs", [][2]string{
			{"source", cfg.Packs.Source},
			{"dest", cfg.Packs.Dest},
			{"format", cfg.Packs.Format},
		}},
		{"ui", [][2]string{
			{"verbose", strconv.FormatBool(cfg.UI.Verbose)},
			{"color_scheme", string(cfg.UI.ColorScheme)},
		}},
	}
}

func initConfig(cmd *cobra.Command, app *App, force bool) error {
	path := app.configPath
	if path == "" {
		p, err := config.DefaultPath(app.configDir)
		if err != nil {
			return app.fail(cmd, nil, err)
		}
		path = p
	}

	if err := config.Init(path, force); err != nil {
		return app.fail(cmd, nil, err)
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), CmdStyle.Render(path))
	return nil
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	_, path, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, nil, err)
	}
	if path != "" {
		fmt.Fprintln(app.stdout, path)
		return nil
	}

	def, err := config.DefaultPath(app.configDir)
	if err != nil {
		return app.fail(cmd, nil, err)
	}
	fmt.Fprintf(app.stdout, "%s %s\n", def, SubtitleStyle.Render("(not created)"))
	return nil
}

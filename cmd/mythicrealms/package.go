// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mythicrealms-cli/internal/issue"
	"mythicrealms-cli/pkg/compendium"
)

const (
	actionClean  = "clean"
	actionPack   = "pack"
	actionUnpack = "unpack"
)

// newPackageCommand creates the `mythicrealms package` command.
func newPackageCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "package <clean|pack|unpack> [pack] [entry]",
		Short: "Clean, compile or extract compendium packs",
		Long: `Maintain compendium packs between their editable YAML sources in
packs/_source/<pack> and the compiled packs in packs/<pack>.

` + SubtitleStyle.Render("Actions:") + `
  clean    Normalize source YAML files in place
  pack     Compile source trees into compiled packs
  unpack   Extract compiled packs declared in system.json into YAML

[pack] restricts the run to one pack. [entry] (clean and unpack only)
restricts it to entries with that name, compared case-insensitively.`,
		Args:              cobra.MatchAll(cobra.RangeArgs(1, 3), validatePackageArgs),
		ValidArgsFunction: completePackageArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, pack, entryName := args[0], argAt(args, 1), argAt(args, 2)
			return runPackage(cmd, app, action, pack, entryName)
		},
	}
}

func validatePackageArgs(_ *cobra.Command, args []string) error {
	switch args[0] {
	case actionClean, actionUnpack:
		return nil
	case actionPack:
		if len(args) > 2 {
			return fmt.Errorf("%s does not take an entry name", actionPack)
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q (want %s, %s or %s)", args[0], actionClean, actionPack, actionUnpack)
	}
}

func completePackageArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []string{
			actionClean + "\tnormalize source YAML in place",
			actionPack + "\tcompile sources into packs",
			actionUnpack + "\textract packs into YAML",
		}, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func runPackage(cmd *cobra.Command, app *App, action, pack, entryName string) error {
	ctx := cmd.Context()

	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(cmd, nil, err)
	}
	opts, err := cfg.CompendiumOptions()
	if err != nil {
		return app.fail(cmd, cfg, err)
	}

	tool := compendium.New(append(opts,
		compendium.WithRoot(app.workDir),
		compendium.WithLogger(app.logger("packs", cfg)),
	)...)

	var operation string
	switch action {
	case actionClean:
		operation = "clean packs"
		err = tool.Clean(ctx, pack, entryName)
	case actionPack:
		operation = "compile packs"
		err = tool.Compile(ctx, pack)
	case actionUnpack:
		operation = "extract packs"
		err = tool.Extract(ctx, pack, entryName)
	}
	if err != nil {
		resource := tool.SourceDir()
		if pack != "" {
			resource = pack
		}
		return app.fail(cmd, cfg, issue.NewErrorContext().
			WithOperation(operation).
			WithResource(resource).
			Wrap(err).
			BuildError())
	}
	return nil
}

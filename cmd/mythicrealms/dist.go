// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mythicrealms-cli/internal/issue"
	"mythicrealms-cli/internal/release"
)

type distFlags struct {
	out         string
	repo        string
	url         string
	archiver    string
	contentCopy string
}

// newDistCommand creates the `mythicrealms dist` command.
func newDistCommand(app *App) *cobra.Command {
	var flags distFlags

	cmd := &cobra.Command{
		Use:   "dist <tag> <free-rules>",
		Short: "Build a release archive for a tag",
		Long: `Build a distributable release archive for a tag.

The output directory is wiped, the tag is cloned into it, dependencies are
installed, the system manifest is checked against the tag and merged with the
free rules sourceBooks, free rules icons and packs are copied in, the bundle is
built and everything is zipped into <system-name>-<tag>.zip.

The tag has the form <prefix>-<version>, and system.json at that tag must
already carry the version and download URL the tag implies.

` + SubtitleStyle.Render("Examples:") + `
  mythicrealms dist v1-2.3.0 ../mythicrealms-free
  mythicrealms dist v1-2.3.0 ../mythicrealms-free -o /tmp/release --archiver native`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDist(cmd, app, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output directory, wiped before the build (default \"./dist\")")
	cmd.Flags().StringVarP(&flags.repo, "repo", "r", "", "git URL of the system repository")
	cmd.Flags().StringVar(&flags.url, "url", "", "public repository URL the download link derives from")
	cmd.Flags().StringVar(&flags.archiver, "archiver", "", "archive with the zip tool or in-process (zip|native)")
	cmd.Flags().StringVar(&flags.contentCopy, "content-copy", "", "how free rules packs are copied (plain|rewrite)")

	_ = cmd.RegisterFlagCompletionFunc("archiver", cobra.FixedCompletions(
		[]string{string(release.ArchiverZip), string(release.ArchiverNative)}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("content-copy", cobra.FixedCompletions(
		[]string{string(release.CopyPlain), string(release.CopyRewrite)}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func runDist(cmd *cobra.Command, app *App, tag, freeRules string, flags distFlags) error {
	ctx := cmd.Context()

	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(cmd, nil, err)
	}

	opts := cfg.ReleaseOptions(tag, freeRules)
	if cmd.Flags().Changed("out") {
		opts.Out = flags.out
	}
	if cmd.Flags().Changed("repo") {
		opts.Repo = flags.repo
	}
	if cmd.Flags().Changed("url") {
		opts.URL = flags.url
	}
	if cmd.Flags().Changed("archiver") {
		opts.Archiver = release.Archiver(flags.archiver)
	}
	if cmd.Flags().Changed("content-copy") {
		opts.ContentCopy = release.CopyPolicy(flags.contentCopy)
	}

	logger := app.logger("dist", cfg)
	builder, err := release.New(opts,
		release.WithRunner(app.runner(logger)),
		release.WithLogger(logger),
	)
	if err != nil {
		return app.fail(cmd, cfg, err)
	}

	if err := builder.Run(ctx); err != nil {
		return app.fail(cmd, cfg, issue.NewErrorContext().
			WithOperation("build release").
			WithResource(tag).
			Wrap(err).
			BuildError())
	}

	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Release ready:"), CmdStyle.Render(builder.Artifact()))
	return nil
}

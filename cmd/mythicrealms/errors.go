// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mythicrealms-cli/internal/config"
	"mythicrealms-cli/internal/issue"
	"mythicrealms-cli/internal/release"
	"mythicrealms-cli/internal/runner"
	"mythicrealms-cli/pkg/compendium"
	"mythicrealms-cli/pkg/manifest"
)

// fail prints err with its catalogued guidance and converts it into an
// ExitError carrying the process status: the failing tool's exit code for
// external tool failures, 1 otherwise.
func (a *App) fail(cmd *cobra.Command, cfg *config.Config, err error) error {
	if err == nil {
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	verbose := a.verbose || (cfg != nil && cfg.UI.Verbose)
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	if id := classifyError(err); id != 0 {
		renderIssue(a.stderr, id, glamourStyle(cfg))
	}

	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// classifyError picks the issue guidance for err; 0 means none applies.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}

	switch {
	case errors.Is(err, runner.ErrToolFailed):
		return issue.ExternalToolFailedId
	case errors.Is(err, manifest.ErrVersionMismatch), errors.Is(err, manifest.ErrDownloadMismatch):
		return issue.ManifestMismatchId
	case errors.Is(err, manifest.ErrInvalidManifest):
		return issue.ManifestInvalidId
	case errors.Is(err, release.ErrFreeRulesMissing):
		return issue.FreeRulesMissingId
	case errors.Is(err, compendium.ErrSourceMissing):
		return issue.PackSourceMissingId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	}
	return 0
}

func renderIssue(w io.Writer, id issue.Id, style string) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		log.Warn("failed to render issue guidance", "issue", id, "err", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// glamourStyle maps the configured color scheme onto a glamour style name.
func glamourStyle(cfg *config.Config) string {
	if cfg == nil {
		return "auto"
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
